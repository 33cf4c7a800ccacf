// Package main implements a terminal study client. It loads the cards that
// are due from the configured store and walks through them one at a time.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/events"
	"github.com/phrazzld/flashcards/internal/platform/database"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/service/card_review"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("study: %v", err)
	}
}

// run wires the study loop to the store named by the configuration. Logs go
// to errOut so they do not interleave with the session on out.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	fs := pflag.NewFlagSet("study", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.OptionsFromFlags(fs)...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	studyLogger, err := logger.SetupWithWriter(cfg.Server, errOut)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := database.OpenAndMigrate(ctx, cfg.Database.Driver, cfg.Database.URL, studyLogger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cards, err := database.NewCardStore(cfg.Database.Driver, db, studyLogger)
	if err != nil {
		return err
	}

	srsService, err := srs.NewServiceWithParams(srs.NewParams(cfg.SRS))
	if err != nil {
		return fmt.Errorf("failed to create SRS service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(studyLogger)
	counter := events.NewCounter()
	emitter.RegisterHandler(counter)

	reviews := card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(cards, db),
		srsService,
		studyLogger,
		card_review.WithEventEmitter(emitter),
	)

	s := &studyLoop{
		cards:   cards,
		reviews: reviews,
		counter: counter,
		due:     srs.NewDueFilter(studyLogger),
		now:     time.Now,
		in:      in,
		out:     out,
	}
	return s.Run(ctx)
}
