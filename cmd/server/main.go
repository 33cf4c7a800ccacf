// Package main implements the entry point for the flashcards API server,
// which stores cards and schedules their reviews.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/platform/migrations"
	"github.com/spf13/pflag"
)

const flagMigrate = "migrate"

// main is the entry point for the flashcards server.
// It parses flags, loads configuration and either runs a migration command
// or serves the API until SIGINT or SIGTERM.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("flashcards server: %v", err)
	}
}

// run holds the body of main so it can return errors and be tested.
func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	migrateCmd := fs.String(flagMigrate, "",
		fmt.Sprintf("run a migration command and exit: one of %v", migrations.Commands))
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(fs)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return handleMigrations(ctx, cfg, db, *migrateCmd, logger)
	}

	// The schema must be current before any store is used.
	if err := migrations.Up(ctx, db, cfg.Database.Driver, logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
