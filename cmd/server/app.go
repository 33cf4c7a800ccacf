package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/events"
	"github.com/phrazzld/flashcards/internal/platform/database"
	"github.com/phrazzld/flashcards/internal/platform/sweep"
	"github.com/phrazzld/flashcards/internal/service"
	"github.com/phrazzld/flashcards/internal/service/card_review"
	"github.com/phrazzld/flashcards/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	cardStore store.CardStore

	// Service interfaces
	srsService        srs.Service
	cardService       service.CardService
	cardReviewService card_review.CardReviewService

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// Background jobs
	sweeper *sweep.Sweeper
}

// newApplication creates a new application instance with all dependencies initialized.
// The database must already be open and migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.cardStore, err = database.NewCardStore(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}

	app.srsService, err = srs.NewServiceWithParams(srs.NewParams(cfg.SRS))
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	// Every card change is logged.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLoggingHandler(logger))

	app.cardService, err = service.NewCardService(
		service.NewCardRepositoryAdapter(app.cardStore, db),
		logger,
		service.WithEventEmitter(app.eventEmitter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.cardReviewService = card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(app.cardStore, db),
		app.srsService,
		logger,
		card_review.WithEventEmitter(app.eventEmitter),
	)

	if cfg.Sweep.Enabled {
		app.sweeper = sweep.New(app.cardStore, cfg.Sweep.Interval, logger)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background sweep and the HTTP server, and blocks until ctx
// is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if app.sweeper != nil {
		if err := app.sweeper.Start(ctx); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to start due sweep: %w", err)
		}
		app.logger.Info("Due sweep started", "interval", app.config.Sweep.Interval)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
