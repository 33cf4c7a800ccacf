package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/platform/database"
)

// setupAppDatabase establishes a connection to the database selected by
// cfg.Database.Driver. Returns an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established",
		slog.String("driver", cfg.Database.Driver))
	return db, nil
}
