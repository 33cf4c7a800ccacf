package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/phrazzld/flashcards/internal/platform/migrations"
)

// handleMigrations runs a single goose command against db and returns.
// It's called from run() when the --migrate flag is set.
func handleMigrations(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	command string,
	logger *slog.Logger,
) error {
	logger.Info("Executing migrations",
		"command", command,
		"driver", cfg.Database.Driver)
	return migrations.Run(ctx, db, cfg.Database.Driver, command, logger)
}
