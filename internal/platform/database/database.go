// Package database selects the card store backend named by the configured
// driver, so commands do not need to know about each implementation.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards/internal/platform/migrations"
	"github.com/phrazzld/flashcards/internal/platform/postgres"
	"github.com/phrazzld/flashcards/internal/platform/sqlite"
	"github.com/phrazzld/flashcards/internal/redact"
	"github.com/phrazzld/flashcards/internal/store"
)

// Open connects to the database for driver. Connection details are redacted
// from the returned error.
func Open(ctx context.Context, driver, url string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case migrations.DriverPostgres:
		db, err = postgres.Open(ctx, url)
	case migrations.DriverSQLite:
		db, err = sqlite.Open(ctx, url)
	default:
		return nil, unsupported(driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %s", driver, redact.Error(err))
	}
	return db, nil
}

// OpenAndMigrate opens the database and applies pending migrations.
func OpenAndMigrate(ctx context.Context, driver, url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := Open(ctx, driver, url)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db, driver, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}

// NewCardStore returns the card store implementation for driver over db.
func NewCardStore(driver string, db store.DBTX, logger *slog.Logger) (store.CardStore, error) {
	switch driver {
	case migrations.DriverPostgres:
		return postgres.NewPostgresCardStore(db, logger), nil
	case migrations.DriverSQLite:
		return sqlite.NewSQLiteCardStore(db, logger), nil
	default:
		return nil, unsupported(driver)
	}
}

func unsupported(driver string) error {
	return fmt.Errorf("unsupported database driver %q", driver)
}
