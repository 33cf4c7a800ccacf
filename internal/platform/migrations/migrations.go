// Package migrations applies the embedded goose schema migrations for each
// supported database driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// TableName is the table goose records applied versions in.
const TableName = "schema_migrations"

// Supported drivers, matching config database.driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var embedded embed.FS

// ErrUnknownCommand is returned for a command Run does not understand.
var ErrUnknownCommand = errors.New("unknown migration command")

// goose keeps dialect, base FS and logger in package state.
var gooseMu sync.Mutex

// Commands lists the migration commands Run accepts.
var Commands = []string{"up", "down", "reset", "status", "version"}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// It does not exit; the failing goose call returns an error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func dialectFor(driver string) (goose.Dialect, string, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, "sql/postgres", nil
	case DriverSQLite:
		return goose.DialectSQLite3, "sql/sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Files returns the migration file names for driver in version order.
func Files(driver string) ([]string, error) {
	_, dir, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return fs.Glob(embedded, dir+"/*.sql")
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	return Run(ctx, db, driver, "up", logger)
}

// Run executes a goose command against db using the migrations embedded for driver.
func Run(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "migrations"),
		slog.String("driver", driver),
		slog.String("command", command),
	)

	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}
	if !slices.Contains(Commands, command) {
		return fmt.Errorf("%w: %s (expected one of %v)", ErrUnknownCommand, command, Commands)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	before, _ := goose.GetDBVersionContext(ctx, db)
	start := time.Now()

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "reset":
		err = goose.ResetContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "version":
		err = goose.VersionContext(ctx, db, dir)
	default:
		return fmt.Errorf("%w: %s (expected one of %v)", ErrUnknownCommand, command, Commands)
	}

	if err != nil {
		logger.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("migration command '%s' failed: %w", command, err)
	}

	after, _ := goose.GetDBVersionContext(ctx, db)
	logger.Info("migration command executed successfully",
		slog.Int64("previous_version", before),
		slog.Int64("version", after),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Version returns the current schema version of db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	dialect, _, err := dialectFor(driver)
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(TableName)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
