package testdb

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/platform/migrations"
	"github.com/phrazzld/flashcards/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds fixture setup.
const TestTimeout = 5 * time.Second

// databaseURLEnvVars are checked in order for a Postgres test database.
var databaseURLEnvVars = []string{"FLASHCARDS_TEST_DATABASE_URL", "DATABASE_URL"}

// GetTestDatabaseURL returns the Postgres URL for integration tests, or ""
// when none is configured.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether Postgres tests have no database.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// MaskDatabaseURL hides the password of a database URL for test output.
func MaskDatabaseURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "****")
		return parsed.String()
	}
	return dbURL
}

// OpenSQLite returns a private in-memory SQLite database with migrations
// applied. It is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlite.Open(ctx, "file::memory:")
	require.NoError(t, err, "failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger()
	require.NoError(t, migrations.Up(ctx, db, migrations.DriverSQLite, log), "failed to run migrations")
	return db
}

// OpenPostgres connects to the configured Postgres test database and applies
// migrations, skipping the test when no database is configured.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("FLASHCARDS_TEST_DATABASE_URL not set; skipping Postgres test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open %s", MaskDatabaseURL(dbURL))
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx), "failed to ping %s", MaskDatabaseURL(dbURL))

	log, _ := logger.NewTestLogger()
	require.NoError(t, migrations.Up(ctx, db, migrations.DriverPostgres, log), "failed to run migrations")
	return db
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
