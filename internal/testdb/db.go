// Package testdb provides database fixtures for tests: migrated in-memory
// SQLite databases for unit tests and PostgreSQL connections for integration
// tests run with DATABASE_URL set.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

var sqliteSeq atomic.Int64

// IsIntegrationTestEnvironment returns true if the DATABASE_URL environment
// variable is set, indicating that integration tests can be run.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDatabaseURL returns DATABASE_URL, falling back to TASKTRACK_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL
	}
	return os.Getenv("TASKTRACK_TEST_DB_URL")
}

// SQLiteDSN returns a DSN for a private shared-cache in-memory database.
func SQLiteDSN(name string) string {
	clean := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_loc=UTC", clean, sqliteSeq.Add(1))
}

// OpenSQLite opens a fresh in-memory SQLite database with the schema applied.
// The database is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", SQLiteDSN(t.Name()))
	require.NoError(t, err, "Failed to open sqlite database")
	// One connection keeps the in-memory database alive and serializes transactions.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	migrate(t, db, "sqlite3")
	return db
}

// OpenPostgres connects to the integration database and applies migrations.
// The test is skipped when no database URL is configured.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if !IsIntegrationTestEnvironment() {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", GetTestDatabaseURL())
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Failed to ping database")

	migrate(t, db, "pgx")
	return db
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("Failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

func migrate(t *testing.T, db *sql.DB, driver string) {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	m, err := postgres.NewMigrator(db, driver, log)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, m.Up(ctx), "Failed to run migrations")
}
