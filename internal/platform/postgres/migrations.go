package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// migrationTableName is the goose version table.
const migrationTableName = "schema_migrations"

// Migration commands accepted by Migrator.Run.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateReset   = "reset"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// Migrator applies the embedded schema migrations for one database driver.
type Migrator struct {
	db      *sql.DB
	dialect string
	dir     string
	logger  *slog.Logger
}

// NewMigrator returns a Migrator for db opened with the given database/sql
// driver name ("pgx", "postgres" or "sqlite3").
func NewMigrator(db *sql.DB, driver string, logger *slog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Migrator{db: db, logger: logger.With(slog.String("component", "migrator"))}
	switch driver {
	case "pgx", "postgres":
		m.dialect, m.dir = "postgres", "migrations/postgres"
	case "sqlite3":
		m.dialect, m.dir = "sqlite3", "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return m, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.Run(ctx, MigrateUp)
}

// Run executes a goose command against the embedded migrations.
func (m *Migrator) Run(ctx context.Context, command string) error {
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(&slogGooseLogger{logger: m.logger})
	goose.SetTableName(migrationTableName)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	m.logger.Info("running migrations",
		slog.String("command", command),
		slog.String("dialect", m.dialect))

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, m.db, m.dir)
	case MigrateDown:
		err = goose.DownContext(ctx, m.db, m.dir)
	case MigrateReset:
		err = goose.ResetContext(ctx, m.db, m.dir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, m.db, m.dir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, m.db, m.dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// slogGooseLogger forwards goose output to slog. Fatalf does not exit so
// callers can return the error normally.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
