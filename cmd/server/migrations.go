package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasktrack/internal/platform/postgres"
)

// migrationTimeout bounds a single migrate invocation.
const migrationTimeout = 2 * time.Minute

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Manage the database schema",
		Long:      "Run a schema migration command against the configured database. The default command is up.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			log, err := setupAppLogger(cfg)
			if err != nil {
				return err
			}
			db, err := setupAppDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			m, err := postgres.NewMigrator(db, cfg.Database.Driver, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), migrationTimeout)
			defer cancel()
			if err := m.Run(ctx, command); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", command)
			return nil
		},
	}
}

// migrate brings the schema up to date before the server starts.
func (app *application) migrate(ctx context.Context) error {
	m, err := postgres.NewMigrator(app.db, app.config.Database.Driver, app.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()
	if err := m.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
