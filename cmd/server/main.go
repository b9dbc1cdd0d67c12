// Package main implements the tasktrack command: an HTTP task-tracking
// server plus maintenance subcommands for migrations, exports and tokens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root with no subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Task tracking service",
		Long:          `tasktrack stores tasks with due dates and a lifecycle status, and serves a filtered, paginated JSON API over them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
		RunE: runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newExportCmd(),
		newTokenCmd(),
	)
	return root
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	if err := app.migrate(ctx); err != nil {
		app.cleanup()
		return err
	}
	return app.Run(ctx)
}
