package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack/internal/config"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures and initializes the application logger based on config settings.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"transition_policy", cfg.Tasks.TransitionPolicy)
	if cfg.Auth.JWTSecret != "" {
		l.Debug("Auth configuration", "jwt_secret_present", true)
	}
	return l, nil
}

// bootstrap loads configuration, logging and the database, then wires the
// application.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}
