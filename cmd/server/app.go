package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack/internal/config"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/events"
	"github.com/phrazzld/tasktrack/internal/platform/cache"
	"github.com/phrazzld/tasktrack/internal/platform/postgres"
	"github.com/phrazzld/tasktrack/internal/service"
	"github.com/phrazzld/tasktrack/internal/service/auth"
	"github.com/phrazzld/tasktrack/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore

	// cache is nil when caching is disabled.
	cache *cache.RedisCache

	// jwtService is nil when no JWT secret is configured.
	jwtService  auth.JWTService
	taskService service.TaskService

	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	if cfg.Auth.JWTSecret != "" {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("JWT authentication enabled",
			"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	} else {
		logger.Warn("JWT secret not configured, task API is unauthenticated")
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger))

	var listCache service.ListCache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		app.cache, err = cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.Prefix, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		listCache = app.cache
		app.eventEmitter.RegisterHandler(service.NewCacheInvalidator(app.cache, logger))
		logger.Info("List cache enabled",
			"redis_addr", cfg.Cache.RedisAddr,
			"ttl_seconds", cfg.Cache.TTLSeconds)
	}

	policy, err := domain.ParseTransitionPolicy(cfg.Tasks.TransitionPolicy)
	if err != nil {
		app.closeCache()
		return nil, fmt.Errorf("invalid transition policy: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		service.NewTaskRepositoryAdapter(app.taskStore, db),
		app.eventEmitter,
		listCache,
		service.TaskServiceConfig{
			DefaultOwnerID: cfg.Tasks.DefaultOwnerID,
			Policy:         policy,
		},
		logger,
	)
	if err != nil {
		app.closeCache()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully",
		"transition_policy", policy)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.closeCache()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

func (app *application) closeCache() {
	if app.cache == nil {
		return
	}
	if err := app.cache.Close(); err != nil {
		app.logger.Error("Error closing redis client", "error", err)
	}
	app.cache = nil
}
