package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/tasktrack/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrack/internal/api/middleware"
	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/platform/cache"
)

// healthCheckTimeout bounds the dependency pings made by /health.
const healthCheckTimeout = 2 * time.Second

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Cache    string       `json:"cache"`
	Stats    *cache.Stats `json:"cache_stats,omitempty"`
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Route("/api/tasks", func(r chi.Router) {
		if app.jwtService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
		}
		taskHandler.RegisterRoutes(r)
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports database and cache connectivity. Any failing
// dependency turns the response into a 503.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	status := http.StatusOK

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("Health check database ping failed", "error", err)
		resp.Status, resp.Database = "degraded", "unavailable"
		status = http.StatusServiceUnavailable
	}

	if app.cache != nil {
		resp.Cache = "ok"
		if err := app.cache.Ping(ctx); err != nil {
			app.logger.Error("Health check redis ping failed", "error", err)
			resp.Status, resp.Cache = "degraded", "unavailable"
			status = http.StatusServiceUnavailable
		}
		stats := app.cache.Stats()
		resp.Stats = &stats
	}

	shared.RespondWithJSON(w, r, status, resp)
}
