package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasktrack/internal/events"
)

// ListCache stores rendered list pages. Implementations must be safe for
// concurrent use.
//
// Generation returns a counter that InvalidateAll advances before it drops
// entries. Callers put the generation into their keys, so a page loaded
// before an invalidation can never be read after it.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Generation(ctx context.Context) (int64, error)
	InvalidateAll(ctx context.Context) error
}

// CacheInvalidator drops every cached list page whenever a task changes.
type CacheInvalidator struct {
	cache  ListCache
	logger *slog.Logger
}

// NewCacheInvalidator returns an events.EventHandler that invalidates cache.
func NewCacheInvalidator(cache ListCache, logger *slog.Logger) *CacheInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{cache: cache, logger: logger.With("component", "cache_invalidator")}
}

// HandleEvent implements events.EventHandler.
func (c *CacheInvalidator) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	if err := c.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	c.logger.Debug("list cache invalidated",
		"event_type", event.Type,
		"task_id", event.TaskID)
	return nil
}

var _ events.EventHandler = (*CacheInvalidator)(nil)
