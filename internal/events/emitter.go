package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter delivers events synchronously, in registration order,
// to handlers living in the same process. It is safe for concurrent use.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewInMemoryEventEmitter returns an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{logger: logger.With("component", "task_events")}
}

// RegisterHandler subscribes handler to every task event.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("event handler registered", "handler_count", n)
}

// EmitEvent hands event to each handler. A failing handler does not stop
// delivery to the rest; all handler errors are joined into the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "event handler failed",
				"error", err,
				"handler_index", i,
				"event_type", event.Type,
				"task_id", event.TaskID)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewLogHandler returns a handler that writes an audit line per task change.
func NewLogHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_audit")
	return EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		logger.InfoContext(ctx, "task changed",
			"event_id", event.ID,
			"event_type", event.Type,
			"task_id", event.TaskID)
		return nil
	})
}
