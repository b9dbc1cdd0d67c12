package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Task event types.
const (
	TaskCreated   = "task.created"
	TaskUpdated   = "task.updated"
	TaskDeleted   = "task.deleted"
	TaskCompleted = "task.completed"
	TaskCancelled = "task.cancelled"
)

// TaskEvent records a committed change to a task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Task* constants
	Type string `json:"type"`

	// TaskID identifies the changed task
	TaskID int64 `json:"task_id"`

	// Payload holds a JSON snapshot of the task after the change; empty for deletions
	Payload json.RawMessage `json:"payload,omitempty"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskEvent creates a TaskEvent. A nil snapshot leaves the payload empty.
func NewTaskEvent(eventType string, taskID int64, snapshot any) (*TaskEvent, error) {
	var payload json.RawMessage
	if snapshot != nil {
		b, err := json.Marshal(snapshot)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
