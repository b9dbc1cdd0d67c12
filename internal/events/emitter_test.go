package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler is an EventHandler that records what it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []*TaskEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestNewTaskEvent(t *testing.T) {
	t.Parallel()

	event, err := NewTaskEvent(TaskCompleted, 12, map[string]string{"status": "completed"})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID.String())
	assert.Equal(t, TaskCompleted, event.Type)
	assert.Equal(t, int64(12), event.TaskID)
	assert.False(t, event.OccurredAt.IsZero())

	var payload map[string]string
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "completed", payload["status"])

	deleted, err := NewTaskEvent(TaskDeleted, 12, nil)
	require.NoError(t, err)
	assert.Empty(t, deleted.Payload)

	_, err = NewTaskEvent(TaskUpdated, 1, make(chan int))
	assert.Error(t, err)
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewTaskEvent(TaskCreated, 1, nil)
		require.NoError(t, err)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewTaskEvent(TaskCreated, 1, nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, []*TaskEvent{event}, h1.events)
		assert.Equal(t, []*TaskEvent{event}, h2.events)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		first := errors.New("first failure")
		second := errors.New("second failure")
		failing := &recordingHandler{err: first}
		alsoFailing := &recordingHandler{err: second}
		ok := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(alsoFailing)
		emitter.RegisterHandler(ok)

		event, err := NewTaskEvent(TaskCancelled, 3, nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
		assert.Len(t, ok.events, 1)
	})

	t.Run("log handler", func(t *testing.T) {
		h := NewLogHandler(logger)
		event, err := NewTaskEvent(TaskDeleted, 9, nil)
		require.NoError(t, err)
		assert.NoError(t, h.HandleEvent(context.Background(), event))
	})
}
