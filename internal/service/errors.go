package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrack/internal/store"
)

// Service sentinel errors. Callers check them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrTaskNotFound indicates that the task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrConflict indicates that the task changed after the caller read it.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("task was modified by another request")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "complete_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping, translating
// store-level sentinels to their service-level equivalents.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, store.ErrConcurrencyConflict):
		return ErrConflict
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
