package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Listing methods return tasks ordered by due date descending, then id descending.
type TaskStore interface {
	// ListAll retrieves every task.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// ListByStatuses retrieves the tasks whose status is in statuses.
	// Returns an empty slice if statuses is empty or nothing matches.
	ListByStatuses(ctx context.Context, statuses []domain.TaskStatus) ([]*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create inserts a new task. On success the store-assigned ID is written
	// to task.ID and task.Version is set to 1.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// Update saves every editable field of task, provided the stored version
	// still equals task.Version. On success task.Version is incremented.
	// Returns ErrTaskNotFound if the task does not exist, or
	// ErrConcurrencyConflict if it was modified since it was read.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// CountByStatus counts the tasks with the given status.
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
