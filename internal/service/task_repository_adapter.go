package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/store"
)

// TaskRepository defines the persistence operations the task service needs,
// plus access to the database for running transactions.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]*domain.Task, error)
	ListByStatuses(ctx context.Context, statuses []domain.TaskStatus) ([]*domain.Task, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// TaskRepositoryAdapter adapts a store.TaskStore and its database handle to
// TaskRepository.
type TaskRepositoryAdapter struct {
	store.TaskStore
	db *sql.DB
}

// NewTaskRepositoryAdapter creates a new adapter that implements TaskRepository
// by delegating to a store.TaskStore implementation.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) *TaskRepositoryAdapter {
	return &TaskRepositoryAdapter{TaskStore: taskStore, db: db}
}

// WithTx returns an adapter whose store runs inside tx.
func (a *TaskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &TaskRepositoryAdapter{TaskStore: a.TaskStore.WithTx(tx), db: a.db}
}

// DB returns the underlying database connection.
func (a *TaskRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// Verify that TaskRepositoryAdapter implements TaskRepository
var _ TaskRepository = (*TaskRepositoryAdapter)(nil)
