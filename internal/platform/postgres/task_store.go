package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/store"
)

const taskColumns = `id, name, due_date, status, owner_id, version, created_at, updated_at`

const taskOrder = `ORDER BY due_date DESC, id DESC`

// PostgresTaskStore implements the store.TaskStore interface
// using a SQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new SQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ` + taskOrder
	return s.queryTasks(ctx, "list_all", query)
}

// ListByStatuses implements store.TaskStore.ListByStatuses
func (s *PostgresTaskStore) ListByStatuses(
	ctx context.Context,
	statuses []domain.TaskStatus,
) ([]*domain.Task, error) {
	if len(statuses) == 0 {
		return []*domain.Task{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(status)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE status IN (` +
		strings.Join(placeholders, ", ") + `) ` + taskOrder
	return s.queryTasks(ctx, "list_by_statuses", query, args...)
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to retrieve task", MapError(err))
	}
	return task, nil
}

// Create implements store.TaskStore.Create
// Returns validation errors from the domain Task if data is invalid.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (name, due_date, status, owner_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		task.Name,
		domain.DateOf(task.DueDate),
		string(task.Status),
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create task",
			slog.String("name", task.Name),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	task.ID = id
	task.Version = 1
	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// Update implements store.TaskStore.Update
// The write only succeeds while the stored version still equals task.Version.
// Returns store.ErrTaskNotFound if the task is gone and
// store.ErrConcurrencyConflict if its version moved on.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE tasks
		SET name = $1, due_date = $2, status = $3, owner_id = $4,
			version = version + 1, updated_at = $5
		WHERE id = $6 AND version = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Name,
		domain.DateOf(task.DueDate),
		string(task.Status),
		task.OwnerID,
		task.UpdatedAt,
		task.ID,
		task.Version,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return store.NewStoreError("task", "update", "failed to update task", err)
		}
		exists, existsErr := s.exists(ctx, task.ID)
		if existsErr != nil {
			return store.NewStoreError("task", "update", "failed to check task", existsErr)
		}
		if !exists {
			log.Debug("task not found for update", slog.Int64("task_id", task.ID))
			return store.ErrTaskNotFound
		}
		log.Warn("concurrent modification detected",
			slog.Int64("task_id", task.ID),
			slog.Int("version", task.Version))
		return fmt.Errorf("%w: task %d", store.ErrConcurrencyConflict, task.ID)
	}

	task.Version++
	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.Int("version", task.Version))
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTaskNotFound
		}
		return store.NewStoreError("task", "delete", "failed to delete task", err)
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, status domain.TaskStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "failed to count tasks", MapError(err))
	}
	return count, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresTaskStore) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, MapError(err)
	}
	return true, nil
}

func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	operation string,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", operation, "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", operation, "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", operation, "failed to iterate tasks", MapError(err))
	}

	log.Debug("tasks loaded",
		slog.String("operation", operation),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	if err := row.Scan(
		&task.ID,
		&task.Name,
		&task.DueDate,
		&status,
		&task.OwnerID,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	task.DueDate = domain.DateOf(task.DueDate)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
