package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
	"github.com/phrazzld/tasktrack/internal/events"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/store"
)

// TaskList is one page of tasks together with the summary counters shown
// alongside every list.
type TaskList struct {
	listing.Page

	// CompletedCount and CancelledCount are store-wide, independent of filters.
	CompletedCount int
	CancelledCount int
}

// TaskService defines the interface for task operations.
type TaskService interface {
	// ListTasks returns one page of tasks matching params. Out-of-range page
	// and page-size values are coerced; an unknown status is a validation error.
	ListTasks(ctx context.Context, params listing.Params) (*TaskList, error)

	// ListCompleted returns one page of completed tasks matching search.
	ListCompleted(ctx context.Context, search string, page, pageSize int) (*TaskList, error)

	// ExportTasks returns every task matching params, ordered but not paginated.
	ExportTasks(ctx context.Context, params listing.Params) ([]*domain.Task, error)

	// GetTask retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// CreateTask creates a task, defaulting the status to pending and the
	// owner to the configured default, and moving past due dates to today.
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)

	// UpdateTask overwrites every editable field of a task. A positive
	// version must match the stored version or ErrConflict is returned.
	UpdateTask(ctx context.Context, id int64, version int, in domain.TaskInput) (*domain.Task, error)

	// DeleteTask removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id int64) error

	// CompleteTask marks a task completed.
	CompleteTask(ctx context.Context, id int64) (*domain.Task, error)

	// CancelTask marks a task cancelled.
	CancelTask(ctx context.Context, id int64) (*domain.Task, error)

	// Today returns the current calendar date used for overdue checks.
	Today() time.Time
}

// TaskServiceConfig holds the tunable behavior of the task service.
type TaskServiceConfig struct {
	// DefaultOwnerID is assigned when a request carries no owner.
	DefaultOwnerID int64
	// Policy governs which status transitions are allowed.
	Policy domain.TransitionPolicy
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo    TaskRepository
	emitter events.EventEmitter
	cache   ListCache
	group   singleflight.Group
	cfg     TaskServiceConfig
	logger  *slog.Logger
}

// NewTaskService creates a new TaskService. cache may be nil, in which case
// every list request reads the store.
func NewTaskService(
	repo TaskRepository,
	emitter events.EventEmitter,
	cache ListCache,
	cfg TaskServiceConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if repo == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "repository cannot be nil"}
	}
	if emitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "event emitter cannot be nil"}
	}
	if cfg.DefaultOwnerID <= 0 {
		return nil, &TaskServiceError{Operation: "create_service", Message: "default owner must be positive"}
	}
	if cfg.Policy == "" {
		cfg.Policy = domain.PolicyLastWriteWins
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		repo:    repo,
		emitter: emitter,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.With("component", "task_service"),
	}, nil
}

// log returns the request-scoped logger when one is attached to ctx.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Today implements TaskService.Today
func (s *taskServiceImpl) Today() time.Time {
	return domain.DateOf(s.cfg.Clock())
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, params listing.Params) (*TaskList, error) {
	norm, scope, err := params.Normalize()
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "invalid list parameters", err)
	}

	gen, cached := s.cacheGeneration(ctx)
	key := listCacheKey(gen, norm)
	if cached {
		var hit TaskList
		found, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			s.log(ctx).Warn("list cache read failed", slog.String("error", err.Error()))
		} else if found {
			return &hit, nil
		}
	}

	// Every caller waiting on key shares one load, detached from the
	// cancellation of the caller that started it.
	v, err, _ := s.group.Do(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		list, err := s.loadList(loadCtx, norm, scope)
		if err != nil {
			return nil, err
		}
		if cached {
			s.storeList(loadCtx, key, gen, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to load tasks", err)
	}
	return v.(*TaskList), nil
}

// cacheGeneration reports the current cache generation, or false when the
// cache is disabled or unreadable and lists must bypass it.
func (s *taskServiceImpl) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log(ctx).Warn("list cache generation read failed", slog.String("error", err.Error()))
		return 0, false
	}
	return gen, true
}

// storeList caches list under key unless the cache was invalidated while it
// was loading. A write that still races an invalidation lands under the old
// generation, which no reader asks for again.
func (s *taskServiceImpl) storeList(ctx context.Context, key string, gen int64, list *TaskList) {
	current, err := s.cache.Generation(ctx)
	if err != nil {
		s.log(ctx).Warn("list cache generation read failed", slog.String("error", err.Error()))
		return
	}
	if current != gen {
		s.log(ctx).Debug("list cache invalidated during load, not caching",
			slog.Int64("generation", gen),
			slog.Int64("current_generation", current))
		return
	}
	if err := s.cache.Set(ctx, key, list); err != nil {
		s.log(ctx).Warn("list cache write failed", slog.String("error", err.Error()))
	}
}

func (s *taskServiceImpl) loadList(ctx context.Context, params listing.Params, scope listing.Scope) (*TaskList, error) {
	tasks, err := s.loadScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	page, err := listing.Apply(tasks, params)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CountByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.repo.CountByStatus(ctx, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	s.log(ctx).Debug("loaded task list",
		slog.Int("total_count", page.TotalCount),
		slog.Int("page", page.Page),
		slog.Int("page_size", page.PageSize))

	return &TaskList{Page: page, CompletedCount: completed, CancelledCount: cancelled}, nil
}

func (s *taskServiceImpl) loadScope(ctx context.Context, scope listing.Scope) ([]*domain.Task, error) {
	if scope.All {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByStatuses(ctx, scope.Statuses)
}

// ListCompleted implements TaskService.ListCompleted
func (s *taskServiceImpl) ListCompleted(ctx context.Context, search string, page, pageSize int) (*TaskList, error) {
	return s.ListTasks(ctx, listing.Params{
		Search:   search,
		Status:   string(domain.StatusCompleted),
		Page:     page,
		PageSize: pageSize,
	})
}

// ExportTasks implements TaskService.ExportTasks
func (s *taskServiceImpl) ExportTasks(ctx context.Context, params listing.Params) ([]*domain.Task, error) {
	norm, scope, err := params.Normalize()
	if err != nil {
		return nil, NewTaskServiceError("export_tasks", "invalid export parameters", err)
	}

	tasks, err := s.loadScope(ctx, scope)
	if err != nil {
		return nil, NewTaskServiceError("export_tasks", "failed to load tasks", err)
	}

	matched := listing.Filter(tasks, norm, scope)
	listing.Sort(matched)
	return matched, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(in, s.cfg.Clock(), s.cfg.DefaultOwnerID)
	if err != nil {
		s.log(ctx).Warn("rejected task creation",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.log(ctx).Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	s.emit(ctx, events.TaskCreated, task.ID, task)
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	version int,
	in domain.TaskInput,
) (*domain.Task, error) {
	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		task, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if version > 0 && task.Version != version {
			return ErrConflict
		}

		if err := task.Apply(in, s.cfg.Policy, s.cfg.Clock(), s.cfg.DefaultOwnerID); err != nil {
			return err
		}
		if err := txRepo.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		s.logMutationFailure(ctx, "update_task", id, err)
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.log(ctx).Info("task updated",
		slog.Int64("task_id", id),
		slog.Int("version", updated.Version))
	s.emit(ctx, events.TaskUpdated, id, updated)
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logMutationFailure(ctx, "delete_task", id, err)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.log(ctx).Info("task deleted", slog.Int64("task_id", id))
	s.emit(ctx, events.TaskDeleted, id, nil)
	return nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.transition(ctx, "complete_task", events.TaskCompleted, id, domain.StatusCompleted)
}

// CancelTask implements TaskService.CancelTask
func (s *taskServiceImpl) CancelTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.transition(ctx, "cancel_task", events.TaskCancelled, id, domain.StatusCancelled)
}

// transition reads, moves and saves a task in one transaction so concurrent
// transitions serialize on the version check.
func (s *taskServiceImpl) transition(
	ctx context.Context,
	operation, eventType string,
	id int64,
	status domain.TaskStatus,
) (*domain.Task, error) {
	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		task, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := task.TransitionTo(status, s.cfg.Policy, s.cfg.Clock()); err != nil {
			return err
		}
		if err := txRepo.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		s.logMutationFailure(ctx, operation, id, err)
		return nil, NewTaskServiceError(operation, "failed to change task status", err)
	}

	s.log(ctx).Info("task status changed",
		slog.Int64("task_id", id),
		slog.String("status", string(status)))
	s.emit(ctx, eventType, id, updated)
	return updated, nil
}

// emit publishes a task event. The change is already committed, so handler
// failures are logged and not returned.
func (s *taskServiceImpl) emit(ctx context.Context, eventType string, taskID int64, snapshot *domain.Task) {
	var payload any
	if snapshot != nil {
		payload = snapshot
	}

	event, err := events.NewTaskEvent(eventType, taskID, payload)
	if err != nil {
		s.log(ctx).Error("failed to build task event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.log(ctx).Error("failed to emit task event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType),
			slog.Int64("task_id", taskID))
	}
}

func (s *taskServiceImpl) logMutationFailure(ctx context.Context, operation string, id int64, err error) {
	level := slog.LevelError
	if errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrTaskNotFound) ||
		errors.Is(err, store.ErrConcurrencyConflict) ||
		errors.Is(err, ErrConflict) {
		level = slog.LevelWarn
	}
	s.log(ctx).Log(ctx, level, "task mutation failed",
		slog.String("operation", operation),
		slog.Int64("task_id", id),
		slog.String("error", err.Error()))
}

// listCacheKey encodes the cache generation and normalized params
// deterministically.
func listCacheKey(gen int64, p listing.Params) string {
	v := url.Values{}
	v.Set("q", p.Search)
	v.Set("status", p.Status)
	if !p.DueFrom.IsZero() {
		v.Set("from", p.DueFrom.Format(domain.DateLayout))
	}
	if !p.DueTo.IsZero() {
		v.Set("to", p.DueTo.Format(domain.DateLayout))
	}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(p.PageSize))
	return "list:" + strconv.FormatInt(gen, 10) + ":" + v.Encode()
}
