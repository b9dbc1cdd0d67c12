package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
	"github.com/phrazzld/tasktrack/internal/service"
)

// MockTaskService implements service.TaskService for testing. Each method
// calls its Fn field when set and otherwise returns the default values.
type MockTaskService struct {
	ListTasksFn     func(ctx context.Context, params listing.Params) (*service.TaskList, error)
	ListCompletedFn func(ctx context.Context, search string, page, pageSize int) (*service.TaskList, error)
	ExportTasksFn   func(ctx context.Context, params listing.Params) ([]*domain.Task, error)
	GetTaskFn       func(ctx context.Context, id int64) (*domain.Task, error)
	CreateTaskFn    func(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	UpdateTaskFn    func(ctx context.Context, id int64, version int, in domain.TaskInput) (*domain.Task, error)
	DeleteTaskFn    func(ctx context.Context, id int64) error
	CompleteTaskFn  func(ctx context.Context, id int64) (*domain.Task, error)
	CancelTaskFn    func(ctx context.Context, id int64) (*domain.Task, error)

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	List         *service.TaskList
	Now          time.Time
	DefaultError error
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context, params listing.Params) (*service.TaskList, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, params)
	}
	return m.List, m.DefaultError
}

// ListCompleted implements service.TaskService
func (m *MockTaskService) ListCompleted(
	ctx context.Context,
	search string,
	page, pageSize int,
) (*service.TaskList, error) {
	if m.ListCompletedFn != nil {
		return m.ListCompletedFn(ctx, search, page, pageSize)
	}
	return m.List, m.DefaultError
}

// ExportTasks implements service.TaskService
func (m *MockTaskService) ExportTasks(ctx context.Context, params listing.Params) ([]*domain.Task, error) {
	if m.ExportTasksFn != nil {
		return m.ExportTasksFn(ctx, params)
	}
	return m.Tasks, m.DefaultError
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, in)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id int64,
	version int,
	in domain.TaskInput,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, version, in)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.DefaultError
}

// CompleteTask implements service.TaskService
func (m *MockTaskService) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// CancelTask implements service.TaskService
func (m *MockTaskService) CancelTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.CancelTaskFn != nil {
		return m.CancelTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// Today implements service.TaskService. A zero Now yields the real date.
func (m *MockTaskService) Today() time.Time {
	if m.Now.IsZero() {
		return domain.DateOf(time.Now())
	}
	return domain.DateOf(m.Now)
}

var _ service.TaskService = (*MockTaskService)(nil)
