package api

import (
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
	"github.com/phrazzld/tasktrack/internal/service"
)

// TaskRequest is the body of POST /api/tasks. Name rules and status spellings
// are checked by the domain.
type TaskRequest struct {
	Name    string `json:"name"`
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Status  string `json:"status"`
	OwnerID int64  `json:"owner_id" validate:"gte=0"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. A positive Version
// must equal the stored version.
type UpdateTaskRequest struct {
	TaskRequest
	Version int `json:"version" validate:"gte=0"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	OwnerID     int64     `json:"owner_id"`
	Version     int       `json:"version"`
	Overdue     bool      `json:"overdue"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginationResponse describes the page a list response holds. Window uses
// -1 to mark skipped page ranges.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int   `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	Window     []int `json:"window"`
	PageSizes  []int `json:"page_sizes"`
}

// SummaryResponse holds store-wide counters.
type SummaryResponse struct {
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// TaskListResponse is the body of the list endpoints.
type TaskListResponse struct {
	Tasks      []TaskResponse     `json:"tasks"`
	Pagination PaginationResponse `json:"pagination"`
	Summary    SummaryResponse    `json:"summary"`
}

// toInput converts the request into domain input. The due date has already
// passed format validation.
func (r TaskRequest) toInput() (domain.TaskInput, error) {
	in := domain.TaskInput{
		Name:    r.Name,
		Status:  r.Status,
		OwnerID: r.OwnerID,
	}
	if r.DueDate != "" {
		due, err := domain.ParseDate(r.DueDate)
		if err != nil {
			return domain.TaskInput{}, domain.NewValidationError("due_date", "must be a YYYY-MM-DD date", domain.ErrValidation)
		}
		in.DueDate = due
	}
	return in, nil
}

func taskToResponse(task *domain.Task, today time.Time) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		DueDate:     task.DueDate.Format(domain.DateLayout),
		Status:      string(task.Status),
		StatusLabel: task.Status.Label(),
		OwnerID:     task.OwnerID,
		Version:     task.Version,
		Overdue:     task.IsOverdue(today),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func listToResponse(list *service.TaskList, today time.Time) TaskListResponse {
	tasks := make([]TaskResponse, 0, len(list.Tasks))
	for _, task := range list.Tasks {
		tasks = append(tasks, taskToResponse(task, today))
	}
	window := list.Window
	if window == nil {
		window = []int{}
	}
	return TaskListResponse{
		Tasks: tasks,
		Pagination: PaginationResponse{
			Page:       list.Page.Page,
			PageSize:   list.PageSize,
			TotalCount: list.TotalCount,
			TotalPages: list.TotalPages,
			Window:     window,
			PageSizes:  listing.PageSizes,
		},
		Summary: SummaryResponse{
			Completed: list.CompletedCount,
			Cancelled: list.CancelledCount,
		},
	}
}
