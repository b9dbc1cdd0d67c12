package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/export"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/redact"
	"github.com/phrazzld/tasktrack/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("task service cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// RegisterRoutes mounts the task endpoints on r, which is expected to be
// the /api/tasks subrouter. Fixed paths precede {id} so they are not
// captured as identifiers.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/completed", h.ListCompleted)
	r.Get("/export", h.ExportTasks)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
	r.Post("/{id}/complete", h.CompleteTask)
	r.Post("/{id}/cancel", h.CancelTask)
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	list, err := h.tasks.ListTasks(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(list, h.tasks.Today()))
}

// ListCompleted handles GET /api/tasks/completed
func (h *TaskHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.tasks.ListCompleted(r.Context(), q.Get("search"), queryInt(q, "page"), queryInt(q, "page_size"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list completed tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listToResponse(list, h.tasks.Today()))
}

// ExportTasks handles GET /api/tasks/export
func (h *TaskHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	params, err := parseListParams(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.ExportTasks(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export tasks")
		return
	}

	today := h.tasks.Today()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(today)))
	w.WriteHeader(http.StatusOK)

	// Headers are sent; a failure here can only be logged.
	if err := export.Write(w, format, tasks, today); err != nil {
		log.Error("failed to write export",
			slog.String("format", string(format)),
			slog.String("error", redact.Error(err)))
		return
	}
	log.Debug("tasks exported",
		slog.String("format", string(format)),
		slog.Int("count", len(tasks)))
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.tasks.Today()))
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	in.OwnerID = h.ownerOrToken(r, in.OwnerID)

	task, err := h.tasks.CreateTask(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, h.tasks.Today()))
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	in.OwnerID = h.ownerOrToken(r, in.OwnerID)

	task, err := h.tasks.UpdateTask(r.Context(), id, req.Version, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.tasks.Today()))
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/tasks/{id}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.CompleteTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.tasks.Today()))
}

// CancelTask handles POST /api/tasks/{id}/cancel
func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.CancelTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to cancel task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, h.tasks.Today()))
}

// pathID reads the {id} parameter, writing a 400 when it is malformed.
func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return 0, false
	}
	return id, true
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *TaskHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, decodeErrorMessage(err), err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// ownerOrToken keeps an explicit owner and otherwise falls back to the
// authenticated owner, if any.
func (h *TaskHandler) ownerOrToken(r *http.Request, ownerID int64) int64 {
	if ownerID > 0 {
		return ownerID
	}
	if tokenOwner, ok := shared.GetOwnerID(r.Context()); ok {
		return tokenOwner
	}
	return ownerID
}
