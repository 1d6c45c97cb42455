package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/taskway/taskman/internal/taskman/domain"
	"github.com/taskway/taskman/internal/taskman/service"
	"github.com/taskway/taskman/pkg/httpx"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// taskRequest is the JSON body for create and update. Pointer fields record
// whether the client sent the field at all, which drives merge-patch updates.
type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
}

func (req taskRequest) payload() service.TaskPayload {
	return service.TaskPayload{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	}
}

// HandleList returns the caller's tasks. Filters: ?completed=true|false and
// ?priority=1|2|3. Ordering: ?sort=created_at|due_date|priority and
// ?order=asc|desc (default created_at desc). Unrecognized values are ignored
// rather than rejected.
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	q := r.URL.Query()

	var filter domain.TaskFilter
	if v := q.Get("completed"); v != "" {
		if completed, err := strconv.ParseBool(v); err == nil {
			filter.Completed = &completed
		}
	}
	if v := q.Get("priority"); v != "" {
		if priority, err := strconv.Atoi(v); err == nil && domain.ValidPriority(priority) {
			filter.Priority = &priority
		}
	}

	sort := domain.TaskSort{
		Field:     q.Get("sort"),
		Ascending: strings.EqualFold(q.Get("order"), "asc"),
	}

	tasks, err := h.TaskService.List(ctx, userID, filter, sort)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskListResponse(tasks))
}

// HandleCreate validates the body and creates a task owned by the caller.
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.TaskService.Create(ctx, userID, req.payload())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newTaskResponse(created))
}
