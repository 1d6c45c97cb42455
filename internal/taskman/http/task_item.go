package http

import (
	"net/http"

	"github.com/taskway/taskman/internal/taskman/service"
	"github.com/taskway/taskman/pkg/httpx"
)

// TaskItemHandler serves the /tasks/{id} operations. Ownership is enforced
// in the service layer; a foreign task id gets the same 404 as a bogus one.
type TaskItemHandler struct {
	TaskService *service.TaskService
}

func (h *TaskItemHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	task, err := h.TaskService.Get(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskResponse(task))
}

// HandleUpdate applies a merge-patch: only fields present in the body change.
func (h *TaskItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.TaskService.Update(ctx, userID, r.PathValue("id"), req.payload())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTaskResponse(updated))
}

func (h *TaskItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	if err := h.TaskService.Delete(ctx, userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
