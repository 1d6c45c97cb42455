package http

import (
	"net/http"

	"github.com/taskway/taskman/internal/taskman/service"
	"github.com/taskway/taskman/pkg/httpx"
)

type MeHandler struct {
	UserService *service.UserService
}

type meResponse struct {
	UserResponse

	TasksCount int64 `json:"tasks_count"`
}

// ServeHTTP returns the authenticated user's profile.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	u, count, err := h.UserService.GetProfile(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		UserResponse: newUserResponse(u),
		TasksCount:   count,
	})
}
