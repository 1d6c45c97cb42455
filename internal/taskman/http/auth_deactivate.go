package http

import (
	"net/http"

	"github.com/taskway/taskman/internal/taskman/service"
	"github.com/taskway/taskman/pkg/httpx"
)

type DeactivateHandler struct {
	UserService *service.UserService
}

// ServeHTTP disables the authenticated account. Outstanding access tokens
// remain valid until expiry; login and refresh stop working immediately.
func (h *DeactivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	if err := h.UserService.Deactivate(ctx, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
