package http

import (
	"net/http"
	"time"

	"github.com/taskway/taskman/internal/taskman/store"
	"github.com/taskway/taskman/pkg/httpx"
)

// ReadyzHandler is the readiness probe: it checks that the database is
// reachable and reports degraded with a 503 when it isn't.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
