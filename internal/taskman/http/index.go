package http

import (
	"net/http"

	"github.com/taskway/taskman/pkg/httpx"
)

type indexResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// IndexHandler describes the service at the root path so an unauthenticated
// probe gets something friendlier than a 404.
func IndexHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeNotFound(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, indexResponse{
			Service: "taskman",
			Version: version,
			Docs:    "/api/v1/tasks",
		})
	}
}
