package taskman_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	srv := setupServer(t)
	token := registerUser(t, srv, "alice")

	// Create with every field set
	due := time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339)
	var created map[string]any
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":       "  plan the trip  ",
		"description": "book flights and hotel",
		"due_date":    due,
		"priority":    1,
		"completed":   true,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "plan the trip", created["title"], "title is trimmed")
	require.Equal(t, "book flights and hotel", created["description"])
	require.Equal(t, false, created["completed"], "completed in the create body is ignored")
	require.EqualValues(t, 1, created["priority"])
	require.NotNil(t, created["due_date"])
	require.NotEmpty(t, created["user_id"])

	// Timestamps round-trip as RFC3339
	_, err := time.Parse(time.RFC3339, created["created_at"].(string))
	require.NoError(t, err)
	parsedDue, err := time.Parse(time.RFC3339, created["due_date"].(string))
	require.NoError(t, err)
	require.Equal(t, due, parsedDue.UTC().Format(time.RFC3339))

	id := created["id"].(string)

	// Get
	var fetched map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+id, token, nil, &fetched)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created["title"], fetched["title"])

	// Merge-patch update: only the description changes
	var updated map[string]any
	resp = doJSON(t, srv, http.MethodPut, "/api/v1/tasks/"+id, token, map[string]any{
		"description": "just book flights",
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "plan the trip", updated["title"])
	require.Equal(t, "just book flights", updated["description"])
	require.EqualValues(t, 1, updated["priority"])
	require.NotNil(t, updated["due_date"])

	// Toggle twice is idempotent
	var toggled map[string]any
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/toggle", token, nil, &toggled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, toggled["completed"])

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/toggle", token, nil, &toggled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, toggled["completed"])

	// Delete
	resp = doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/"+id, token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+id, token, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTaskValidationErrors(t *testing.T) {
	srv := setupServer(t)
	token := registerUser(t, srv, "alice")

	var result struct {
		Errors map[string]string `json:"errors"`
	}
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":    "ab",
		"priority": 9,
		"due_date": "yesterday",
	}, &result)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, result.Errors, "title")
	require.Contains(t, result.Errors, "priority")
	require.Contains(t, result.Errors, "due_date")

	// Past due dates are refused
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":    "valid title",
		"due_date": "2001-01-01T00:00:00Z",
	}, &result)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, result.Errors, "due_date")
}

func TestTaskOwnershipIsolationOverHTTP(t *testing.T) {
	srv := setupServer(t)
	aliceToken := registerUser(t, srv, "alice")
	bobToken := registerUser(t, srv, "bob")

	id := createTask(t, srv, aliceToken, "alice's task")

	// Bob gets a plain 404 for alice's task on every operation
	resp := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+id, bobToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPut, "/api/v1/tasks/"+id, bobToken, map[string]any{
		"title": "hijacked title",
	}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/"+id, bobToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/toggle", bobToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Bob's listing stays empty, alice's task is intact
	var bobTasks []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks", bobToken, nil, &bobTasks)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, bobTasks)

	var task map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+id, aliceToken, nil, &task)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice's task", task["title"])
}

func TestTaskListFiltersAndSort(t *testing.T) {
	srv := setupServer(t)
	token := registerUser(t, srv, "alice")

	var low map[string]any
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":    "low priority",
		"priority": 3,
	}, &low)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var high map[string]any
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":    "high priority",
		"priority": 1,
	}, &high)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Complete the low-priority task
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/tasks/"+low["id"].(string)+"/toggle", token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Filter by completion
	var done []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?completed=true", token, nil, &done)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, done, 1)
	require.Equal(t, "low priority", done[0]["title"])

	// Filter by priority
	var highs []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?priority=1", token, nil, &highs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, highs, 1)
	require.Equal(t, "high priority", highs[0]["title"])

	// An out-of-range priority filter is ignored, not matched against
	var all []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?priority=7", token, nil, &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, all, 2)

	// Sort by priority ascending
	var sorted []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?sort=priority&order=asc", token, nil, &sorted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sorted, 2)
	require.Equal(t, "high priority", sorted[0]["title"])

	// Order is matched case-insensitively
	var upper []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?sort=priority&order=ASC", token, nil, &upper)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, sorted, upper)

	// Junk sort params are tolerated
	var lenient []map[string]any
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/tasks?sort=bogus&order=sideways", token, nil, &lenient)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, lenient, 2)
}

func TestTasksCountOnProfile(t *testing.T) {
	srv := setupServer(t)
	token := registerUser(t, srv, "alice")

	createTask(t, srv, token, "first")
	createTask(t, srv, token, "second")

	var me struct {
		TasksCount int64 `json:"tasks_count"`
	}
	resp := doJSON(t, srv, http.MethodGet, "/auth/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, me.TasksCount)
}

func TestMalformedJSONRejected(t *testing.T) {
	srv := setupServer(t)
	token := registerUser(t, srv, "alice")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
