package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/decompose"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := engine.NewService(db, nil)
	dec := decompose.NewDecomposer(svc, nil, nil)
	return NewServer(svc, dec, []string{"http://localhost:3000"}, nil).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	w := doJSON(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestTaskLifecycle(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{
		"title":             "Write docs",
		"estimated_minutes": 90,
		"difficulty":        2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	task := body["task"].(map[string]any)
	assert.Equal(t, "Write docs", task["title"])
	assert.Equal(t, "pending", task["status"])
	taskID := int64(task["id"].(float64))

	w = doJSON(t, h, http.MethodGet, "/tasks/list?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doJSON(t, h, http.MethodPost, "/tasks/complete?external_id=max_1", gin.H{"task_id": taskID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/tasks/list?external_id=max_1", nil)
	body = decodeBody(t, w)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].(map[string]any)["status"])
}

func TestQuickTaskStatus(t *testing.T) {
	h := newTestServer(t)

	// A short estimate marks the task quick on creation.
	w := doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{
		"title":             "Tiny chore",
		"estimated_minutes": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	task := decodeBody(t, w)["task"].(map[string]any)
	assert.Equal(t, "quick", task["status"])
}

func TestCreateTaskValidation(t *testing.T) {
	h := newTestServer(t)

	// Missing title fails binding.
	w := doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A past date is a validation error.
	w = doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{
		"title":     "Old",
		"task_date": "01.01.2020",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "detail")
}

func TestCompleteUnknownTask(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/tasks/complete?external_id=max_1", gin.H{"task_id": 999})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decodeBody(t, w)["detail"])
}

func TestSubtaskFlow(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{"title": "Parent"})
	require.Equal(t, http.StatusOK, w.Code)
	parentID := int64(decodeBody(t, w)["task"].(map[string]any)["id"].(float64))

	w = doJSON(t, h, http.MethodPost, "/tasks/"+itoa(parentID)+"/subtasks?external_id=max_1", gin.H{"title": "Step one"})
	require.Equal(t, http.StatusOK, w.Code)
	sub := decodeBody(t, w)["subtask"].(map[string]any)
	subID := int64(sub["id"].(float64))

	w = doJSON(t, h, http.MethodGet, "/tasks/"+itoa(parentID)+"/subtasks?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = doJSON(t, h, http.MethodPost, "/tasks/"+itoa(parentID)+"/subtasks/"+itoa(subID)+"/complete?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDecomposeEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/tasks/decompose?external_id=max_1", gin.H{"title": "buy milk"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	steps := body["steps"].([]any)
	// The local heuristic yields the fixed three steps for a short title.
	assert.Len(t, steps, 3)

	// The parent plus subtasks are persisted.
	w = doJSON(t, h, http.MethodGet, "/tasks/list?external_id=max_1", nil)
	assert.EqualValues(t, 4, decodeBody(t, w)["count"])
}

func TestUserProfileAndStats(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{"title": "a"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/user/profile?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeBody(t, w)
	assert.EqualValues(t, 1, profile["total_tasks"])

	w = doJSON(t, h, http.MethodGet, "/user/stats?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown users get a 404 from the stats endpoints.
	w = doJSON(t, h, http.MethodGet, "/user/stats?external_id=ghost_user", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncUsersEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/sync/users?source_external_id=max_1&target_external_id=user_bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	doJSON(t, h, http.MethodPost, "/tasks/create?external_id=max_1", gin.H{"title": "shared"})
	doJSON(t, h, http.MethodPost, "/user/create?external_id=user_bob", nil)

	w = doJSON(t, h, http.MethodPost, "/sync/users?source_external_id=max_1&target_external_id=user_bob", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/tasks/list?external_id=user_bob", nil)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])
}

func TestKanbanProjectFlow(t *testing.T) {
	h := newTestServer(t)

	// The user must exist first.
	doJSON(t, h, http.MethodPost, "/user/create?external_id=max_1", nil)

	w := doJSON(t, h, http.MethodPost, "/kanban/projects?external_id=max_1", gin.H{"title": "Launch"})
	require.Equal(t, http.StatusOK, w.Code)
	project := decodeBody(t, w)["project"].(map[string]any)
	columns := project["columns"].([]any)
	require.Len(t, columns, 3)
	assert.Equal(t, "Backlog", columns[0].(map[string]any)["title"])
	projectID := int64(project["id"].(float64))
	firstCol := int64(columns[0].(map[string]any)["id"].(float64))

	w = doJSON(t, h, http.MethodPost, "/kanban/columns/"+itoa(firstCol)+"/cards?external_id=max_1", gin.H{
		"title": "First card",
		"tags":  []string{"infra", "urgent"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	card := decodeBody(t, w)["card"].(map[string]any)
	assert.Equal(t, []any{"infra", "urgent"}, card["tags"])

	w = doJSON(t, h, http.MethodGet, "/kanban/projects?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/kanban/projects/"+itoa(projectID)+"/stats?external_id=max_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)
	assert.EqualValues(t, 1, stats["total_cards"])

	w = doJSON(t, h, http.MethodDelete, "/kanban/projects/"+itoa(projectID)+"?external_id=max_1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRootAndInvalidID(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", decodeBody(t, w)["status"])

	w = doJSON(t, h, http.MethodDelete, "/tasks/abc?external_id=max_1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks/list", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
