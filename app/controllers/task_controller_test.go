package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-app/app/controllers"
	"todo-app/app/models"
	"todo-app/app/routes"
	"todo-app/app/services"
	"todo-app/app/store"
)

func newTestServer(t *testing.T, taskStore services.TaskStore) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	router := mux.NewRouter()
	routes.RegisterRoutes(router, controllers.NewTaskController(services.NewTaskService(taskStore, logger), logger))

	srv := httptest.NewServer(routes.Wrap(router, logger, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func newSQLiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return newTestServer(t, s)
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&raw)
	}
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorOf(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[map[string]string](t, raw)["error"]
}

func TestScenario(t *testing.T) {
	srv := newSQLiteServer(t)
	base := srv.URL + "/todos"

	resp, raw := do(t, http.MethodPost, base, `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	created := decode[models.Task](t, raw)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)
	assert.False(t, created.CreatedAt.IsZero())

	resp, raw = do(t, http.MethodPut, base+"/"+created.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Task](t, raw)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Completed)

	resp, raw = do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := decode[[]models.Task](t, raw)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.True(t, tasks[0].Completed)

	resp, raw = do(t, http.MethodDelete, base+"/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Todo deleted", decode[map[string]string](t, raw)["message"])

	resp, raw = do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestWireFormat(t *testing.T) {
	srv := newSQLiteServer(t)

	_, raw := do(t, http.MethodPost, srv.URL+"/todos", `{"text":"buy milk"}`)
	fields := decode[map[string]any](t, raw)
	for _, key := range []string{"id", "text", "completed", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 5)
}

func TestCreateTrimsText(t *testing.T) {
	srv := newSQLiteServer(t)

	resp, raw := do(t, http.MethodPost, srv.URL+"/todos/", `{"text":"   walk the dog \n"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "walk the dog", decode[models.Task](t, raw).Text)

	_, raw = do(t, http.MethodGet, srv.URL+"/todos/", "")
	tasks := decode[[]models.Task](t, raw)
	require.Len(t, tasks, 1)
	assert.Equal(t, "walk the dog", tasks[0].Text)
}

func TestCreateRejectsBlankText(t *testing.T) {
	srv := newSQLiteServer(t)

	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`, `{"other":"field"}`, ""} {
		resp, raw := do(t, http.MethodPost, srv.URL+"/todos", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, "Text is required", errorOf(t, raw), body)
	}

	_, raw := do(t, http.MethodGet, srv.URL+"/todos", "")
	assert.JSONEq(t, `[]`, string(raw))
}

func TestMalformedBody(t *testing.T) {
	srv := newSQLiteServer(t)

	resp, raw := do(t, http.MethodPost, srv.URL+"/todos", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", errorOf(t, raw))

	_, raw = do(t, http.MethodPost, srv.URL+"/todos", `{"text":"buy milk"}`)
	id := decode[models.Task](t, raw).ID

	resp, raw = do(t, http.MethodPut, srv.URL+"/todos/"+id, `{"completed":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", errorOf(t, raw))

	resp, _ = do(t, http.MethodPost, srv.URL+"/todos", `{"text":"`+strings.Repeat("a", 200<<10)+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = do(t, http.MethodPost, srv.URL+"/todos", `{"text":"a"} {"text":"b"} garbage`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", errorOf(t, raw))

	resp, raw = do(t, http.MethodPut, srv.URL+"/todos/"+id, `{"completed":true}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", errorOf(t, raw))

	resp, _ = do(t, http.MethodPost, srv.URL+"/todos", "{\"text\":\"buy bread\"}\n")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	_, raw = do(t, http.MethodGet, srv.URL+"/todos", "")
	tasks := decode[[]models.Task](t, raw)
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy bread", tasks[0].Text)
	assert.False(t, tasks[1].Completed)
}

func TestUpdate(t *testing.T) {
	srv := newSQLiteServer(t)

	_, raw := do(t, http.MethodPost, srv.URL+"/todos", `{"text":"buy milk"}`)
	created := decode[models.Task](t, raw)
	url := srv.URL + "/todos/" + created.ID

	resp, raw := do(t, http.MethodPut, url, `{"text":" buy oat milk ","id":"hijack","createdAt":"2000-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Task](t, raw)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "buy oat milk", updated.Text)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	resp, raw = do(t, http.MethodPut, url, `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Text is required", errorOf(t, raw))

	// An empty body is a valid no-op update.
	resp, raw = do(t, http.MethodPut, url, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "buy oat milk", decode[models.Task](t, raw).Text)
}

func TestDoubleToggle(t *testing.T) {
	srv := newSQLiteServer(t)

	_, raw := do(t, http.MethodPost, srv.URL+"/todos", `{"text":"buy milk"}`)
	task := decode[models.Task](t, raw)
	url := srv.URL + "/todos/" + task.ID

	_, raw = do(t, http.MethodPut, url, `{"completed":true}`)
	assert.True(t, decode[models.Task](t, raw).Completed)
	_, raw = do(t, http.MethodPut, url, `{"completed":false}`)
	assert.False(t, decode[models.Task](t, raw).Completed)
}

func TestNotFound(t *testing.T) {
	srv := newSQLiteServer(t)

	_, raw := do(t, http.MethodPost, srv.URL+"/todos", `{"text":"buy milk"}`)
	created := decode[models.Task](t, raw)

	resp, raw := do(t, http.MethodPut, srv.URL+"/todos/missing", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Todo not found", errorOf(t, raw))

	_, raw = do(t, http.MethodGet, srv.URL+"/todos", "")
	tasks := decode[[]models.Task](t, raw)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/todos/"+created.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw = do(t, http.MethodDelete, srv.URL+"/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Todo not found", errorOf(t, raw))
}

func TestListNewestFirst(t *testing.T) {
	srv := newSQLiteServer(t)

	for _, text := range []string{"t1", "t2", "t3"} {
		resp, _ := do(t, http.MethodPost, srv.URL+"/todos", `{"text":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		// Keep the creation timestamps apart at millisecond precision.
		time.Sleep(5 * time.Millisecond)
	}

	_, raw := do(t, http.MethodGet, srv.URL+"/todos", "")
	tasks := decode[[]models.Task](t, raw)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{tasks[0].Text, tasks[1].Text, tasks[2].Text})
}

// brokenStore fails every operation.
type brokenStore struct{}

var errBroken = errors.New("dial tcp 10.0.0.5:27017: connection refused")

func (brokenStore) List(context.Context) ([]models.Task, error) { return nil, errBroken }
func (brokenStore) Create(context.Context, models.Task) (*models.Task, error) {
	return nil, errBroken
}
func (brokenStore) Update(context.Context, string, models.TaskUpdate, time.Time) (*models.Task, error) {
	return nil, errBroken
}
func (brokenStore) Delete(context.Context, string) error { return errBroken }
func (brokenStore) Close(context.Context) error          { return nil }

func TestStoreFailures(t *testing.T) {
	srv := newTestServer(t, brokenStore{})

	tests := []struct {
		method, path, body, message string
	}{
		{http.MethodGet, "/todos", "", "Failed to fetch todos"},
		{http.MethodPost, "/todos", `{"text":"buy milk"}`, "Failed to create todo"},
		{http.MethodPut, "/todos/abc", `{"completed":true}`, "Failed to update todo"},
		{http.MethodDelete, "/todos/abc", "", "Failed to delete todo"},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			resp, raw := do(t, tc.method, srv.URL+tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, tc.message, errorOf(t, raw))
			assert.NotContains(t, string(raw), "connection refused")
		})
	}

	// Validation is answered without touching the store.
	resp, _ := do(t, http.MethodPost, srv.URL+"/todos", `{"text":" "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// panicStore panics on List.
type panicStore struct {
	brokenStore
}

func (panicStore) List(context.Context) ([]models.Task, error) {
	panic("cursor closed")
}

func TestPanicRecovery(t *testing.T) {
	srv := newTestServer(t, panicStore{})

	for i := 0; i < 2; i++ {
		resp, raw := do(t, http.MethodGet, srv.URL+"/todos", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "Internal server error", errorOf(t, raw))
		assert.NotContains(t, string(raw), "cursor closed")
	}

	resp, raw := do(t, http.MethodDelete, srv.URL+"/todos/abc", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to delete todo", errorOf(t, raw))
}

func TestCORS(t *testing.T) {
	srv := newSQLiteServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodOptions, srv.URL+"/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
