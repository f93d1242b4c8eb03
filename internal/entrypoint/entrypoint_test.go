package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "bookshelf.db")
	cfg.Database.LogLevel = "silent"
	cfg.Tasks.Workers = 1
	return cfg
}

func serve(app *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestNewApp_WiresEverything(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.NotNil(t, app.taskClient)
	require.NotNil(t, app.scheduler)
	assert.True(t, app.scheduler.IsRunning())
	assert.NotNil(t, app.rateLimiter)

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg.Database.Path), "bookshelf-tasks.db"))
	assert.NoError(t, err)

	w := serve(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(app, http.MethodGet, "/api/tasks/types", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_TasksDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks.Enabled = false
	cfg.RateLimit.RPS = 0

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.Nil(t, app.taskClient)
	assert.Nil(t, app.scheduler)
	assert.Nil(t, app.rateLimiter)

	w := serve(app, http.MethodGet, "/api/tasks/types", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApp_InvalidScheduleKeepsServing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.CleanupSchedule = "whenever"

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.Nil(t, app.scheduler)
	assert.NotNil(t, app.taskClient)
}
