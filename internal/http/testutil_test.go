package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/database"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	db     *database.Database
	audit  *audit.Service
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath, database.Options{LogLevel: database.ParseLogLevel("silent")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	bookService := services.NewBookService(books.NewRepository(db.DB), auditService)

	router := NewRouter(RouterConfig{
		Books:     bookService,
		Audit:     auditService,
		Database:  db,
		UIEnabled: true,
		Version:   "test",
	})

	return &testApp{router: router, db: db, audit: auditService}
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) createBook(t *testing.T, body string) entities.Book {
	t.Helper()
	w := a.do(http.MethodPost, "/api/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return book
}

func decodeBooks(t *testing.T, w *httptest.ResponseRecorder) []entities.Book {
	t.Helper()
	var list []entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
