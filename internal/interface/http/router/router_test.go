package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/auth"
	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appborrower "github.com/xiebiao/library/internal/application/borrower"
	"github.com/xiebiao/library/internal/application/port"
	"github.com/xiebiao/library/internal/application/report"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/export"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

type testServer struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
	}
	db, err := rdb.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close(db) })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	tx := rdb.NewTxManager(db)
	userRepo := rdb.NewUserRepository(db)
	librarianRepo := rdb.NewLibrarianRepository(db)
	bookRepo := rdb.NewBookRepository(db)
	borrowerRepo := rdb.NewBorrowerRepository(db)
	borrowRepo := rdb.NewBorrowRepository(db)

	userService := user.NewService(userRepo, librarianRepo)
	bookService := book.NewService(bookRepo)
	cache := redis.NewListCache(client, redis.ListCacheOptions{BreakerFailures: 5, BreakerTimeout: time.Minute}, logger)
	blacklist := redis.NewTokenBlacklist(client)
	limiter := redis.NewRateLimiter(client, 5, time.Minute)
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	_, _, err = auth.NewSeedLibrarianUseCase(userService, tx, logger).Execute(context.Background(), auth.SeedLibrarianRequest{
		Name: "Admin", Email: adminEmail, Password: adminPassword,
	})
	require.NoError(t, err)

	h := Handlers{
		Book: handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService, tx, cache),
			appbook.NewUpdateBookUseCase(bookService, tx, cache),
			appbook.NewDeleteBookUseCase(bookService, borrowRepo, tx, cache),
			appbook.NewListBooksUseCase(bookService, cache, time.Minute),
		),
		Borrower: handler.NewBorrowerHandler(
			appborrower.NewRegisterBorrowerUseCase(userService, userRepo, borrowerRepo, tx, cache),
			appborrower.NewListBorrowersUseCase(borrowerRepo, cache, time.Minute),
			appborrower.NewUpdateBorrowerUseCase(userService, userRepo, borrowerRepo, tx, cache),
			appborrower.NewDeleteBorrowerUseCase(userRepo, librarianRepo, borrowerRepo, borrowRepo, tx, cache),
			appborrower.NewCurrentBorrowsUseCase(borrowRepo),
		),
		Borrow: handler.NewBorrowHandler(
			appborrow.NewCheckOutUseCase(bookRepo, borrowerRepo, borrowRepo, tx, borrow.DefaultPolicy(), port.NopPublisher{}, logger),
			appborrow.NewReturnBookUseCase(bookRepo, borrowRepo, tx, port.NopPublisher{}, logger),
			appborrow.NewListBorrowsUseCase(borrowRepo),
		),
		Report: handler.NewReportHandler(report.NewGenerator(borrowRepo, export.NewCSVWriter(t.TempDir()), logger)),
		Auth: handler.NewAuthHandler(
			auth.NewLoginUseCase(userService, manager, logger),
			auth.NewRefreshUseCase(manager, blacklist),
			auth.NewLogoutUseCase(manager, blacklist),
		),
	}
	authMiddleware := middleware.NewAuthMiddleware(auth.NewAuthenticator(userService, manager, blacklist))

	return &testServer{
		engine: New(cfg, logger, h, authMiddleware, limiter),
		mr:     mr,
	}
}

type reqOption func(*http.Request)

func basic(email, password string) reqOption {
	return func(r *http.Request) { r.SetBasicAuth(email, password) }
}

func asAdmin() reqOption { return basic(adminEmail, adminPassword) }

func bearer(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, opts ...reqOption) (int, map[string]interface{}, http.Header) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out, w.Header()
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "data: %v", body)
	return d
}

func (s *testServer) createBook(t *testing.T, title string, quantity int) int {
	t.Helper()
	code, body, _ := s.do(t, http.MethodPost, "/api/books", map[string]interface{}{
		"title": title, "author": "Author", "isbn": "isbn-" + title, "quantity": quantity, "shelfLocation": "A-1",
	}, asAdmin())
	require.Equal(t, http.StatusCreated, code, body)
	return int(data(t, body)["id"].(float64))
}

func (s *testServer) createBorrower(t *testing.T, name, email string) int {
	t.Helper()
	code, body, _ := s.do(t, http.MethodPost, "/api/borrowers", map[string]interface{}{
		"name": name, "email": email,
	}, asAdmin())
	require.Equal(t, http.StatusCreated, code, body)
	return int(data(t, body)["id"].(float64))
}

func TestIndexAndNoRoute(t *testing.T) {
	s := newTestServer(t)

	code, body, _ := s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Library API is running", body["message"])
	assert.Equal(t, "/api/books", body["endpoints"].(map[string]interface{})["books"])

	code, body, _ = s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route /api/nope not found", body["message"])
	e := body["error"].(map[string]interface{})
	assert.Equal(t, "ROUTE_NOT_FOUND", e["code"])
	assert.Equal(t, "GET", e["method"])
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	_, _, header := s.do(t, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, header.Get("X-Request-ID"))

	_, _, header = s.do(t, http.MethodGet, "/ping", nil, func(r *http.Request) { r.Header.Set("X-Request-ID", "abc") })
	assert.Equal(t, "abc", header.Get("X-Request-ID"))
}

func TestBasicAuth(t *testing.T) {
	s := newTestServer(t)
	s.createBorrower(t, "Ada", "ada@example.com")

	tests := []struct {
		name    string
		opts    []reqOption
		code    int
		message string
	}{
		{"缺少凭证", nil, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"非馆员", []reqOption{basic("ada@example.com", "whatever1")}, http.StatusForbidden, "Access denied: librarian only"},
		{"密码错误", []reqOption{basic(adminEmail, "wrong-pass1")}, http.StatusUnauthorized, "Invalid credentials"},
		{"Bearer无效", []reqOption{bearer("not-a-token")}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := s.do(t, http.MethodGet, "/api/borrows", nil, tt.opts...)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, false, body["success"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}

	// 公开接口无需认证
	code, _, _ := s.do(t, http.MethodGet, "/api/books", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBorrowLifecycle(t *testing.T) {
	s := newTestServer(t)
	bookID := s.createBook(t, "Dune", 1)
	borrowerID := s.createBorrower(t, "Ada", "ada@example.com")

	code, body, _ := s.do(t, http.MethodPost, "/api/borrows", map[string]interface{}{
		"borrowerId": borrowerID, "bookId": bookID,
	}, asAdmin())
	require.Equal(t, http.StatusCreated, code, body)
	borrowID := int(data(t, body)["id"].(float64))

	// 库存为0时再借返回400
	other := s.createBorrower(t, "Bob", "bob@example.com")
	code, body, _ = s.do(t, http.MethodPost, "/api/borrows", map[string]interface{}{
		"borrowerId": other, "bookId": bookID,
	}, asAdmin())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Book is not available", body["message"])

	code, body, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/borrowers/%d/currentBorrows", borrowerID), nil)
	require.Equal(t, http.StatusOK, code)
	current := body["data"].([]interface{})
	require.Len(t, current, 1)
	assert.Equal(t, "Dune", current[0].(map[string]interface{})["book"].(map[string]interface{})["title"])

	code, body, _ = s.do(t, http.MethodPatch, fmt.Sprintf("/api/borrows/%d", borrowID), nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Book returned successfully", body["message"])

	code, body, _ = s.do(t, http.MethodPatch, fmt.Sprintf("/api/borrows/%d", borrowID), nil, asAdmin())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Book already returned", body["message"])

	code, body, _ = s.do(t, http.MethodGet, "/api/books?available=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body, _ = s.do(t, http.MethodGet, "/api/borrows?returned=true", nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	list := data(t, body)
	assert.Len(t, list["borrows"], 1)
	assert.EqualValues(t, 1, list["pagination"].(map[string]interface{})["totalItems"])

	// 有借阅记录的图书不能删除
	code, _, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", bookID), nil, asAdmin())
	assert.Equal(t, http.StatusConflict, code)
}

func TestCheckOutValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    interface{}
		message string
	}{
		{"缺少bookId", map[string]interface{}{"borrowerId": 1}, "Book ID is required"},
		{"borrowerId非法", map[string]interface{}{"borrowerId": 0, "bookId": 1}, "Invalid borrower ID"},
		{"days非法", map[string]interface{}{"borrowerId": 1, "bookId": 1, "days": 0}, "Days must be a positive integer if provided"},
		{"请求体格式错误", "not-an-object", "Malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := s.do(t, http.MethodPost, "/api/borrows", tt.body, asAdmin())
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestBookEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createBook(t, "Dune", 2)

	code, body, _ := s.do(t, http.MethodPost, "/api/books", map[string]interface{}{
		"title": "Dune", "author": "X", "isbn": "other", "quantity": 1, "shelfLocation": "B",
	}, asAdmin())
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Book title must be unique", body["message"])

	code, body, _ = s.do(t, http.MethodPatch, fmt.Sprintf("/api/books/%d", id), map[string]interface{}{"quantity": 5}, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, data(t, body)["quantity"])

	code, _, _ = s.do(t, http.MethodPatch, "/api/books/abc", map[string]interface{}{"quantity": 5}, asAdmin())
	assert.Equal(t, http.StatusBadRequest, code)

	code, body, _ = s.do(t, http.MethodGet, "/api/books?title=dun&page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
	assert.EqualValues(t, 5, body["pagination"].(map[string]interface{})["pageSize"])

	code, body, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Book deleted", body["message"])

	code, _, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, asAdmin())
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBorrowerEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createBorrower(t, "Ada", "ada@example.com")

	code, _, _ := s.do(t, http.MethodPost, "/api/borrowers", map[string]interface{}{"name": "Ada2", "email": "ada@example.com"}, asAdmin())
	assert.Equal(t, http.StatusConflict, code)

	code, body, _ := s.do(t, http.MethodPatch, fmt.Sprintf("/api/borrowers/%d", id), map[string]interface{}{"name": "Ada King"}, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ada King", data(t, body)["name"])

	code, body, _ = s.do(t, http.MethodGet, "/api/borrowers", nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data(t, body)["borrowers"], 1)

	code, body, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/borrowers/%d", id), nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Borrower deleted successfully", body["message"])
}

func TestRateLimit_Borrowers(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		code, _, header := s.do(t, http.MethodGet, "/api/borrowers", nil, asAdmin())
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "5", header.Get("RateLimit-Limit"))
		assert.Equal(t, fmt.Sprint(4-i), header.Get("RateLimit-Remaining"))
	}

	code, body, header := s.do(t, http.MethodGet, "/api/borrowers", nil, asAdmin())
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests. Please try again after a minute.", body["message"])
	assert.NotEmpty(t, header.Get("RateLimit-Reset"))

	// 其他接口不计数
	code, _, _ = s.do(t, http.MethodGet, "/api/borrows", nil, asAdmin())
	assert.Equal(t, http.StatusOK, code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	s := newTestServer(t)
	s.mr.Close()

	for i := 0; i < 7; i++ {
		code, _, _ := s.do(t, http.MethodGet, "/api/borrowers", nil, asAdmin())
		require.Equal(t, http.StatusOK, code)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)

	code, body, _ := s.do(t, http.MethodGet, "/api/reports/borrows-by-period?from=2024-01-01", nil, asAdmin())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing from or to date", body["message"])

	code, body, _ = s.do(t, http.MethodGet, "/api/reports/borrows-last-month", nil, asAdmin())
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, report.MessageNoData, body["message"])
	assert.NotContains(t, body, "path")

	bookID := s.createBook(t, "Dune", 1)
	borrowerID := s.createBorrower(t, "Ada", "ada@example.com")
	code, _, _ = s.do(t, http.MethodPost, "/api/borrows", map[string]interface{}{"borrowerId": borrowerID, "bookId": bookID}, asAdmin())
	require.Equal(t, http.StatusCreated, code)

	today := time.Now().UTC().Format("2006-01-02")
	code, body, _ = s.do(t, http.MethodGet, "/api/reports/borrows-by-period?from="+today+"&to="+today, nil, asAdmin())
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Report generated and saved successfully.", body["message"])
	assert.Contains(t, body["path"], "borrows_report_")
}

func TestBearerLoginAndLogout(t *testing.T) {
	s := newTestServer(t)

	code, body, _ := s.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, code, body)
	token := data(t, body)["access_token"].(string)

	code, _, _ = s.do(t, http.MethodGet, "/api/borrows", nil, bearer(token))
	require.Equal(t, http.StatusOK, code)

	code, _, _ = s.do(t, http.MethodPost, "/api/auth/logout", nil, bearer(token))
	require.Equal(t, http.StatusOK, code)

	code, _, _ = s.do(t, http.MethodGet, "/api/borrows", nil, bearer(token))
	assert.Equal(t, http.StatusUnauthorized, code)
}
