package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/config"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/metrics"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
	"github.com/oksasatya/go-blog-publisher/pkg/validation"
)

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

type blogJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type testAPI struct {
	t     *testing.T
	h     http.Handler
	users *memory.UserRepository
	blogs *memory.BlogRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := &config.Config{
		CORSAllowedOrigins:  "http://localhost:3000",
		UploadMaxBytes:      1 << 20,
		AuthRateLimit:       1000,
		BlogRateLimit:       1000,
		DebugMetricsEnabled: true,
	}
	m := metrics.New("blog_test")
	d := Deps{
		Config:  cfg,
		Users:   memory.NewUserRepository(),
		Blogs:   memory.NewBlogRepository(),
		JWT:     helpers.NewJWTManager("test-secret", time.Hour),
		Limiter: middleware.NewMemoryLimiter(),
		Metrics: m,
	}
	d.BlogObservers = append(d.BlogObservers, m)

	engine := NewEngine(cfg, m)
	reg := NewRegistry(engine)
	InitModules(reg, d)
	reg.RegisterAll()

	return &testAPI{
		t:     t,
		h:     engine,
		users: d.Users.(*memory.UserRepository),
		blogs: d.Blogs.(*memory.BlogRepository),
	}
}

func (a *testAPI) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *testAPI) register(name, email string) (token, userID string) {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(a.t, http.StatusOK, code, env.Message)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.Token)
	return data.Token, data.User.ID
}

func decodeBlog(t *testing.T, env envelope) blogJSON {
	t.Helper()
	var b blogJSON
	require.NoError(t, json.Unmarshal(env.Data, &b))
	return b
}

func decodeBlogs(t *testing.T, env envelope) []blogJSON {
	t.Helper()
	var bs []blogJSON
	require.NoError(t, json.Unmarshal(env.Data, &bs))
	return bs
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), userID)
	assert.NotEmpty(t, env.RequestID)

	code, env = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ADA@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"token"`)

	code, env = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Other", "email": "ada@example.com", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", env.Message)

	code, env = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"name": "X", "email": "not-an-email", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Error), "email")
	assert.Contains(t, string(env.Error), "password")
}

func TestAuthGate(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodGet, "/api/blogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token, authorization denied", env.Message)

	code, env = a.do(http.MethodGet, "/api/blogs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token is not valid", env.Message)

	a.users.Delete(userID)
	code, env = a.do(http.MethodGet, "/api/blogs", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token is not valid", env.Message)
}

func TestBlogLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token, userID := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodPost, "/api/blogs/save-draft", token, map[string]any{
		"title": "Hello", "content": "", "tags": "a, b",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	draft := decodeBlog(t, env)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "draft", draft.Status)
	assert.Equal(t, []string{"a", "b"}, draft.Tags)
	assert.Equal(t, userID, draft.UserID)

	code, env = a.do(http.MethodPost, "/api/blogs/save-draft", token, map[string]any{
		"id": draft.ID, "title": "Hello", "content": "Body", "tags": []string{"a", "c"},
	})
	require.Equal(t, http.StatusOK, code)
	again := decodeBlog(t, env)
	assert.Equal(t, draft.ID, again.ID)
	assert.Equal(t, []string{"a", "c"}, again.Tags)

	code, env = a.do(http.MethodGet, "/api/blogs?status=drafts", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeBlogs(t, env), 1)

	code, env = a.do(http.MethodPost, "/api/blogs/publish", token, map[string]any{
		"id": draft.ID, "title": "Hello", "content": "Body",
	})
	require.Equal(t, http.StatusOK, code)
	pub := decodeBlog(t, env)
	assert.Equal(t, "published", pub.Status)
	assert.Equal(t, draft.ID, pub.ID)

	code, env = a.do(http.MethodGet, "/api/blogs?status=drafts", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decodeBlogs(t, env))

	// saving a draft of a published blog keeps it published
	code, env = a.do(http.MethodPost, "/api/blogs/save-draft", token, map[string]any{
		"id": draft.ID, "title": "Hello 2", "content": "Body",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "published", decodeBlog(t, env).Status)

	code, env = a.do(http.MethodGet, "/api/blogs/"+draft.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello 2", decodeBlog(t, env).Title)

	code, env = a.do(http.MethodDelete, "/api/blogs/"+draft.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Blog deleted successfully", env.Message)

	code, env = a.do(http.MethodGet, "/api/blogs/"+draft.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Blog not found", env.Message)
}

func TestPublishWithoutID(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodPost, "/api/blogs/publish", token, map[string]any{
		"title": "Straight out", "content": "Body", "tags": []string{"go"},
	})
	require.Equal(t, http.StatusOK, code)
	b := decodeBlog(t, env)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "published", b.Status)
}

func TestValidationFailuresDoNotWrite(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodPost, "/api/blogs/save-draft", token, map[string]any{"title": "", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Title is required", env.Message)

	code, env = a.do(http.MethodPost, "/api/blogs/publish", token, map[string]any{"title": "t"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Content is required", env.Message)

	code, env = a.do(http.MethodPost, "/api/blogs/publish", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Title and content are required", env.Message)

	code, _ = a.do(http.MethodPost, "/api/blogs/save-draft", token, map[string]any{"title": "t", "tags": 42})
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Zero(t, a.blogs.Writes())
}

func TestCrossUserIsNotFound(t *testing.T) {
	a := newTestAPI(t)
	alice, _ := a.register("Alice", "alice@example.com")
	bob, _ := a.register("Bob", "bob@example.com")

	code, env := a.do(http.MethodPost, "/api/blogs/save-draft", alice, map[string]any{"title": "private"})
	require.Equal(t, http.StatusOK, code)
	id := decodeBlog(t, env).ID

	code, _ = a.do(http.MethodGet, "/api/blogs/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodPost, "/api/blogs/save-draft", bob, map[string]any{"id": id, "title": "mine now"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodPost, "/api/blogs/publish", bob, map[string]any{"id": id, "title": "mine now", "content": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodDelete, "/api/blogs/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.do(http.MethodGet, "/api/blogs", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decodeBlogs(t, env))

	code, env = a.do(http.MethodGet, "/api/blogs/"+id, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "private", decodeBlog(t, env).Title)
}

func TestSearchWithoutIndexIsEmpty(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.register("Ada", "ada@example.com")

	code, env := a.do(http.MethodGet, "/api/blogs/search?q=hello", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decodeBlogs(t, env))
}

func TestUploadDisabled(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.register("Ada", "ada@example.com")

	code, _ := a.do(http.MethodPost, "/api/uploads/images", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestDebugMetrics(t *testing.T) {
	a := newTestAPI(t)
	a.register("Ada", "ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/debug/metrics", nil)
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `blog_test_http_requests_total{method="POST",route="/api/auth/register",status="200"} 1`)
}

func TestRegistry_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{AuthRateLimit: 10, BlogRateLimit: 10}
	reg := NewRegistry(NewEngine(cfg, nil))
	InitModules(reg, Deps{
		Config:  cfg,
		Users:   memory.NewUserRepository(),
		Blogs:   memory.NewBlogRepository(),
		JWT:     helpers.NewJWTManager("s", time.Hour),
		Limiter: middleware.NewMemoryLimiter(),
	})
	reg.RegisterAll()
	assert.NotPanics(t, reg.RegisterAll)

	routes := reg.Routes()
	for _, want := range []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"GET /api/blogs",
		"GET /api/blogs/:id",
		"POST /api/blogs/save-draft",
		"POST /api/blogs/publish",
		"DELETE /api/blogs/:id",
		"GET /api/blogs/search",
		"POST /api/uploads/images",
	} {
		assert.Contains(t, routes, want)
	}
	assert.NotContains(t, routes, "GET /health")
	assert.NotContains(t, routes, "GET /api/debug/metrics")
}
