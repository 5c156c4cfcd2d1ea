package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/config"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/memory"
	"github.com/oksasatya/go-blog-publisher/internal/interface/middleware"
	"github.com/oksasatya/go-blog-publisher/internal/router"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
	"github.com/oksasatya/go-blog-publisher/pkg/validation"
)

// newServer runs the real API on the in-memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := &config.Config{AuthRateLimit: 1000, BlogRateLimit: 1000, UploadMaxBytes: 1 << 20}
	engine := router.NewEngine(cfg, nil)
	reg := router.NewRegistry(engine)
	router.InitModules(reg, router.Deps{
		Config:  cfg,
		Users:   memory.NewUserRepository(),
		Blogs:   memory.NewBlogRepository(),
		JWT:     helpers.NewJWTManager("client-test", time.Hour),
		Limiter: middleware.NewMemoryLimiter(),
	})
	reg.RegisterAll()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EndToEnd(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")

	sess, err := LoadSession(path)
	require.NoError(t, err)
	c := New(srv.URL, sess)

	u, err := c.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.True(t, sess.LoggedIn())

	// the session survives a reload from disk
	reloaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, sess.BearerToken(), reloaded.BearerToken())
	assert.Equal(t, u.ID, reloaded.CurrentUser().ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	b, err := c.SaveDraft(ctx, Draft{Title: "Hi", Tags: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "draft", b.Status)
	assert.Equal(t, []string{}, b.Tags)

	b, err = c.SaveDraft(ctx, Draft{ID: b.ID, Title: "Hi there", Content: "body", Tags: []string{"a", " b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, b.Tags)
	assert.Equal(t, "draft", b.Status)

	p, err := c.Publish(ctx, Draft{ID: b.ID, Title: "Hi there", Content: "body"})
	require.NoError(t, err)
	assert.True(t, p.Published())

	list, err := c.ListBlogs(ctx, "published")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = c.Publish(ctx, Draft{Title: "no body"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Content is required", apiErr.Message)
	assert.Contains(t, apiErr.Fields, "content")

	require.NoError(t, c.DeleteBlog(ctx, b.ID))
	_, err = c.GetBlog(ctx, b.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Logout())
	assert.False(t, sess.LoggedIn())
	assert.NoFileExists(t, path)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "session.yaml")
	sess := &Session{Path: path}
	require.NoError(t, sess.Set("stale-token", time.Now().Add(time.Hour), User{ID: "x"}))
	require.FileExists(t, path)

	c := New(srv.URL, sess)
	_, err := c.ListBlogs(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, sess.LoggedIn())
	assert.NoFileExists(t, path)
}

func TestClient_UploadImage(t *testing.T) {
	var gotField, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, fh, err := r.FormFile("image")
		if err == nil {
			gotField = fh.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://cdn.test/x.png"}}`))
	}))
	defer srv.Close()

	sess := &Session{Token: "tok"}
	url, err := New(srv.URL, sess).UploadImage(context.Background(), "x.png", strings.NewReader("fake"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/x.png", url)
	assert.Equal(t, "x.png", gotField)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestLoadSession_Missing(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
