package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData(Site{AppName: "Inkwell", AppURL: "http://app.test/"}, "Ann", "ann@example.com")

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Inkwell, Ann", subject)
	assert.Contains(t, text, "ann@example.com")
	assert.Contains(t, html, `href="http://app.test/editor"`)
}

func TestRender_BlogPublished(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	data := NewBlogPublishedData(Site{AppURL: "http://app.test"}, "Ann", "ann@example.com", "b1", "First", []string{"go", "web"}, WithTime(at))

	subject, text, _, err := Render(BlogPublished, data)
	require.NoError(t, err)

	assert.Equal(t, "Published: First", subject)
	assert.Contains(t, text, "01 May 2024, 10:30")
	assert.Contains(t, text, "Tags: go, web")
	assert.Contains(t, text, "http://app.test/editor/b1")
}

func TestRender_BlogPublishedPlainMap(t *testing.T) {
	data := map[string]any{"Title": "First", "Tags": []string{"go", "web"}}

	_, text, html, err := Render(BlogPublished, data)
	require.NoError(t, err)

	assert.Contains(t, text, "Tags: go, web")
	assert.Contains(t, html, "<p>Tags: go, web</p>")
}

func TestJoinFn(t *testing.T) {
	assert.Equal(t, "a, b", joinFn([]string{"a", "b"}, ", "))
	assert.Equal(t, "a|1", joinFn([]any{"a", 1}, "|"))
	assert.Equal(t, "", joinFn("a", ","))
	assert.Equal(t, "", joinFn(nil, ","))
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
