package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned for every 401. The session has already been
// cleared when the caller sees it.
var ErrUnauthorized = errors.New("unauthorized: please log in again")

// APIError is a non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Blog mirrors the API's blog representation.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Blog) Published() bool { return b.Status == "published" }

// Draft is the body of save-draft and publish. An empty ID creates a blog.
type Draft struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type authData struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Client talks to the blog API on behalf of one Session.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *Session
}

func New(baseURL string, s *Session) *Client {
	if s == nil {
		s = &Session{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Session: s,
	}
}

func (c *Client) Register(ctx context.Context, name, email, password string) (User, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (User, error) {
	var data authData
	if err := c.doJSON(ctx, http.MethodPost, path, body, &data); err != nil {
		return User{}, err
	}
	if err := c.Session.Set(data.Token, data.ExpiresAt, data.User); err != nil {
		return data.User, fmt.Errorf("save session: %w", err)
	}
	return data.User, nil
}

// Logout forgets the credential locally; tokens are stateless server-side.
func (c *Client) Logout() error {
	return c.Session.Clear()
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &u)
	return u, err
}

// ListBlogs fetches the caller's blogs; status may be "", "draft" or "published".
func (c *Client) ListBlogs(ctx context.Context, status string) ([]Blog, error) {
	path := "/api/blogs"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []Blog
	err := c.doJSON(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetBlog(ctx context.Context, id string) (*Blog, error) {
	var b Blog
	if err := c.doJSON(ctx, http.MethodGet, "/api/blogs/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) SaveDraft(ctx context.Context, d Draft) (*Blog, error) {
	var b Blog
	if err := c.doJSON(ctx, http.MethodPost, "/api/blogs/save-draft", d, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) Publish(ctx context.Context, d Draft) (*Blog, error) {
	var b Blog
	if err := c.doJSON(ctx, http.MethodPost, "/api/blogs/publish", d, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/blogs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Search(ctx context.Context, q string) ([]Blog, error) {
	var out []Blog
	err := c.doJSON(ctx, http.MethodGet, "/api/blogs/search?q="+url.QueryEscape(q), nil, &out)
	return out, err
}

// UploadImage sends r as the multipart "image" field and returns the URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/uploads/images", mw.FormDataContentType(), &buf, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, "application/json", r, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Session.BearerToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusUnauthorized {
		_ = c.Session.Clear()
		return ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if res.StatusCode >= 300 {
			return &APIError{Status: res.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if res.StatusCode >= 300 {
		apiErr := &APIError{Status: res.StatusCode, Message: env.Message}
		_ = json.Unmarshal(env.Error, &apiErr.Fields)
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
