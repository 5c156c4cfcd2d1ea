// Package listing is the client-side list of the user's blogs.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oksasatya/go-blog-publisher/internal/client"
)

// ErrCancelled is returned by Delete when the user declines the confirmation.
var ErrCancelled = errors.New("delete cancelled")

type Filter string

const (
	All       Filter = "all"
	Published Filter = "published"
	Drafts    Filter = "drafts"
)

// ParseFilter accepts the tab names; anything else is All.
func ParseFilter(s string) Filter {
	switch s {
	case "published":
		return Published
	case "draft", "drafts":
		return Drafts
	default:
		return All
	}
}

type API interface {
	ListBlogs(ctx context.Context, status string) ([]client.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

const deletePrompt = "Are you sure you want to delete this blog?"

// View holds the blogs fetched by Load. Filtering never goes back to the
// server; neither does a successful delete.
type View struct {
	api     API
	confirm Confirmer

	mu    sync.RWMutex
	blogs []client.Blog
}

func New(api API, confirm Confirmer) *View {
	return &View{api: api, confirm: confirm}
}

// Load fetches every blog of the current user. Blogs already held are kept
// when the fetch fails.
func (v *View) Load(ctx context.Context) error {
	blogs, err := v.api.ListBlogs(ctx, "")
	if err != nil {
		return fmt.Errorf("load blogs: %w", err)
	}
	v.mu.Lock()
	v.blogs = blogs
	v.mu.Unlock()
	return nil
}

// Filter returns a copy of the loaded blogs matching f, in server order.
func (v *View) Filter(f Filter) []client.Blog {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]client.Blog, 0, len(v.blogs))
	for _, b := range v.blogs {
		switch f {
		case Published:
			if !b.Published() {
				continue
			}
		case Drafts:
			if b.Published() {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.blogs)
}

// Delete confirms, deletes on the server and drops the blog from the local
// list. The list is left alone when the server call fails.
func (v *View) Delete(ctx context.Context, id string) error {
	if v.confirm != nil && !v.confirm.Confirm(deletePrompt) {
		return ErrCancelled
	}
	if err := v.api.DeleteBlog(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.blogs[:0:0]
	for _, b := range v.blogs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	v.blogs = kept
	return nil
}
