package application

import (
	"context"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
)

type BlogEventKind string

const (
	BlogDraftSaved BlogEventKind = "draft_saved"
	BlogPublished  BlogEventKind = "published"
	BlogDeleted    BlogEventKind = "deleted"
)

// BlogEvent is emitted after a successful store mutation.
type BlogEvent struct {
	Kind    BlogEventKind
	OwnerID string
	BlogID  string
	// Blog is nil for BlogDeleted.
	Blog *entity.Blog
	// FirstPublish is set when this save moved the blog out of draft (or
	// created it already published).
	FirstPublish bool
}

// BlogObserver reacts to blog mutations: search indexing, email, metrics.
// Observers must not fail the request; they log their own errors.
type BlogObserver interface {
	BlogChanged(ctx context.Context, ev BlogEvent)
}

// UserObserver reacts to new registrations.
type UserObserver interface {
	UserRegistered(ctx context.Context, u *entity.User)
}
