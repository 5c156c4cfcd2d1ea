package repository

import (
	"context"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
)

// BlogRepository persists blogs. Every lookup, update and delete is filtered
// by owner; a blog owned by someone else behaves exactly like a missing one.
type BlogRepository interface {
	// Create assigns the ID and stores b.
	Create(ctx context.Context, b *entity.Blog) error
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Blog, error)
	// ListByOwner returns the owner's blogs, newest UpdatedAt first.
	// An empty status means all statuses.
	ListByOwner(ctx context.Context, ownerID string, status entity.BlogStatus) ([]*entity.Blog, error)
	// Update overwrites title, content, tags, status and updated_at of the
	// blog matching b.ID and b.OwnerID.
	Update(ctx context.Context, b *entity.Blog) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
}
