package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	"github.com/oksasatya/go-blog-publisher/internal/domain/repository"
)

type BlogRepository struct {
	mu    sync.RWMutex
	blogs map[string]*entity.Blog
	// writes counts successful mutations; tests use it to assert that a
	// rejected request never touched the store.
	writes int
}

func NewBlogRepository() *BlogRepository {
	return &BlogRepository{blogs: make(map[string]*entity.Blog)}
}

func (r *BlogRepository) Create(_ context.Context, b *entity.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.NewString()
	r.blogs[b.ID] = b.Clone()
	r.writes++
	return nil
}

func (r *BlogRepository) GetByIDAndOwner(_ context.Context, id, ownerID string) (*entity.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blogs[id]
	if !ok || b.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return b.Clone(), nil
}

func (r *BlogRepository) ListByOwner(_ context.Context, ownerID string, status entity.BlogStatus) ([]*entity.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Blog, 0)
	for _, b := range r.blogs {
		if b.OwnerID != ownerID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *BlogRepository) Update(_ context.Context, b *entity.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.blogs[b.ID]
	if !ok || cur.OwnerID != b.OwnerID {
		return repository.ErrNotFound
	}
	next := b.Clone()
	next.CreatedAt = cur.CreatedAt
	r.blogs[b.ID] = next
	r.writes++
	return nil
}

func (r *BlogRepository) DeleteByIDAndOwner(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blogs[id]
	if !ok || b.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.blogs, id)
	r.writes++
	return nil
}

// Writes reports how many mutations succeeded so far.
func (r *BlogRepository) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
