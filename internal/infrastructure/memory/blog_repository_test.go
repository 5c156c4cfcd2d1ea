package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	"github.com/oksasatya/go-blog-publisher/internal/domain/repository"
)

func TestBlogRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogRepository()

	b := &entity.Blog{Title: "t", OwnerID: "alice", Status: entity.StatusDraft}
	require.NoError(t, repo.Create(ctx, b))
	require.NotEmpty(t, b.ID)

	_, err := repo.GetByIDAndOwner(ctx, b.ID, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.DeleteByIDAndOwner(ctx, b.ID, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Update(ctx, &entity.Blog{ID: b.ID, OwnerID: "bob", Title: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByIDAndOwner(ctx, b.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestBlogRepository_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := &entity.Blog{Title: "older", OwnerID: "o", Status: entity.StatusDraft, UpdatedAt: base}
	newer := &entity.Blog{Title: "newer", OwnerID: "o", Status: entity.StatusDraft, UpdatedAt: base.Add(time.Hour)}
	pub := &entity.Blog{Title: "pub", OwnerID: "o", Status: entity.StatusPublished, UpdatedAt: base.Add(2 * time.Hour)}
	other := &entity.Blog{Title: "other", OwnerID: "x", Status: entity.StatusDraft, UpdatedAt: base}
	for _, b := range []*entity.Blog{older, newer, pub, other} {
		require.NoError(t, repo.Create(ctx, b))
	}

	all, err := repo.ListByOwner(ctx, "o", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "pub", all[0].Title)
	assert.Equal(t, "newer", all[1].Title)
	assert.Equal(t, "older", all[2].Title)

	drafts, err := repo.ListByOwner(ctx, "o", entity.StatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "newer", drafts[0].Title)
}

func TestBlogRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogRepository()
	b := &entity.Blog{Title: "t", OwnerID: "o", Tags: []string{"a"}}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByIDAndOwner(ctx, b.ID, "o")
	require.NoError(t, err)
	got.Tags[0] = "mutated"

	again, err := repo.GetByIDAndOwner(ctx, b.ID, "o")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "a@b.c", Name: "A"}))
	err := repo.Create(ctx, &entity.User{Email: "A@B.C", Name: "B"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	u, err := repo.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
}
