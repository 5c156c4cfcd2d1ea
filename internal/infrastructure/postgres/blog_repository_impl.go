package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	"github.com/oksasatya/go-blog-publisher/internal/domain/repository"
)

const blogColumns = `id, user_id, title, content, tags, status, created_at, updated_at`

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

// validIDs reports whether both ids are UUIDs; anything else cannot match a
// row and is answered with ErrNotFound instead of a 22P02 from postgres.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	var status string
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Content, &b.Tags, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = entity.BlogStatus(status)
	return b, nil
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	if !validIDs(b.OwnerID) {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (user_id, title, content, tags, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, b.OwnerID, b.Title, b.Content, tagsOrEmpty(b.Tags), string(b.Status), b.CreatedAt, b.UpdatedAt)

	return row.Scan(&b.ID)
}

func (r *BlogRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Blog, error) {
	if !validIDs(id, ownerID) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)

	b, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BlogRepository) ListByOwner(ctx context.Context, ownerID string, status entity.BlogStatus) ([]*entity.Blog, error) {
	out := make([]*entity.Blog, 0)
	if !validIDs(ownerID) {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+blogColumns+`
		FROM blogs
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC
	`, ownerID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	if !validIDs(b.ID, b.OwnerID) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, content = $2, tags = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, b.Title, b.Content, tagsOrEmpty(b.Tags), string(b.Status), b.UpdatedAt, b.ID, b.OwnerID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *BlogRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	if !validIDs(id, ownerID) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
