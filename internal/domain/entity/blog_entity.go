package entity

import "time"

type BlogStatus string

const (
	StatusDraft     BlogStatus = "draft"
	StatusPublished BlogStatus = "published"
)

// Blog is a single post owned by exactly one user.
// OwnerID and CreatedAt never change after the first save.
type Blog struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	Status    BlogStatus
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Blog) IsPublished() bool { return b.Status == StatusPublished }

// Clone returns a deep copy so stores never share the tags slice with callers.
func (b *Blog) Clone() *Blog {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Tags != nil {
		cp.Tags = append([]string(nil), b.Tags...)
	}
	return &cp
}
