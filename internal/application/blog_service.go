package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-publisher/internal/domain/repository"
)

// BlogSearcher finds blog ids of one owner matching a free-text query.
type BlogSearcher interface {
	Search(ctx context.Context, ownerID, query string, size int) ([]string, error)
}

// BlogInput is the payload of SaveDraft and Publish. An empty ID creates a
// new blog.
type BlogInput struct {
	ID      string
	Title   string
	Content string
	Tags    []string
}

type BlogService struct {
	Repo      repo.BlogRepository
	Searcher  BlogSearcher
	Observers []BlogObserver
	Logger    *logrus.Logger
	Now       func() time.Time
}

func NewBlogService(r repo.BlogRepository, searcher BlogSearcher, logger *logrus.Logger, observers ...BlogObserver) *BlogService {
	return &BlogService{
		Repo:      r,
		Searcher:  searcher,
		Observers: observers,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// ParseStatusFilter maps the ?status= query value to a store filter.
// Unknown values mean "all".
func ParseStatusFilter(s string) entity.BlogStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft", "drafts":
		return entity.StatusDraft
	case "published":
		return entity.StatusPublished
	default:
		return ""
	}
}

func (s *BlogService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	// mongo keeps milliseconds, postgres microseconds
	return s.Now().UTC().Truncate(time.Millisecond)
}

func (s *BlogService) List(ctx context.Context, ownerID, statusFilter string) ([]*entity.Blog, error) {
	blogs, err := s.Repo.ListByOwner(ctx, ownerID, ParseStatusFilter(statusFilter))
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, nil
}

func (s *BlogService) Get(ctx context.Context, ownerID, blogID string) (*entity.Blog, error) {
	b, err := s.Repo.GetByIDAndOwner(ctx, blogID, ownerID)
	if err != nil {
		return nil, s.storeErr("get blog", err)
	}
	return b, nil
}

// saveMode parameterises the shared create-or-update routine.
type saveMode struct {
	// status given to newly created blogs
	createStatus entity.BlogStatus
	// forceStatus also overwrites the status of existing blogs
	forceStatus    bool
	requireContent bool
	event          BlogEventKind
}

var (
	draftMode   = saveMode{createStatus: entity.StatusDraft, event: BlogDraftSaved}
	publishMode = saveMode{createStatus: entity.StatusPublished, forceStatus: true, requireContent: true, event: BlogPublished}
)

// SaveDraft creates a draft or overwrites an owned blog, keeping its status.
func (s *BlogService) SaveDraft(ctx context.Context, ownerID string, in BlogInput) (*entity.Blog, error) {
	return s.save(ctx, ownerID, in, draftMode)
}

// Publish creates or overwrites an owned blog and marks it published.
// A published blog never goes back to draft.
func (s *BlogService) Publish(ctx context.Context, ownerID string, in BlogInput) (*entity.Blog, error) {
	return s.save(ctx, ownerID, in, publishMode)
}

func (s *BlogService) save(ctx context.Context, ownerID string, in BlogInput, mode saveMode) (*entity.Blog, error) {
	title := strings.TrimSpace(in.Title)
	tags := NormalizeTags(in.Tags)

	verr := newValidationError()
	if title == "" {
		verr.add("title", "is required")
	}
	if mode.requireContent && strings.TrimSpace(in.Content) == "" {
		verr.add("content", "is required")
	}
	validateTags(tags, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	now := s.now()
	id := strings.TrimSpace(in.ID)

	if id == "" {
		b := &entity.Blog{
			Title:     title,
			Content:   in.Content,
			Tags:      tags,
			Status:    mode.createStatus,
			OwnerID:   ownerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.Repo.Create(ctx, b); err != nil {
			return nil, s.storeErr("create blog", err)
		}
		s.emit(ctx, BlogEvent{
			Kind:         mode.event,
			OwnerID:      ownerID,
			BlogID:       b.ID,
			Blog:         b,
			FirstPublish: b.IsPublished(),
		})
		return b, nil
	}

	b, err := s.Repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, s.storeErr("load blog", err)
	}
	wasPublished := b.IsPublished()

	b.Title = title
	b.Content = in.Content
	b.Tags = tags
	if mode.forceStatus {
		b.Status = mode.createStatus
	}
	b.UpdatedAt = now

	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, s.storeErr("update blog", err)
	}
	s.emit(ctx, BlogEvent{
		Kind:         mode.event,
		OwnerID:      ownerID,
		BlogID:       b.ID,
		Blog:         b,
		FirstPublish: b.IsPublished() && !wasPublished,
	})
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, ownerID, blogID string) error {
	if err := s.Repo.DeleteByIDAndOwner(ctx, blogID, ownerID); err != nil {
		return s.storeErr("delete blog", err)
	}
	s.emit(ctx, BlogEvent{Kind: BlogDeleted, OwnerID: ownerID, BlogID: blogID})
	return nil
}

// Search runs a full-text query over the owner's blogs. Hits are re-read
// from the store so the result is owner-scoped and current even when the
// index lags behind.
func (s *BlogService) Search(ctx context.Context, ownerID, query string, size int) ([]*entity.Blog, error) {
	out := make([]*entity.Blog, 0)
	query = strings.TrimSpace(query)
	if s.Searcher == nil || query == "" {
		return out, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Searcher.Search(ctx, ownerID, query, size)
	if err != nil {
		return nil, fmt.Errorf("search blogs: %w", err)
	}
	for _, id := range ids {
		b, err := s.Repo.GetByIDAndOwner(ctx, id, ownerID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("search blogs: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *BlogService) storeErr(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBlogNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *BlogService) emit(ctx context.Context, ev BlogEvent) {
	for _, o := range s.Observers {
		if o == nil {
			continue
		}
		e := ev
		e.Blog = ev.Blog.Clone()
		o.BlogChanged(ctx, e)
	}
}
