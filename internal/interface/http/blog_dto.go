package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
)

// Tags accepts either a JSON array of strings or the comma-separated form
// typed into the editor.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = Tags{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = application.SplitTags(s)
		return nil
	case len(b) > 0 && b[0] == '[':
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	return errors.New("tags must be a string or an array of strings")
}

type saveBlogRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    Tags   `json:"tags"`
}

func (r saveBlogRequest) input() application.BlogInput {
	return application.BlogInput{ID: r.ID, Title: r.Title, Content: r.Content, Tags: r.Tags}
}

// BlogResponse is the wire form of a blog.
type BlogResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBlogResponse(b *entity.Blog) BlogResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Tags:      tags,
		Status:    string(b.Status),
		UserID:    b.OwnerID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBlogResponses(bs []*entity.Blog) []BlogResponse {
	out := make([]BlogResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBlogResponse(b))
	}
	return out
}
