package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-publisher/internal/application"
	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// blogsMapping keeps user_id a keyword so the owner filter is an exact match.
const blogsMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "user_id":    {"type": "keyword"},
      "status":     {"type": "keyword"},
      "title":      {"type": "text"},
      "content":    {"type": "text"},
      "tags":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// BlogIndex mirrors blogs into Elasticsearch and answers full-text queries.
// It is a BlogObserver for writes and a BlogSearcher for reads.
type BlogIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewBlogIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *BlogIndex {
	return &BlogIndex{ES: es, Index: index, Logger: logger}
}

// EnsureIndex creates the index with its mapping when missing.
func (x *BlogIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = x.ES.Indices.Create(x.Index,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(strings.NewReader(blogsMapping)),
	)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

func (x *BlogIndex) BlogChanged(ctx context.Context, ev application.BlogEvent) {
	var err error
	switch ev.Kind {
	case application.BlogDeleted:
		err = x.remove(ctx, ev.BlogID)
	default:
		if ev.Blog != nil {
			err = x.put(ctx, ev.Blog)
		}
	}
	if err != nil && x.Logger != nil {
		x.Logger.WithError(err).WithFields(logrus.Fields{
			"blog_id": ev.BlogID,
			"event":   ev.Kind,
		}).Warn("es sync failed")
	}
}

func (x *BlogIndex) put(ctx context.Context, b *entity.Blog) error {
	doc := map[string]any{
		"id":         b.ID,
		"user_id":    b.OwnerID,
		"status":     string(b.Status),
		"title":      b.Title,
		"content":    b.Content,
		"tags":       b.Tags,
		"created_at": b.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": b.UpdatedAt.Format(time.RFC3339Nano),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: b.ID, Body: bytes.NewReader(body), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *BlogIndex) remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search returns the ids of the owner's blogs matching q, best match first.
func (x *BlogIndex) Search(ctx context.Context, ownerID, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "tags^2", "content"},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": ownerID}},
				},
			},
		},
		"_source": false,
		"size":    size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		// nothing indexed yet
		if res.StatusCode == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

var (
	_ application.BlogObserver = (*BlogIndex)(nil)
	_ application.BlogSearcher = (*BlogIndex)(nil)
)
