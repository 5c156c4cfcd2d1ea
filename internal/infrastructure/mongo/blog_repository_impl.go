package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-blog-publisher/internal/domain/entity"
	"github.com/oksasatya/go-blog-publisher/internal/domain/repository"
)

// blogDoc is the stored shape of a blog. userId references users._id.
type blogDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Tags      []string           `bson:"tags"`
	Status    string             `bson:"status"`
	UserID    primitive.ObjectID `bson:"userId"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d blogDoc) toEntity() *entity.Blog {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entity.Blog{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		Status:    entity.BlogStatus(d.Status),
		OwnerID:   d.UserID.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type BlogRepository struct {
	coll *mgo.Collection
}

func NewBlogRepository(db *mgo.Database) *BlogRepository {
	return &BlogRepository{coll: db.Collection(blogsCollection)}
}

// ownedFilter builds {_id, userId}. ok is false when either id is not an
// ObjectID, which callers report as ErrNotFound.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": uid}, true
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	uid, err := primitive.ObjectIDFromHex(b.OwnerID)
	if err != nil {
		return repository.ErrNotFound
	}
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := blogDoc{
		ID:        primitive.NewObjectID(),
		Title:     b.Title,
		Content:   b.Content,
		Tags:      tags,
		Status:    string(b.Status),
		UserID:    uid,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	b.ID = doc.ID.Hex()
	return nil
}

func (r *BlogRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*entity.Blog, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc blogDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mgo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *BlogRepository) ListByOwner(ctx context.Context, ownerID string, status entity.BlogStatus) ([]*entity.Blog, error) {
	out := make([]*entity.Blog, 0)
	uid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return out, nil
	}
	filter := bson.M{"userId": uid}
	if status != "" {
		filter["status"] = string(status)
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	for cur.Next(ctx) {
		var doc blogDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	filter, ok := ownedFilter(b.ID, b.OwnerID)
	if !ok {
		return repository.ErrNotFound
	}
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"title":      b.Title,
		"content":    b.Content,
		"tags":       tags,
		"status":     string(b.Status),
		"updated_at": b.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
