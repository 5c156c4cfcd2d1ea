package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection = "users"
	blogsCollection = "blogs"
)

// Connect dials MongoDB, pings it and ensures the indexes the repositories
// rely on exist.
func Connect(ctx context.Context, uri, database string) (*mgo.Client, *mgo.Database, error) {
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mgo.Connect(c, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(c, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	db := client.Database(database)
	if err := ensureIndexes(c, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mgo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mgo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(blogsCollection).Indexes().CreateOne(ctx, mgo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	return err
}
