package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"luxe-atelier/internal/domain"
)

// MongoCollection is the collection snapshots are kept in.
const MongoCollection = "cart_snapshots"

type mongoRepo struct {
	collection *mongo.Collection
}

type mongoSnapshot struct {
	Key       string    `bson:"_id"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongo(db *mongo.Database) Repository {
	return &mongoRepo{collection: db.Collection(MongoCollection)}
}

func (r *mongoRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoSnapshot
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return []byte(doc.Document), nil
}

func (r *mongoRepo) Set(ctx context.Context, key string, value []byte) error {
	doc := mongoSnapshot{Key: key, Document: string(value), UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

func (r *mongoRepo) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}
