// Path: internal/storage/mongo_tracked.go
package storage

import (
	"context"
	"time"

	"price-hunter/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackedStore is the MongoDB implementation of the TrackedQueryStore
// interface. The registry may hold several records for the same term when
// different owners track it; List returns them raw and the service keeps the
// oldest timestamp per group.
type MongoTrackedStore struct {
	collection *mongo.Collection
}

// NewMongoTrackedStore creates a new storage adapter for tracked queries.
func NewMongoTrackedStore(db *mongo.Database, collectionName string) *MongoTrackedStore {
	return &MongoTrackedStore{
		collection: db.Collection(collectionName),
	}
}

// Upsert implements the TrackedQueryStore interface. Registering an already
// tracked term keeps its refresh timestamp untouched.
func (s *MongoTrackedStore) Upsert(ctx context.Context, term string) error {
	filter := bson.M{"query_term": term}
	update := bson.M{"$setOnInsert": bson.M{
		"query_term":   term,
		"last_updated": nil,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Remove implements the TrackedQueryStore interface. Every owner's record
// for the term is dropped; removing an absent term is a no-op.
func (s *MongoTrackedStore) Remove(ctx context.Context, term string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"query_term": term})
	return err
}

// List implements the TrackedQueryStore interface.
func (s *MongoTrackedStore) List(ctx context.Context) ([]domain.TrackedQuery, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var queries []domain.TrackedQuery
	for cursor.Next(ctx) {
		var tq domain.TrackedQuery
		if err := cursor.Decode(&tq); err != nil {
			return nil, err
		}
		queries = append(queries, tq)
	}
	return queries, cursor.Err()
}

// Touch implements the TrackedQueryStore interface. The timestamp lands on
// all records matching the term so every owner sees the refresh.
func (s *MongoTrackedStore) Touch(ctx context.Context, term string) error {
	update := bson.M{"$set": bson.M{"last_updated": time.Now().UTC()}}
	_, err := s.collection.UpdateMany(ctx, bson.M{"query_term": term}, update)
	return err
}
