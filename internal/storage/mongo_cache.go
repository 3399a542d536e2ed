// Path: internal/storage/mongo_cache.go
package storage

import (
	"context"
	"errors"
	"time"

	"price-hunter/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoResultCache is the MongoDB implementation of the ResultCache
// interface. Entries are single documents keyed by the query term, so
// concurrent writers on different terms never conflict and same-term writes
// are last-writer-wins.
type MongoResultCache struct {
	collection *mongo.Collection
}

// NewMongoResultCache creates a new storage adapter for cached results.
func NewMongoResultCache(db *mongo.Database, collectionName string) *MongoResultCache {
	return &MongoResultCache{
		collection: db.Collection(collectionName),
	}
}

// Get implements the ResultCache interface.
func (s *MongoResultCache) Get(ctx context.Context, term string) (*domain.CachedResults, error) {
	var entry domain.CachedResults
	filter := bson.M{"_id": term}
	err := s.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Return nil, nil if not found
		}
		return nil, err
	}
	return &entry, nil
}

// Put implements the ResultCache interface.
func (s *MongoResultCache) Put(ctx context.Context, term string, results []domain.SearchResult) error {
	entry := domain.CachedResults{
		QueryTerm: term,
		UpdatedAt: time.Now().UTC(),
		Results:   results,
	}
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": term}
	_, err := s.collection.ReplaceOne(ctx, filter, entry, opts)
	return err
}

// All implements the ResultCache interface.
func (s *MongoResultCache) All(ctx context.Context) ([]domain.CachedResults, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.CachedResults
	for cursor.Next(ctx) {
		var entry domain.CachedResults
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, cursor.Err()
}
