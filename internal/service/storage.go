// Path: internal/service/storage.go
package service

import (
	"context"

	"price-hunter/internal/domain"
)

// ResultCache defines the interface for the time-boxed result cache.
// Implementations key entries by the lowercased query term.
type ResultCache interface {
	// Get retrieves the cache entry for a query term, or (nil, nil) when
	// no entry exists. Freshness is the caller's concern.
	Get(ctx context.Context, term string) (*domain.CachedResults, error)

	// Put replaces any existing entry for the term with a fresh timestamp.
	// Partial results are never merged.
	Put(ctx context.Context, term string, results []domain.SearchResult) error

	// All streams every cache entry.
	All(ctx context.Context) ([]domain.CachedResults, error)
}

// TrackedQueryStore defines the interface for the tracked-query registry.
type TrackedQueryStore interface {
	// Upsert registers a query term; registering an existing term is a
	// no-op beyond ensuring the record exists.
	Upsert(ctx context.Context, term string) error

	// Remove unregisters a term; removing an absent term is a no-op.
	Remove(ctx context.Context, term string) error

	// List streams the raw registry, which may contain duplicate terms
	// when several owners track the same query. Callers deduplicate.
	List(ctx context.Context) ([]domain.TrackedQuery, error)

	// Touch stamps the current time on every record matching the term.
	Touch(ctx context.Context, term string) error
}
