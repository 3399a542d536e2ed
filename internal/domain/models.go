// Path: internal/domain/models.go
package domain

import "time"

// ResultStatus represents the outcome of one store search.
type ResultStatus string

const (
	StatusSuccess  ResultStatus = "success"
	StatusNotFound ResultStatus = "not_found"
	StatusError    ResultStatus = "error"
)

// MatchTier classifies how completely a winning listing's title covered
// the query's token set.
type MatchTier string

const (
	TierExact   MatchTier = "exact"
	TierPartial MatchTier = "partial"
)

// SearchResult is one store's outcome for one query. It is created once per
// (store, query) search and never mutated afterwards; the next search for the
// same query supersedes it.
type SearchResult struct {
	Name      string       `json:"name" bson:"name"`
	Store     string       `json:"store" bson:"store"`
	Price     float64      `json:"price" bson:"price"`
	Status    ResultStatus `json:"status" bson:"status"`
	URL       string       `json:"url" bson:"url"`
	MatchTier MatchTier    `json:"match_type,omitempty" bson:"match_type,omitempty"`
	Error     string       `json:"error,omitempty" bson:"error,omitempty"`
	QueryTerm string       `json:"query_term,omitempty" bson:"query_term,omitempty"`
}

// CachedResults is the cache document for one query term, keyed by the
// lowercased term.
type CachedResults struct {
	QueryTerm string         `json:"query_term" bson:"_id"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
	Results   []SearchResult `json:"results" bson:"results"`
}

// Fresh reports whether the entry is still within its TTL at the given
// instant. A stale entry is treated as absent, never served.
func (c *CachedResults) Fresh(now time.Time, ttl time.Duration) bool {
	if c == nil || c.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(c.UpdatedAt) <= ttl
}

// TrackedQuery is a registered search term the background scheduler keeps
// refreshed. LastUpdated is nil until the first refresh completes.
type TrackedQuery struct {
	QueryTerm   string     `json:"query" bson:"query_term"`
	LastUpdated *time.Time `json:"last_updated" bson:"last_updated"`
}

// CachedProduct is one flattened row of the bulk read: a cached result with
// its owning query term and cache timestamp attached.
type CachedProduct struct {
	QueryTerm string       `json:"query_term"`
	Name      string       `json:"name"`
	Store     string       `json:"store"`
	Price     float64      `json:"price"`
	Status    ResultStatus `json:"status"`
	URL       string       `json:"url"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// StoreOption is one candidate offer from the synchronous comparison query.
// Unlike SearchResult there is no winner collapsing; callers get the full
// accepted list.
type StoreOption struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	URL        string  `json:"url"`
	Store      string  `json:"store"`
	MatchScore int     `json:"match_score"`
}
