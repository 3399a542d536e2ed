// Path: internal/service/service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"price-hunter/internal/domain"
	"price-hunter/internal/events"
	"price-hunter/internal/search"
	"price-hunter/internal/stores"
)

// refreshTimeout bounds the detached refresh kicked off by Track.
const refreshTimeout = 5 * time.Minute

// Service is the central orchestrator: it serves live search streams,
// comparison queries and tracked-query management on top of the searcher,
// the result cache and the tracked-query registry.
type Service struct {
	searcher *search.Searcher
	cache    ResultCache
	tracked  TrackedQueryStore
	broker   *events.Broker
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewService creates the core application service.
func NewService(
	searcher *search.Searcher,
	cache ResultCache,
	tracked TrackedQueryStore,
	broker *events.Broker,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		searcher: searcher,
		cache:    cache,
		tracked:  tracked,
		broker:   broker,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// cacheKey normalizes a query term to its case-insensitive storage key.
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// SearchStream serves one live search. A fresh cache entry is replayed
// (tagged with the query term) unless the caller forces a refresh; otherwise
// every store session's events are forwarded, successes are persisted, and a
// single done event terminates the stream.
func (s *Service) SearchStream(ctx context.Context, query string, forceRefresh bool) <-chan domain.StreamEvent {
	out := make(chan domain.StreamEvent, 16)

	emit := func(ev domain.StreamEvent) {
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(out)

		emit(domain.LogEvent(fmt.Sprintf("starting search: %s", query)))

		if !forceRefresh {
			if cached := s.freshEntry(ctx, query); cached != nil {
				emit(domain.LogEvent(fmt.Sprintf("cache: %d items", len(cached.Results))))
				for _, r := range cached.Results {
					r.QueryTerm = query
					emit(domain.ResultEvent(r))
				}
				emit(domain.DoneEvent("served from cache"))
				return
			}
		}

		emit(domain.LogEvent("starting browser sessions..."))

		var successes []domain.SearchResult
		for ev := range s.searcher.Search(ctx, query) {
			if ev.Type == domain.EventDone {
				if len(successes) > 0 {
					s.persist(ctx, query, successes)
				}
				emit(ev)
				return
			}
			if ev.Type == domain.EventResult && ev.Data != nil && ev.Data.Status == domain.StatusSuccess {
				successes = append(successes, *ev.Data)
			}
			emit(ev)
		}
	}()

	return out
}

// RefreshQuery is the silent aggregation path used by the background
// scheduler and by track-time kicks: it runs the full store fan-out, persists
// successes, stamps the tracked registry and announces the refresh.
// It returns the number of successful store results.
func (s *Service) RefreshQuery(ctx context.Context, query string) (int, error) {
	s.logger.Info("refreshing query", slog.String("query", query))

	var successes []domain.SearchResult
	for ev := range s.searcher.Search(ctx, query) {
		if ev.Type == domain.EventResult && ev.Data != nil && ev.Data.Status == domain.StatusSuccess {
			successes = append(successes, *ev.Data)
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(successes) == 0 {
		s.logger.Warn("refresh found no results", slog.String("query", query))
		return 0, nil
	}

	s.persist(ctx, query, successes)
	if err := s.tracked.Touch(ctx, cacheKey(query)); err != nil {
		s.logger.Warn("failed to stamp tracked query", slog.String("query", query), slog.String("error", err.Error()))
	}
	s.broker.Publish(events.TopicTrackedRefresh, events.RefreshNotice{
		QueryTerm: cacheKey(query),
		Results:   len(successes),
		UpdatedAt: time.Now().UTC(),
	})
	return len(successes), nil
}

// StoreOptions serves the synchronous comparison query against one store.
func (s *Service) StoreOptions(ctx context.Context, query, storeName string, limit int) ([]domain.StoreOption, error) {
	if cacheKey(query) == "" {
		return nil, domain.ErrInvalidQuery
	}
	profile, ok := stores.Find(storeName)
	if !ok {
		return nil, domain.ErrUnknownStore
	}
	return s.searcher.CollectOptions(ctx, profile, query, limit)
}

// Track registers a query for background refresh and kicks an immediate
// refresh so the cache warms up without waiting for the next scheduler round.
func (s *Service) Track(ctx context.Context, query string) error {
	term := cacheKey(query)
	if term == "" {
		return domain.ErrInvalidQuery
	}
	if err := s.tracked.Upsert(ctx, term); err != nil {
		s.logger.Error("failed to register tracked query", slog.String("query", term), slog.String("error", err.Error()))
		return domain.ErrStorageUnavailable
	}

	go func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if _, err := s.RefreshQuery(refreshCtx, term); err != nil {
			s.logger.Warn("immediate refresh failed", slog.String("query", term), slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Untrack removes a query from the registry. The cache entry is deliberately
// left in place; it ages out through the TTL.
func (s *Service) Untrack(ctx context.Context, query string) error {
	term := cacheKey(query)
	if term == "" {
		return domain.ErrInvalidQuery
	}
	if err := s.tracked.Remove(ctx, term); err != nil {
		s.logger.Error("failed to unregister tracked query", slog.String("query", term), slog.String("error", err.Error()))
		return domain.ErrStorageUnavailable
	}
	return nil
}

// TrackedQueries lists the registry deduplicated by term, keeping the oldest
// last-updated timestamp per duplicate group so any stale owner forces a
// refresh. Registry failures degrade to an empty list.
func (s *Service) TrackedQueries(ctx context.Context) []domain.TrackedQuery {
	raw, err := s.tracked.List(ctx)
	if err != nil {
		s.logger.Warn("tracked registry unavailable", slog.String("error", err.Error()))
		return nil
	}
	return dedupeTracked(raw)
}

// AllCachedProducts is the bulk read: every cached result across all queries,
// flattened with the owning query term and cache timestamp.
func (s *Service) AllCachedProducts(ctx context.Context) []domain.CachedProduct {
	entries, err := s.cache.All(ctx)
	if err != nil {
		s.logger.Warn("cache unavailable", slog.String("error", err.Error()))
		return nil
	}

	var rows []domain.CachedProduct
	for _, entry := range entries {
		for _, r := range entry.Results {
			rows = append(rows, domain.CachedProduct{
				QueryTerm: entry.QueryTerm,
				Name:      r.Name,
				Store:     r.Store,
				Price:     r.Price,
				Status:    r.Status,
				URL:       r.URL,
				UpdatedAt: entry.UpdatedAt,
			})
		}
	}
	return rows
}

// freshEntry reads the cache and applies the TTL. Backend failures and stale
// entries both degrade to a miss.
func (s *Service) freshEntry(ctx context.Context, query string) *domain.CachedResults {
	entry, err := s.cache.Get(ctx, cacheKey(query))
	if err != nil {
		s.logger.Warn("cache read failed", slog.String("query", query), slog.String("error", err.Error()))
		return nil
	}
	if !entry.Fresh(time.Now(), s.cacheTTL) {
		return nil
	}
	return entry
}

// persist writes aggregated successes to the cache. Write failures are
// logged and dropped; the stream already delivered the results.
func (s *Service) persist(ctx context.Context, query string, results []domain.SearchResult) {
	if err := s.cache.Put(ctx, cacheKey(query), results); err != nil {
		s.logger.Warn("cache write failed", slog.String("query", query), slog.String("error", err.Error()))
	}
}

// dedupeTracked collapses duplicate registrations of the same term, keeping
// first-encounter order and the oldest timestamp per group. A record without
// a timestamp counts as oldest since it has never been refreshed.
func dedupeTracked(raw []domain.TrackedQuery) []domain.TrackedQuery {
	index := make(map[string]int, len(raw))
	var out []domain.TrackedQuery
	for _, tq := range raw {
		term := cacheKey(tq.QueryTerm)
		if term == "" {
			continue
		}
		tq.QueryTerm = term
		i, seen := index[term]
		if !seen {
			index[term] = len(out)
			out = append(out, tq)
			continue
		}
		if out[i].LastUpdated == nil {
			continue
		}
		if tq.LastUpdated == nil || tq.LastUpdated.Before(*out[i].LastUpdated) {
			out[i].LastUpdated = tq.LastUpdated
		}
	}
	return out
}
