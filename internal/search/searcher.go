// Path: internal/search/searcher.go
package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"price-hunter/internal/browser"
	"price-hunter/internal/config"
	"price-hunter/internal/domain"
	"price-hunter/internal/stores"
)

// Options are the engine knobs, derived from configuration.
type Options struct {
	LiveItemLimit    int
	CompareItemLimit int
	SelectorWait     time.Duration
	Price            PriceRules
}

// OptionsFromConfig maps the viper search section onto engine options.
func OptionsFromConfig(cfg config.SearchConfig) Options {
	return Options{
		LiveItemLimit:    cfg.LiveItemLimit,
		CompareItemLimit: cfg.CompareItemLimit,
		SelectorWait:     time.Duration(cfg.SelectorWaitSecs) * time.Second,
		Price: PriceRules{
			MinPrice:           cfg.MinPrice,
			MinorUnitThreshold: cfg.MinorUnitThreshold,
		},
	}
}

// Searcher fans a query out across the configured stores. The gate bounds
// simultaneous browser sessions process-wide; it is constructed once at
// startup and shared with the background scheduler.
type Searcher struct {
	driver browser.Driver
	gate   *semaphore.Weighted
	stores []stores.Profile
	opts   Options
}

// NewSearcher wires the engine together.
func NewSearcher(driver browser.Driver, gate *semaphore.Weighted, profiles []stores.Profile, opts Options) *Searcher {
	return &Searcher{
		driver: driver,
		gate:   gate,
		stores: profiles,
		opts:   opts,
	}
}

// Search runs one session per configured store and multiplexes their event
// sequences onto the returned channel. Store fan-out follows configuration
// order but sessions complete in whatever order the gate admits them; the
// channel closes after the final done event.
func (s *Searcher) Search(ctx context.Context, query string) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent, 16)

	emit := func(ev domain.StreamEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)

		var wg sync.WaitGroup
		for _, store := range s.stores {
			wg.Add(1)
			go func(p stores.Profile) {
				defer wg.Done()
				s.searchStore(ctx, p, query, emit)
			}(store)
		}
		wg.Wait()
		emit(domain.DoneEvent("search complete"))
	}()

	return events
}

// CollectOptions is the synchronous comparison query for a single store:
// every accepted candidate is returned (no winner collapsing), sorted by
// price ascending then match score descending, de-duplicated by (title, URL)
// and capped at limit.
func (s *Searcher) CollectOptions(ctx context.Context, store stores.Profile, query string, limit int) ([]domain.StoreOption, error) {
	if limit <= 0 || limit > s.opts.CompareItemLimit {
		limit = s.opts.CompareItemLimit
	}

	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)

	sess, err := s.driver.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, store.BuildSearchURL(query)); err != nil {
		return nil, err
	}

	if marker := store.Selectors.NoResults; marker != "" {
		if visible, err := sess.Visible(marker); err == nil && visible {
			return nil, nil
		}
	}

	itemSelector := ResolveCascade(sess, store.Selectors.Item)
	if itemSelector == "" || !AwaitSelector(ctx, sess, itemSelector, s.opts.SelectorWait) {
		return nil, nil
	}

	items, err := sess.Elements(itemSelector, s.opts.CompareItemLimit)
	if err != nil {
		return nil, err
	}

	queryTokens := Tokens(query)
	var options []domain.StoreOption
	for _, item := range items {
		cand, ok := s.extractCandidate(item, store, queryTokens, func(string) {})
		if !ok {
			continue
		}
		options = append(options, domain.StoreOption{
			Name:       cand.Name,
			Price:      cand.Price,
			URL:        cand.URL,
			Store:      store.Name,
			MatchScore: cand.Score,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Price != options[j].Price {
			return options[i].Price < options[j].Price
		}
		return options[i].MatchScore > options[j].MatchScore
	})

	seen := make(map[[2]string]struct{}, len(options))
	deduped := options[:0]
	for _, opt := range options {
		key := [2]string{opt.Name, opt.URL}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, opt)
		if len(deduped) == limit {
			break
		}
	}
	return deduped, nil
}
