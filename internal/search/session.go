// Path: internal/search/session.go
package search

import (
	"context"
	"fmt"
	"strings"

	"price-hunter/internal/browser"
	"price-hunter/internal/domain"
	"price-hunter/internal/stores"
)

// searchStore runs one store session for one query and emits its event
// sequence: zero or more log events followed by exactly one terminal result.
// The browser session and the gate slot are released on every exit path.
func (s *Searcher) searchStore(ctx context.Context, store stores.Profile, query string, emit func(domain.StreamEvent)) {
	searchURL := store.BuildSearchURL(query)
	result := domain.SearchResult{
		Name:      query,
		Store:     store.Name,
		Status:    domain.StatusError,
		URL:       searchURL,
		QueryTerm: query,
	}
	finish := func() { emit(domain.ResultEvent(result)) }

	if err := s.gate.Acquire(ctx, 1); err != nil {
		result.Error = err.Error()
		finish()
		return
	}
	defer s.gate.Release(1)

	sess, err := s.driver.NewSession(ctx)
	if err != nil {
		result.Error = err.Error()
		finish()
		return
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, searchURL); err != nil {
		emit(domain.LogEvent(fmt.Sprintf("%s: navigation failed: %v", store.Name, err)))
		result.Error = err.Error()
		finish()
		return
	}

	if marker := store.Selectors.NoResults; marker != "" {
		if visible, err := sess.Visible(marker); err == nil && visible {
			result.Status = domain.StatusNotFound
			finish()
			return
		}
	}

	itemSelector := ResolveCascade(sess, store.Selectors.Item)
	if itemSelector == "" || !AwaitSelector(ctx, sess, itemSelector, s.opts.SelectorWait) {
		result.Status = domain.StatusNotFound
		finish()
		return
	}

	items, err := sess.Elements(itemSelector, s.opts.LiveItemLimit)
	if err != nil {
		result.Error = err.Error()
		finish()
		return
	}
	emit(domain.LogEvent(fmt.Sprintf("%s: raw items located in DOM: %d", store.Name, len(items))))

	queryTokens := Tokens(query)
	emit(domain.LogEvent(fmt.Sprintf("%s: matching against tokens %v", store.Name, queryTokens.List())))

	var candidates []Candidate
	for i, item := range items {
		cand, ok := s.extractCandidate(item, store, queryTokens, func(msg string) {
			emit(domain.LogEvent(fmt.Sprintf("%s: item %d %s", store.Name, i, msg)))
		})
		if !ok {
			continue
		}
		candidates = append(candidates, cand)
		label := "partial"
		if cand.Tier == domain.TierExact {
			label = "exact"
		}
		emit(domain.LogEvent(fmt.Sprintf("%s: %s candidate $%.2f - %s", store.Name, label, cand.Price, truncate(cand.Name, 40))))
	}

	winner, ok := SelectWinner(candidates)
	if !ok {
		result.Status = domain.StatusNotFound
		finish()
		return
	}

	result.Status = domain.StatusSuccess
	result.Name = winner.Name
	result.Price = winner.Price
	result.URL = winner.URL
	result.MatchTier = winner.Tier
	finish()
}

// extractCandidate pulls title, price and link from one listing element and
// classifies it against the query tokens. A listing without a resolvable
// title is skipped, not an error; prices are adjusted and floor-filtered by
// the configured rules.
func (s *Searcher) extractCandidate(item browser.Element, store stores.Profile, queryTokens TokenSet, logf func(string)) (Candidate, bool) {
	title := firstText(item, store.Selectors.Title)
	if strings.TrimSpace(title) == "" {
		logf("has no detectable title, skipping")
		return Candidate{}, false
	}

	tier, score, ok := Classify(queryTokens, Tokens(title))
	if !ok {
		logf(fmt.Sprintf("discarded %q (%d/%d tokens)", truncate(title, 30), score, len(queryTokens)))
		return Candidate{}, false
	}

	price := s.opts.Price.Adjust(ParsePrice(firstText(item, store.Selectors.Price)))
	if !s.opts.Price.Acceptable(price) {
		logf(fmt.Sprintf("price %.2f below noise floor, skipping", price))
		return Candidate{}, false
	}

	href := firstAttr(item, store.Selectors.Link, "href")
	return Candidate{
		Name:  strings.TrimSpace(title),
		Price: price,
		URL:   store.ResolveURL(href),
		Score: score,
		Tier:  tier,
	}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
