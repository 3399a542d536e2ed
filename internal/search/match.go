// Path: internal/search/match.go
package search

import "price-hunter/internal/domain"

// Candidate is one extracted listing, scoped to a single search session.
type Candidate struct {
	Name  string
	Price float64
	URL   string
	Score int
	Tier  domain.MatchTier
}

// Classify scores a candidate title against the query's token set.
// A candidate is exact when every query token appears in the title, partial
// when the query has more than one token and all but at most one appear.
// Anything else is rejected. The returned score is the shared token count.
func Classify(query, title TokenSet) (domain.MatchTier, int, bool) {
	required := len(query)
	if required == 0 {
		return "", 0, false
	}
	shared := query.Shared(title)
	switch {
	case shared == required:
		return domain.TierExact, shared, true
	case required > 1 && shared >= required-1:
		return domain.TierPartial, shared, true
	default:
		return "", shared, false
	}
}

// SelectWinner picks the single best candidate for a store: the exact tier is
// preferred over partial, and within a tier the lowest price wins with ties
// broken by encounter order.
func SelectWinner(candidates []Candidate) (Candidate, bool) {
	var winner Candidate
	found := false
	for _, c := range candidates {
		if !found || better(c, winner) {
			winner = c
			found = true
		}
	}
	return winner, found
}

func better(a, b Candidate) bool {
	if a.Tier != b.Tier {
		return a.Tier == domain.TierExact
	}
	return a.Price < b.Price
}
