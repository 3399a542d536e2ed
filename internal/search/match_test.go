// Path: internal/search/match_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"price-hunter/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		title    string
		wantTier domain.MatchTier
		wantOK   bool
	}{
		{"all tokens present", "rtx 5070 ti", "MSI RTX 5070 Ti Gaming 16GB", domain.TierExact, true},
		{"fused tokens still exact", "rtx 5070 ti", "msi rtx5070ti ventus", domain.TierExact, true},
		{"one token missing", "rtx 5070 ti", "MSI RTX 5070 Gaming", domain.TierPartial, true},
		{"two tokens missing", "rtx 5070 ti 16gb", "RTX 5070", "", false},
		{"single-token query has no partial tier", "ssd", "HDD 2TB", "", false},
		{"single-token query exact", "ssd", "Kingston SSD 1TB", domain.TierExact, true},
		{"empty query rejects everything", "", "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, _, ok := Classify(Tokens(tt.query), Tokens(tt.title))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantTier, tier)
			}
		})
	}
}

func TestSelectWinner(t *testing.T) {
	t.Run("exact beats cheaper partial", func(t *testing.T) {
		winner, ok := SelectWinner([]Candidate{
			{Name: "partial cheap", Price: 5000, Tier: domain.TierPartial},
			{Name: "exact expensive", Price: 9000, Tier: domain.TierExact},
		})
		assert.True(t, ok)
		assert.Equal(t, "exact expensive", winner.Name)
	})

	t.Run("cheapest wins within a tier", func(t *testing.T) {
		winner, ok := SelectWinner([]Candidate{
			{Name: "a", Price: 9000, Tier: domain.TierExact},
			{Name: "b", Price: 7500, Tier: domain.TierExact},
			{Name: "c", Price: 8000, Tier: domain.TierExact},
		})
		assert.True(t, ok)
		assert.Equal(t, "b", winner.Name)
	})

	t.Run("price ties keep encounter order", func(t *testing.T) {
		winner, ok := SelectWinner([]Candidate{
			{Name: "first", Price: 7500, Tier: domain.TierExact},
			{Name: "second", Price: 7500, Tier: domain.TierExact},
		})
		assert.True(t, ok)
		assert.Equal(t, "first", winner.Name)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := SelectWinner(nil)
		assert.False(t, ok)
	})
}
