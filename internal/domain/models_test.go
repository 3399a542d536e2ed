// Path: internal/domain/models_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCachedResultsFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just written", 0, true},
		{"just inside the ttl", 23*time.Hour + 59*time.Minute, true},
		{"exactly at the ttl", 24 * time.Hour, true},
		{"just past the ttl", 24*time.Hour + time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CachedResults{UpdatedAt: now.Add(-tt.age)}
			assert.Equal(t, tt.want, entry.Fresh(now, ttl))
		})
	}

	t.Run("nil entry is stale", func(t *testing.T) {
		var entry *CachedResults
		assert.False(t, entry.Fresh(now, ttl))
	})

	t.Run("zero timestamp is stale", func(t *testing.T) {
		assert.False(t, (&CachedResults{}).Fresh(now, ttl))
	})
}
