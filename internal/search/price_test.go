// Path: internal/search/price_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain decimal", "12345.00", 12345},
		{"currency and separators", "$12,345.00 MXN", 12345},
		{"fraction only", "12,999", 12999},
		{"embedded text falls back to first decimal", "Precio: 1499.50 c/u", 1499.50},
		{"no digits", "Agotado", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePrice(tt.input), 0.001)
		})
	}
}

func TestPriceRulesAdjust(t *testing.T) {
	rules := PriceRules{MinPrice: 50, MinorUnitThreshold: 500000}

	t.Run("minor-unit prices are corrected", func(t *testing.T) {
		assert.InDelta(t, 12345.67, rules.Adjust(1234567.00), 0.001)
	})

	t.Run("prices at the threshold pass through", func(t *testing.T) {
		assert.InDelta(t, 500000.0, rules.Adjust(500000.0), 0.001)
	})

	t.Run("normal prices pass through", func(t *testing.T) {
		assert.InDelta(t, 12345.0, rules.Adjust(12345.0), 0.001)
	})

	t.Run("disabled threshold never corrects", func(t *testing.T) {
		assert.InDelta(t, 1234567.0, PriceRules{}.Adjust(1234567.0), 0.001)
	})
}

func TestPriceRulesAcceptable(t *testing.T) {
	rules := PriceRules{MinPrice: 50}

	assert.False(t, rules.Acceptable(10), "below the floor is noise")
	assert.False(t, rules.Acceptable(50), "the floor itself is exclusive")
	assert.True(t, rules.Acceptable(50.01))
	assert.False(t, rules.Acceptable(0), "unparseable prices arrive as zero")
}
