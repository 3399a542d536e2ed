// Path: internal/search/price.go
package search

import (
	"regexp"
	"strconv"
	"strings"
)

// decimalPattern extracts the first decimal-looking substring when a price
// string does not parse cleanly.
var decimalPattern = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)

// PriceRules holds the hand-tuned price heuristics. Both values are empirical,
// tied to currently observed storefront markup, and configured rather than
// hard-coded so they can be retuned per storefront.
type PriceRules struct {
	// MinPrice rejects prices at or below this floor as noise (placeholder
	// or shipping text misparsed as a price).
	MinPrice float64
	// MinorUnitThreshold marks prices above it as minor units (cents) served
	// by buggy storefront markup; they are divided by 100.
	MinorUnitThreshold float64
}

// ParsePrice strips currency symbols and thousands separators and parses the
// remainder as a decimal. Falls back to the first decimal-looking substring;
// unparseable input yields 0 (filtered later by the minimum-price floor).
func ParsePrice(text string) float64 {
	clean := strings.NewReplacer("$", "", "MXN", "", " ", "", ",", "").Replace(strings.TrimSpace(text))
	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return v
	}
	if m := decimalPattern.FindString(clean); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v
		}
	}
	return 0
}

// Adjust applies the minor-unit correction to a parsed price.
func (r PriceRules) Adjust(price float64) float64 {
	if r.MinorUnitThreshold > 0 && price > r.MinorUnitThreshold {
		return price / 100
	}
	return price
}

// Acceptable reports whether an adjusted price clears the noise floor.
func (r PriceRules) Acceptable(price float64) bool {
	return price > r.MinPrice
}
