// Path: internal/search/normalize.go
package search

import (
	"regexp"
	"sort"
	"strings"
)

// Compiled once; Normalize runs on every query and every extracted title.
var (
	digitLetterBoundary = regexp.MustCompile(`([0-9])([a-z])`)
	letterDigitBoundary = regexp.MustCompile(`([a-z])([0-9])`)
	nonAlphanumeric     = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Normalize turns free-form text into a comparable form: lowercase, digit and
// letter runs split apart ("rtx5070ti" -> "rtx 5070 ti"), punctuation replaced
// by spaces, whitespace collapsed. Pure and total; empty input yields "".
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = digitLetterBoundary.ReplaceAllString(t, "$1 $2")
	t = letterDigitBoundary.ReplaceAllString(t, "$1 $2")
	t = nonAlphanumeric.ReplaceAllString(t, " ")
	return strings.Join(strings.Fields(t), " ")
}

// TokenSet is the set of words of a normalized piece of text.
type TokenSet map[string]struct{}

// Tokens normalizes text and splits it into its token set.
func Tokens(text string) TokenSet {
	fields := strings.Fields(Normalize(text))
	set := make(TokenSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// List returns the tokens in sorted order, for stable log output.
func (s TokenSet) List() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Shared counts the tokens present in both sets.
func (s TokenSet) Shared(other TokenSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			n++
		}
	}
	return n
}
