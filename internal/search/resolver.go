// Path: internal/search/resolver.go
package search

import (
	"context"
	"strings"
	"time"

	"price-hunter/internal/browser"
	"price-hunter/internal/stores"
)

// selectorPollInterval is how often AwaitSelector re-checks the page.
const selectorPollInterval = 250 * time.Millisecond

// ResolveCascade evaluates the cascade in listed order and commits to the
// first selector that currently matches anything on the page. When none
// match it falls back to the first-listed selector; absence is detected
// downstream by zero extracted items, never by failing the search here.
func ResolveCascade(sess browser.Session, cascade stores.Cascade) string {
	if len(cascade) == 0 {
		return ""
	}
	for _, sel := range cascade {
		if n, err := sess.Count(sel); err == nil && n > 0 {
			return sel
		}
	}
	return cascade[0]
}

// AwaitSelector polls until the selector matches at least one element or the
// bounded wait elapses.
func AwaitSelector(ctx context.Context, sess browser.Session, selector string, wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(selectorPollInterval)
	defer ticker.Stop()

	for {
		if n, err := sess.Count(selector); err == nil && n > 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// firstText resolves a field cascade on one listing element: the first
// selector yielding non-empty text wins.
func firstText(el browser.Element, cascade stores.Cascade) string {
	for _, sel := range cascade {
		if text, err := el.Text(sel); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// firstAttr resolves a field cascade to the named attribute of the first
// matching descendant.
func firstAttr(el browser.Element, cascade stores.Cascade, name string) string {
	for _, sel := range cascade {
		if v, err := el.Attribute(sel, name); err == nil && v != "" {
			return v
		}
	}
	return ""
}
