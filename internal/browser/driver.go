// Path: internal/browser/driver.go
package browser

import "context"

// Driver opens browser sessions. The search engine depends only on this
// abstraction; the rod implementation lives in rod.go and tests substitute
// a fake.
type Driver interface {
	// NewSession opens a fresh, isolated browser page configured for
	// scraping (randomized user agent, fixed locale/timezone, resource
	// blocking). The session is bound to ctx.
	NewSession(ctx context.Context) (Session, error)
	Close() error
}

// Session is one live browser page.
type Session interface {
	// Navigate loads the URL with a bounded timeout.
	Navigate(ctx context.Context, url string) error
	// Count returns how many elements currently match the selector.
	Count(selector string) (int, error)
	// Elements returns up to limit elements matching the selector.
	Elements(selector string, limit int) ([]Element, error)
	// Visible reports whether the first element matching the selector
	// exists and is visible.
	Visible(selector string) (bool, error)
	Close() error
}

// Element is one matched page element. Lookups are scoped to its subtree.
type Element interface {
	// Text returns the inner text of the first descendant matching the
	// selector, or "" when nothing matches.
	Text(selector string) (string, error)
	// Attribute returns the named attribute of the first descendant
	// matching the selector, or "" when nothing matches or the attribute
	// is absent.
	Attribute(selector, name string) (string, error)
}
