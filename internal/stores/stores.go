// Path: internal/stores/stores.go
package stores

import (
	"net/url"
	"strings"
)

// Cascade is an ordered list of alternative selector expressions for one
// semantic role. Entries are tried in order; the first that matches anything
// wins for the rest of the session.
type Cascade []string

// Selectors groups the cascades a store needs to locate listings and their
// fields. NoResults is an optional marker shown on empty result pages.
type Selectors struct {
	Item      Cascade
	Title     Cascade
	Link      Cascade
	Price     Cascade
	NoResults string
}

// Profile is the static configuration of one supported storefront. The
// registry is hand-curated and not editable at runtime.
type Profile struct {
	Name      string
	SearchURL string // contains a {query} placeholder
	BaseURL   string
	Selectors Selectors
}

// BuildSearchURL substitutes the query into the store's search URL template.
func (p Profile) BuildSearchURL(query string) string {
	q := strings.ReplaceAll(strings.TrimSpace(query), " ", "+")
	return strings.ReplaceAll(p.SearchURL, "{query}", q)
}

// ResolveURL turns a possibly relative listing href into an absolute URL
// against the store's base origin.
func (p Profile) ResolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// registry lists the supported storefronts. Cascades carry old and redesigned
// markup variants so a storefront redesign without a URL change keeps working.
var registry = []Profile{
	{
		Name:      "Amazon México",
		SearchURL: "https://www.amazon.com.mx/s?k={query}",
		BaseURL:   "https://www.amazon.com.mx",
		Selectors: Selectors{
			Item: Cascade{
				"div[data-component-type='s-search-result']",
				"div.s-result-item[data-uuid]",
				"div[data-asin]:not([data-asin=''])",
			},
			Title: Cascade{
				"h2 a span",
				"span.a-size-medium",
				"span.a-text-normal",
				"h2 span",
				"[data-cy='title-recipe'] h2 span",
				"[data-cy='title-recipe'] h2",
				"h2.a-text-normal",
			},
			Link: Cascade{
				"h2 a",
				"a.a-link-normal.s-underline-text",
				"a.a-link-normal",
			},
			Price: Cascade{
				".a-price .a-offscreen",
				"span.a-price span.a-offscreen",
				".a-price",
			},
		},
	},
	{
		Name:      "Mercado Libre",
		SearchURL: "https://listado.mercadolibre.com.mx/{query}",
		BaseURL:   "https://www.mercadolibre.com.mx",
		Selectors: Selectors{
			// Covers both the legacy layout and the redesigned "poly" cards.
			Item:  Cascade{"div.ui-search-result__wrapper", "li.ui-search-layout__item", "div.poly-card"},
			Title: Cascade{".ui-search-item__title", ".poly-component__title"},
			Link:  Cascade{"a.ui-search-link", "a.poly-component__title"},
			Price: Cascade{
				".ui-search-price__part .andes-money-amount__fraction",
				".poly-price__current .andes-money-amount__fraction",
				".andes-money-amount__fraction",
			},
		},
	},
	{
		Name:      "Cyberpuerta",
		SearchURL: "https://www.cyberpuerta.mx/index.php?cl=search&searchparam={query}",
		BaseURL:   "https://www.cyberpuerta.mx",
		Selectors: Selectors{
			Item:      Cascade{"div.emproduct"},
			Title:     Cascade{"a.emproduct_right_title"},
			Link:      Cascade{"a.emproduct_right_title"},
			Price:     Cascade{"label.price"},
			NoResults: ".oxwidget_headernotice_noproduct",
		},
	},
	{
		Name:      "DDtech",
		SearchURL: "https://ddtech.mx/buscar/{query}",
		BaseURL:   "https://ddtech.mx",
		Selectors: Selectors{
			Item:      Cascade{"div.product"},
			Title:     Cascade{"h3 a"},
			Link:      Cascade{"h3 a"},
			Price:     Cascade{".product-price"},
			NoResults: "p.without-results",
		},
	},
}

// All returns the configured store profiles in configuration order.
func All() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// Find looks up a profile by name, case-insensitively.
func Find(name string) (Profile, bool) {
	for _, p := range registry {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{}, false
}
