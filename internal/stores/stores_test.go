// Path: internal/stores/stores_test.go
package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	all := All()
	require.Len(t, all, 4)

	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
		assert.Contains(t, p.SearchURL, "{query}", "%s search URL needs the placeholder", p.Name)
		assert.NotEmpty(t, p.BaseURL, p.Name)
		assert.NotEmpty(t, p.Selectors.Item, p.Name)
		assert.NotEmpty(t, p.Selectors.Title, p.Name)
		assert.NotEmpty(t, p.Selectors.Link, p.Name)
		assert.NotEmpty(t, p.Selectors.Price, p.Name)
	}
	assert.Equal(t, []string{"Amazon México", "Mercado Libre", "Cyberpuerta", "DDtech"}, names)
}

func TestAllReturnsACopy(t *testing.T) {
	a := All()
	a[0].Name = "mutated"
	assert.Equal(t, "Amazon México", All()[0].Name)
}

func TestFind(t *testing.T) {
	p, ok := Find("ddtech")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "DDtech", p.Name)

	_, ok = Find("Best Buy")
	assert.False(t, ok)
}

func TestBuildSearchURL(t *testing.T) {
	p := Profile{SearchURL: "https://shop.example/s?q={query}"}

	assert.Equal(t, "https://shop.example/s?q=rtx+5070+ti", p.BuildSearchURL("rtx 5070 ti"))
	assert.Equal(t, "https://shop.example/s?q=ssd", p.BuildSearchURL("  ssd  "))
}

func TestResolveURL(t *testing.T) {
	p := Profile{BaseURL: "https://shop.example"}

	tests := []struct {
		name string
		href string
		want string
	}{
		{"absolute passes through", "https://other.example/p/1", "https://other.example/p/1"},
		{"rooted path", "/p/1", "https://shop.example/p/1"},
		{"relative path", "p/1", "https://shop.example/p/1"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ResolveURL(tt.href))
		})
	}
}
