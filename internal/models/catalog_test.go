package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return &Catalog{
		Products: []Product{
			{ID: "p1", Name: "Wireless Headphones", Price: price("199.99"), Categories: []CategoryRef{{Slug: "electronics"}}},
			{ID: "p2", Name: "cotton T-Shirt", Price: price("29.99"), Categories: []CategoryRef{{Slug: "clothing"}}},
			{ID: "p3", Name: "Smart Watch", Price: price("299.00"), Categories: []CategoryRef{{Slug: "electronics"}}},
		},
	}
}

func TestCatalog_Find(t *testing.T) {
	c := testCatalog()
	p, ok := c.Find("p2")
	assert.True(t, ok)
	assert.Equal(t, "cotton T-Shirt", p.Name)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCatalog_Filter(t *testing.T) {
	c := testCatalog()

	t.Run("default sorts by name", func(t *testing.T) {
		got := c.Filter(CatalogQuery{})
		assert.Equal(t, []string{"p2", "p3", "p1"}, ids(got))
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		got := c.Filter(CatalogQuery{Search: "WATCH"})
		assert.Equal(t, []string{"p3"}, ids(got))
	})

	t.Run("category filter", func(t *testing.T) {
		got := c.Filter(CatalogQuery{Category: "electronics", Sort: SortByPriceHigh})
		assert.Equal(t, []string{"p3", "p1"}, ids(got))
	})

	t.Run("all categories", func(t *testing.T) {
		got := c.Filter(CatalogQuery{Category: "all", Sort: SortByPriceLow})
		assert.Equal(t, []string{"p2", "p1", "p3"}, ids(got))
	})

	t.Run("snapshot untouched", func(t *testing.T) {
		c.Filter(CatalogQuery{Sort: SortByPriceHigh})
		assert.Equal(t, []string{"p1", "p2", "p3"}, ids(c.Products))
	})
}

func TestCatalog_Related(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"p1", "p3"}, ids(c.Related("p2", 4)))
	assert.Equal(t, []string{"p2"}, ids(c.Related("p1", 1)))
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
