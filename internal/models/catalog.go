package models

import (
	"sort"
	"strings"
)

// Sort orders accepted by Catalog.Filter
const (
	SortByName      = "name"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
)

// Catalog is an immutable snapshot of products and categories
type Catalog struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// CatalogQuery filters and orders a product listing
type CatalogQuery struct {
	Search   string
	Category string
	Sort     string
}

// Find returns the product with the given id
func (c *Catalog) Find(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Filter returns a new slice of matching products; the snapshot is not reordered
func (c *Catalog) Filter(q CatalogQuery) []Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Product, 0, len(c.Products))
	for _, p := range c.Products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if q.Category != "" && q.Category != "all" && !p.InCategory(q.Category) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortByPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.Raw.LessThan(out[j].Price.Raw) })
	case SortByPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.Raw.GreaterThan(out[j].Price.Raw) })
	case SortByName, "":
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	}
	return out
}

// Related returns up to n products other than id, in catalog order
func (c *Catalog) Related(id string, n int) []Product {
	out := make([]Product, 0, n)
	for _, p := range c.Products {
		if len(out) == n {
			break
		}
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
