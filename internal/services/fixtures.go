package services

import (
	"github.com/SigNoz/storefront-go-app/internal/models"
	"github.com/shopspring/decimal"
)

var fixtureCategories = []models.Category{
	{ID: "cat_electronics", Name: "Electronics", Slug: "electronics", Description: "Gadgets and audio gear", Products: 3},
	{ID: "cat_clothing", Name: "Clothing", Slug: "clothing", Description: "Everyday apparel", Products: 2},
	{ID: "cat_home", Name: "Home & Kitchen", Slug: "home-kitchen", Description: "Things for the house", Products: 2},
	{ID: "cat_accessories", Name: "Accessories", Slug: "accessories", Description: "Bags, watches and more", Products: 1},
}

type fixtureProduct struct {
	id, name, description, price, category, image string
}

var fixtureProducts = []fixtureProduct{
	{"prod_headphones", "Wireless Headphones", "Over-ear noise cancelling headphones with 30 hour battery life.", "199.99", "electronics", "https://images.unsplash.com/photo-1505740420928-5e560c06d30e"},
	{"prod_smartwatch", "Smart Watch", "Fitness tracking, notifications and a week of battery.", "249.00", "electronics", "https://images.unsplash.com/photo-1523275335684-37898b6baf30"},
	{"prod_speaker", "Portable Speaker", "Waterproof bluetooth speaker with deep bass.", "79.50", "electronics", "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1"},
	{"prod_tshirt", "Organic Cotton T-Shirt", "Soft crew neck tee made from organic cotton.", "25.00", "clothing", "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab"},
	{"prod_jacket", "Denim Jacket", "Classic fit jacket in washed indigo denim.", "89.90", "clothing", "https://images.unsplash.com/photo-1551537482-f2075a1d41f2"},
	{"prod_coffee", "Pour Over Coffee Set", "Glass dripper, carafe and reusable filter.", "45.00", "home-kitchen", "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085"},
	{"prod_knife", "Chef's Knife", "Eight inch forged stainless steel blade.", "64.99", "home-kitchen", "https://images.unsplash.com/photo-1593618998160-e34014e67546"},
	{"prod_backpack", "Canvas Backpack", "Water resistant backpack with laptop sleeve.", "59.95", "accessories", "https://images.unsplash.com/photo-1553062407-98eeb64c6a62"},
}

// fixtureCatalog builds the built-in catalog used in local mode and when the
// remote catalog cannot be fetched. Each call returns fresh slices.
func fixtureCatalog() *models.Catalog {
	bySlug := make(map[string]models.Category, len(fixtureCategories))
	for _, c := range fixtureCategories {
		bySlug[c.Slug] = c
	}

	products := make([]models.Product, 0, len(fixtureProducts))
	for i, f := range fixtureProducts {
		cat := bySlug[f.category]
		products = append(products, models.Product{
			ID:          f.id,
			Name:        f.name,
			Description: f.description,
			Price:       models.NewMoney(decimal.RequireFromString(f.price)),
			Image:       &models.Image{URL: f.image},
			Categories:  []models.CategoryRef{{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}},
			Permalink:   f.id[len("prod_"):],
			SortOrder:   i,
		})
	}

	categories := make([]models.Category, len(fixtureCategories))
	copy(categories, fixtureCategories)
	return &models.Catalog{Products: products, Categories: categories}
}
