package seeders

import (
	"context"
	"time"

	"github.com/shashiranjanraj/unistore/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

type demoProduct struct {
	name     string
	price    float64
	quantity int
	tags     []string
	featured bool
	variants []models.Variant
}

var demoCatalog = []struct {
	category models.Category
	products []demoProduct
}{
	{
		category: models.Category{Name: "Apparel", Slug: "apparel", Description: "University hoodies, tees and caps.", SortOrder: 1},
		products: []demoProduct{
			{name: "Classic Hoodie", price: 1199, quantity: 40, tags: []string{"hoodie", "winter"}, featured: true, variants: []models.Variant{
				{Type: "size", Value: "S"}, {Type: "size", Value: "M"}, {Type: "size", Value: "L"},
				{Type: "size", Value: "XL", Price: 100},
			}},
			{name: "Campus Tee", price: 449, quantity: 120, tags: []string{"tee"}, variants: []models.Variant{
				{Type: "size", Value: "M"}, {Type: "size", Value: "L"},
				{Type: "color", Value: "navy"}, {Type: "color", Value: "maroon", Price: 30},
			}},
			{name: "Baseball Cap", price: 349, quantity: 60, tags: []string{"cap", "summer"}},
		},
	},
	{
		category: models.Category{Name: "Stationery", Slug: "stationery", Description: "Notebooks, pens and lab books.", SortOrder: 2},
		products: []demoProduct{
			{name: "Ruled Notebook", price: 120, quantity: 300, tags: []string{"notebook"}},
			{name: "Lab Record Book", price: 180, quantity: 150, tags: []string{"notebook", "lab"}},
			{name: "Gel Pen Pack", price: 90, quantity: 500, tags: []string{"pen"}},
		},
	},
	{
		category: models.Category{Name: "Souvenirs", Slug: "souvenirs", Description: "Mugs, stickers and keepsakes.", SortOrder: 3},
		products: []demoProduct{
			{name: "Crest Mug", price: 299, quantity: 80, tags: []string{"mug"}, featured: true},
			{name: "Sticker Sheet", price: 60, quantity: 400, tags: []string{"sticker"}},
		},
	},
}

// SeedCatalog inserts the demo categories and their products. Categories
// whose slug already exists are left alone together with their products.
func SeedCatalog(ctx context.Context, r Repos) error {
	existing, err := r.Categories.List(ctx, true)
	if err != nil {
		return err
	}
	seeded := map[string]bool{}
	for _, c := range existing {
		seeded[c.Slug] = true
	}

	now := time.Now().UTC()
	for _, group := range demoCatalog {
		if seeded[group.category.Slug] {
			continue
		}
		c := group.category
		c.IsActive = true
		c.CreatedAt, c.UpdatedAt = now, now
		if err := r.Categories.Create(ctx, &c); err != nil {
			return err
		}

		for _, d := range group.products {
			p := models.Product{
				Name:       d.name,
				Price:      d.price,
				Category:   c.ID,
				Images:     []string{},
				Tags:       d.tags,
				Variants:   d.variants,
				Quantity:   d.quantity,
				IsActive:   true,
				IsFeatured: d.featured,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if p.Variants == nil {
				p.Variants = []models.Variant{}
			}
			if err := r.Products.Create(ctx, &p); err != nil {
				return err
			}
		}
	}
	return nil
}
