package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLoadFile_FillsDefaults(t *testing.T) {
	catalog, err := LoadFile("testdata/catalog.yaml", now)
	require.NoError(t, err)
	require.Len(t, catalog.Categories, 3)
	require.Len(t, catalog.Products, 3)

	electronics := catalog.Categories[0]
	assert.Equal(t, "electronics", electronics.Slug)
	assert.Equal(t, "electronics", electronics.ID, "category id defaults to the slug")

	garden := catalog.Categories[1]
	assert.Equal(t, "garden", garden.Slug)
	assert.Equal(t, "garden", garden.ID)

	phone, charger, shovel := catalog.Products[0], catalog.Products[1], catalog.Products[2]
	assert.Equal(t, "phone-1", phone.ID)
	assert.True(t, phone.Price.Equal(decimal.RequireFromString("499.50")))
	assert.NotEmpty(t, charger.ID, "product id defaults to a uuid")
	assert.Equal(t, 0, charger.Stock)

	assert.Equal(t, "garden", shovel.CategoryID, "slug references resolve to the category id")
	assert.True(t, shovel.CreatedAt.Equal(time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)))

	// File order is newest first
	assert.True(t, phone.CreatedAt.After(charger.CreatedAt))
}

func TestLoad_EmptyFile(t *testing.T) {
	catalog, err := Load(strings.NewReader(""), now)
	require.NoError(t, err)
	assert.Empty(t, catalog.Categories)
	assert.Empty(t, catalog.Products)
}

func TestLoad_RejectsInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"unknown category": `
categories: [{name: Books}]
products: [{name: Phone, category: phones, price: "1.00"}]`,
		"missing price": `
categories: [{name: Books}]
products: [{name: Atlas, category: books}]`,
		"negative price": `
categories: [{name: Books}]
products: [{name: Atlas, category: books, price: "-1"}]`,
		"negative stock": `
categories: [{name: Books}]
products: [{name: Atlas, category: books, price: "1", stock: -2}]`,
		"missing category name": `
categories: [{slug: books}]`,
		"duplicate slug": `
categories: [{name: Books}, {name: books}]`,
		"duplicate product id": `
categories: [{name: Books}]
products:
  - {id: a, name: Atlas, category: books, price: "1"}
  - {id: a, name: Almanac, category: books, price: "2"}`,
		"unknown field": `
categories: [{name: Books, colour: red}]`,
		"malformed price": `
categories: [{name: Books}]
products: [{name: Atlas, category: books, price: cheap}]`,
		"name without slug characters": `
categories: [{name: "!!!"}]`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc), now)
			assert.Error(t, err)
		})
	}
}

func TestProperty_DefaultTimestampsAreDistinctAndDescending(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("products without createdAt are ordered newest first", prop.ForAll(
		func(n int) bool {
			var doc strings.Builder
			doc.WriteString("categories: [{name: Books}]\nproducts:\n")
			for i := 0; i < n; i++ {
				doc.WriteString("  - {name: Book, category: books, price: \"1\"}\n")
			}

			catalog, err := Load(strings.NewReader(doc.String()), now)
			if err != nil || len(catalog.Products) != n {
				return false
			}
			for i := 1; i < n; i++ {
				if !catalog.Products[i-1].CreatedAt.After(catalog.Products[i].CreatedAt) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Electronics":         "electronics",
		"Home & Garden":       "home-garden",
		"  Kids' Toys 2024  ": "kids-toys-2024",
		"USB-C Chargers":      "usb-c-chargers",
		"***":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestApply_WritesCatalog(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	catalog, err := LoadFile("testdata/catalog.yaml", now)
	require.NoError(t, err)

	result, err := Apply(ctx, store, catalog, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 3, Products: 3}, result)

	count, err := store.Products.CountByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	category, err := store.Categories.FindBySlug(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, "Home & Garden", category.Name)

	// Applying the same catalog again updates in place
	_, err = Apply(ctx, store, catalog, zap.NewNop())
	require.NoError(t, err)
	count, err = store.Products.CountByCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
