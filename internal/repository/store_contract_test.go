package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// runStoreContract exercises the behaviour every backend must share
func runStoreContract(t *testing.T, store *Store) {
	t.Run("category round trip", func(t *testing.T) { testCategoryRoundTrip(t, store) })
	t.Run("categories ordered by name", func(t *testing.T) { testCategoriesOrderedByName(t, store) })
	t.Run("duplicate slug rejected", func(t *testing.T) { testDuplicateSlug(t, store) })
	t.Run("product round trip", func(t *testing.T) { testProductRoundTrip(t, store) })
	t.Run("delete product", func(t *testing.T) { testDeleteProduct(t, store) })
	t.Run("count by category", func(t *testing.T) { testCountByCategory(t, store) })
	t.Run("keyset paging visits every product once", func(t *testing.T) { testKeysetPaging(t, store) })
}

func newTestCategory(name string) *domain.Category {
	id := uuid.NewString()
	return &domain.Category{
		ID:          id,
		Name:        name,
		Slug:        "slug-" + id,
		Description: "Test category description",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func newTestProduct(categoryID, id string, createdAt time.Time) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       "Product " + id,
		Price:      decimal.RequireFromString("19.99"),
		CategoryID: categoryID,
		ImageURL:   "https://cdn.example.com/" + id + ".jpg",
		Stock:      3,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func mustUpsertCategory(t *testing.T, store *Store, c *domain.Category) {
	t.Helper()
	if err := store.Categories.Upsert(context.Background(), c); err != nil {
		t.Fatalf("Failed to upsert category: %v", err)
	}
}

func mustUpsertProduct(t *testing.T, store *Store, p *domain.Product) {
	t.Helper()
	if err := store.Products.Upsert(context.Background(), p); err != nil {
		t.Fatalf("Failed to upsert product: %v", err)
	}
}

func testCategoryRoundTrip(t *testing.T, store *Store) {
	ctx := context.Background()
	category := newTestCategory("Round Trip " + uuid.NewString())
	mustUpsertCategory(t, store, category)

	byID, err := store.Categories.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Name != category.Name || byID.Slug != category.Slug || byID.Description != category.Description {
		t.Errorf("category mismatch: %+v vs %+v", byID, category)
	}

	bySlug, err := store.Categories.FindBySlug(ctx, category.Slug)
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if bySlug.ID != category.ID {
		t.Errorf("expected %s, got %s", category.ID, bySlug.ID)
	}

	category.Name = category.Name + " renamed"
	mustUpsertCategory(t, store, category)
	updated, err := store.Categories.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("FindByID after update failed: %v", err)
	}
	if updated.Name != category.Name {
		t.Errorf("expected updated name %q, got %q", category.Name, updated.Name)
	}

	if _, err := store.Categories.FindByID(ctx, "missing-"+uuid.NewString()); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func testCategoriesOrderedByName(t *testing.T, store *Store) {
	suffix := uuid.NewString()
	for _, name := range []string{"zeta " + suffix, "alpha " + suffix, "mid " + suffix} {
		mustUpsertCategory(t, store, newTestCategory(name))
	}

	categories, err := store.Categories.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// Only the categories created here; collation of other names is backend specific
	var names []string
	for _, c := range categories {
		if strings.HasSuffix(c.Name, suffix) {
			names = append(names, strings.Fields(c.Name)[0])
		}
	}
	want := []string{"alpha", "mid", "zeta"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func testDuplicateSlug(t *testing.T, store *Store) {
	first := newTestCategory("First " + uuid.NewString())
	mustUpsertCategory(t, store, first)

	second := newTestCategory("Second " + uuid.NewString())
	second.Slug = first.Slug

	err := store.Categories.Upsert(context.Background(), second)
	if !errors.Is(err, ErrCategoryAlreadyExists) {
		t.Errorf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func testProductRoundTrip(t *testing.T, store *Store) {
	ctx := context.Background()
	category := newTestCategory("Products " + uuid.NewString())
	mustUpsertCategory(t, store, category)

	product := newTestProduct(category.ID, uuid.NewString(), time.Now().UTC().Truncate(time.Millisecond))
	product.Description = "A sturdy widget"
	mustUpsertProduct(t, store, product)

	got, err := store.Products.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if got.Name != product.Name || got.Description != product.Description || got.CategoryID != category.ID {
		t.Errorf("product mismatch: %+v vs %+v", got, product)
	}
	if !got.Price.Equal(product.Price) {
		t.Errorf("expected price %s, got %s", product.Price, got.Price)
	}
	if got.Stock != product.Stock || got.ImageURL != product.ImageURL {
		t.Errorf("stock/image mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(product.CreatedAt) {
		t.Errorf("expected createdAt %s, got %s", product.CreatedAt, got.CreatedAt)
	}
}

func testDeleteProduct(t *testing.T, store *Store) {
	ctx := context.Background()
	category := newTestCategory("Delete " + uuid.NewString())
	mustUpsertCategory(t, store, category)

	product := newTestProduct(category.ID, uuid.NewString(), time.Now().UTC().Truncate(time.Millisecond))
	mustUpsertProduct(t, store, product)

	if err := store.Products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Products.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after deletion, got %v", err)
	}
	if err := store.Products.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func testCountByCategory(t *testing.T, store *Store) {
	properties := gopter.NewProperties(nil)

	properties.Property("count equals number of products in the category", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			category := newTestCategory("Count " + uuid.NewString())
			other := newTestCategory("Other " + uuid.NewString())
			mustUpsertCategory(t, store, category)
			mustUpsertCategory(t, store, other)

			base := time.Now().UTC().Truncate(time.Millisecond)
			for i := 0; i < n; i++ {
				mustUpsertProduct(t, store, newTestProduct(category.ID, uuid.NewString(), base.Add(time.Duration(i)*time.Second)))
			}
			mustUpsertProduct(t, store, newTestProduct(other.ID, uuid.NewString(), base))

			count, err := store.Products.CountByCategory(ctx, category.ID)
			if err != nil {
				t.Logf("FAIL: count failed: %v", err)
				return false
			}
			return count == n
		},
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func testKeysetPaging(t *testing.T, store *Store) {
	properties := gopter.NewProperties(nil)

	properties.Property("following cursors yields every product once, newest first", prop.ForAll(
		func(n int, pageSize int) bool {
			ctx := context.Background()
			category := newTestCategory("Paging " + uuid.NewString())
			mustUpsertCategory(t, store, category)

			// Pairs of products share a timestamp so the id tie-break is exercised
			base := time.Now().UTC().Truncate(time.Millisecond)
			expected := make([]*domain.Product, 0, n)
			for i := 0; i < n; i++ {
				p := newTestProduct(category.ID, fmt.Sprintf("%s-%03d", category.ID[:8], i), base.Add(time.Duration(i/2)*time.Second))
				mustUpsertProduct(t, store, p)
				expected = append(expected, p)
			}
			sort.Slice(expected, func(i, j int) bool {
				if expected[i].CreatedAt.Equal(expected[j].CreatedAt) {
					return expected[i].ID > expected[j].ID
				}
				return expected[i].CreatedAt.After(expected[j].CreatedAt)
			})

			var seen []string
			var after *domain.Cursor
			for pages := 0; pages <= n+1; pages++ {
				page, err := store.Products.ListByCategory(ctx, category.ID, after, pageSize)
				if err != nil {
					t.Logf("FAIL: list failed: %v", err)
					return false
				}
				if len(page) > pageSize {
					t.Logf("FAIL: page of %d exceeds limit %d", len(page), pageSize)
					return false
				}
				for _, p := range page {
					seen = append(seen, p.ID)
				}
				if len(page) < pageSize {
					break
				}
				after = page[len(page)-1].Cursor()
			}

			if len(seen) != len(expected) {
				t.Logf("FAIL: expected %d products, saw %d", len(expected), len(seen))
				return false
			}
			for i := range expected {
				if seen[i] != expected[i].ID {
					t.Logf("FAIL: position %d expected %s, got %s", i, expected[i].ID, seen[i])
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 15),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
