package repository

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/domain"
)

// memoryCatalog keeps categories and products in process; used for local
// development without a database and in tests
type memoryCatalog struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
	products   map[string]*domain.Product
}

type memoryCategoryRepository struct{ *memoryCatalog }

type memoryProductRepository struct{ *memoryCatalog }

// NewMemoryStore creates an empty in-memory Store
func NewMemoryStore() *Store {
	catalog := &memoryCatalog{
		categories: make(map[string]*domain.Category),
		products:   make(map[string]*domain.Product),
	}

	return &Store{
		Categories: memoryCategoryRepository{catalog},
		Products:   memoryProductRepository{catalog},
	}
}

func (r memoryCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		copied := *c
		categories = append(categories, &copied)
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name == categories[j].Name {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

func (r memoryCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

func (r memoryCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r memoryCategoryRepository) Upsert(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.categories {
		if id != category.ID && c.Slug == category.Slug {
			return ErrCategoryAlreadyExists
		}
	}

	copied := *category
	copied.ProductCount = 0
	r.categories[category.ID] = &copied
	return nil
}

func (r memoryProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r memoryProductRepository) ListByCategory(ctx context.Context, categoryID string, after *domain.Cursor, limit int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := []*domain.Product{}
	for _, p := range r.products {
		if p.CategoryID != categoryID {
			continue
		}
		if after != nil && !after.Precedes(p) {
			continue
		}
		copied := *p
		matching = append(matching, &copied)
	}

	sort.Slice(matching, func(i, j int) bool {
		if matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
			return matching[i].ID > matching[j].ID
		}
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	if limit >= 0 && len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

func (r memoryProductRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r memoryProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r memoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
