package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this slug already exists")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidDocument       = errors.New("invalid document")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// List returns every category ordered by name ascending
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, category *domain.Category) error
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// ListByCategory returns at most limit products of the category ordered by
	// created_at DESC, id DESC, starting strictly after the cursor when one is given
	ListByCategory(ctx context.Context, categoryID string, after *domain.Cursor, limit int) ([]*domain.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Upsert(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend
type Store struct {
	Categories CategoryRepository
	Products   ProductRepository
	ping       func(ctx context.Context) error
	close      func(ctx context.Context) error
}

// Ping checks that the backing store is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the connections of a store opened with OpenStore
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
