package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDataUnavailable wraps every store failure; callers map it to a 500
	ErrDataUnavailable = errors.New("catalog data unavailable")
	// ErrCursorNotFound is returned under CursorMissReject when the cursor product is gone
	ErrCursorNotFound  = errors.New("cursor product not found")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// CursorMissPolicy decides what a page request does when its cursor product
// no longer exists or belongs to another category
type CursorMissPolicy string

const (
	CursorMissRestart CursorMissPolicy = "restart"
	CursorMissReject  CursorMissPolicy = "reject"
	CursorMissEmpty   CursorMissPolicy = "empty"
)

// ParseCursorMissPolicy validates a configured policy name
func ParseCursorMissPolicy(s string) (CursorMissPolicy, error) {
	switch p := CursorMissPolicy(s); p {
	case CursorMissRestart, CursorMissReject, CursorMissEmpty:
		return p, nil
	case "":
		return CursorMissRestart, nil
	default:
		return "", fmt.Errorf("unknown cursor miss policy %q", s)
	}
}

// CatalogOptions tunes the catalog service
type CatalogOptions struct {
	MaxPageSize      int
	CursorMissPolicy CursorMissPolicy
	// CountConcurrency bounds the parallel per-category count queries
	CountConcurrency int
}

// CatalogService defines the read operations of the storefront catalog
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	// GetCategoryByID returns nil without error when the category does not exist
	GetCategoryByID(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	// GetProductByID returns nil without error when the product does not exist
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID string, pageSize int, cursorProductID string) (*domain.ProductPage, error)
}

type catalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	opts       CatalogOptions
	logger     *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	opts CatalogOptions,
	logger *zap.Logger,
) CatalogService {
	if opts.CountConcurrency < 1 {
		opts.CountConcurrency = 1
	}
	if opts.CursorMissPolicy == "" {
		opts.CursorMissPolicy = CursorMissRestart
	}

	return &catalogService{
		categories: categories,
		products:   products,
		opts:       opts,
		logger:     logger,
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, op, err)
}

// ListCategories returns every category with its live product count.
// One count query per category; the category set is small.
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, unavailable("list categories", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.CountConcurrency)

	for _, category := range categories {
		g.Go(func() error {
			count, err := s.products.CountByCategory(gctx, category.ID)
			if err != nil {
				return fmt.Errorf("count products of %s: %w", category.ID, err)
			}
			category.ProductCount = count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, unavailable("count products", err)
	}

	return categories, nil
}

// GetCategoryByID retrieves a category with its product count
func (s *catalogService) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	return s.withCount(ctx, category, err)
}

// GetCategoryBySlug retrieves a category by URL slug with its product count
func (s *catalogService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	return s.withCount(ctx, category, err)
}

func (s *catalogService) withCount(ctx context.Context, category *domain.Category, err error) (*domain.Category, error) {
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, unavailable("find category", err)
	}

	count, err := s.products.CountByCategory(ctx, category.ID)
	if err != nil {
		return nil, unavailable("count products", err)
	}
	category.ProductCount = count

	return category, nil
}

// GetProductByID retrieves a single product
func (s *catalogService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, unavailable("find product", err)
	}
	return product, nil
}

// GetProductsByCategory returns one page of a category's products, newest first.
// It over-fetches a single sentinel row to decide HasMore without counting.
func (s *catalogService) GetProductsByCategory(ctx context.Context, categoryID string, pageSize int, cursorProductID string) (*domain.ProductPage, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	if s.opts.MaxPageSize > 0 && pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}

	page := &domain.ProductPage{Products: []*domain.Product{}}

	var after *domain.Cursor
	if cursorProductID != "" {
		cursor, err := s.resolveCursor(ctx, categoryID, cursorProductID)
		if err != nil {
			return nil, err
		}

		if cursor == nil {
			s.logger.Info("Pagination cursor not found",
				zap.String("category_id", categoryID),
				zap.String("cursor_product_id", cursorProductID),
				zap.String("policy", string(s.opts.CursorMissPolicy)),
			)

			switch s.opts.CursorMissPolicy {
			case CursorMissReject:
				return nil, ErrCursorNotFound
			case CursorMissEmpty:
				return page, nil
			default:
				page.CursorReset = true
			}
		}
		after = cursor
	}

	products, err := s.products.ListByCategory(ctx, categoryID, after, pageSize+1)
	if err != nil {
		return nil, unavailable("list products", err)
	}

	if len(products) > pageSize {
		page.HasMore = true
		products = products[:pageSize]
	}
	page.Products = products

	return page, nil
}

// resolveCursor returns nil when the cursor product is missing or belongs to another category
func (s *catalogService) resolveCursor(ctx context.Context, categoryID, productID string) (*domain.Cursor, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, unavailable("resolve cursor", err)
	}

	if product.CategoryID != categoryID {
		return nil, nil
	}

	return product.Cursor(), nil
}
