// Package seed loads catalog fixtures from YAML and writes them to a store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a seed file
type File struct {
	Categories []CategorySeed `yaml:"categories" validate:"dive"`
	Products   []ProductSeed  `yaml:"products" validate:"dive"`
}

type CategorySeed struct {
	ID          string `yaml:"id" validate:"omitempty,max=64"`
	Name        string `yaml:"name" validate:"required,max=100"`
	Slug        string `yaml:"slug" validate:"omitempty,max=120"`
	Description string `yaml:"description"`
	Image       string `yaml:"image" validate:"omitempty,url"`
}

// ProductSeed references its category by id or slug
type ProductSeed struct {
	ID          string           `yaml:"id" validate:"omitempty,max=64"`
	Name        string           `yaml:"name" validate:"required,max=200"`
	Description string           `yaml:"description"`
	Category    string           `yaml:"category" validate:"required"`
	Price       *decimal.Decimal `yaml:"price" validate:"required"`
	Image       string           `yaml:"image" validate:"omitempty,url"`
	Stock       int              `yaml:"stock" validate:"gte=0"`
	CreatedAt   *time.Time       `yaml:"createdAt"`
}

// Catalog is a validated seed ready to be applied
type Catalog struct {
	Categories []*domain.Category
	Products   []*domain.Product
}

// Result counts what Apply wrote
type Result struct {
	Categories int
	Products   int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and builds a seed file from disk
func LoadFile(path string, now time.Time) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return Load(f, now)
}

// Load decodes a seed file and fills in defaults. Products without a
// createdAt get distinct timestamps counting back from now in file order,
// so the first listed product is the newest.
func Load(r io.Reader, now time.Time) (*Catalog, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	return file.build(now.UTC())
}

func (f File) build(now time.Time) (*Catalog, error) {
	catalog := &Catalog{}
	var errs []error

	byRef := make(map[string]string)
	slugs := make(map[string]bool)
	for _, c := range f.Categories {
		category := &domain.Category{
			ID:          c.ID,
			Name:        strings.TrimSpace(c.Name),
			Slug:        c.Slug,
			Description: c.Description,
			ImageURL:    c.Image,
			CreatedAt:   now,
		}
		if category.Slug == "" {
			category.Slug = Slugify(category.Name)
		}
		if category.Slug == "" {
			errs = append(errs, fmt.Errorf("category %q: cannot derive a slug from its name", c.Name))
			continue
		}
		if category.ID == "" {
			category.ID = category.Slug
		}

		if _, dup := byRef[category.ID]; dup {
			errs = append(errs, fmt.Errorf("category %q: duplicate id", category.ID))
			continue
		}
		if slugs[category.Slug] {
			errs = append(errs, fmt.Errorf("category %q: duplicate slug %q", category.ID, category.Slug))
			continue
		}
		slugs[category.Slug] = true
		byRef[category.ID] = category.ID
		byRef[category.Slug] = category.ID

		catalog.Categories = append(catalog.Categories, category)
	}

	productIDs := make(map[string]bool)
	for i, p := range f.Products {
		categoryID, ok := byRef[p.Category]
		if !ok {
			errs = append(errs, fmt.Errorf("product %q: unknown category %q", p.Name, p.Category))
			continue
		}
		if p.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("product %q: negative price %s", p.Name, p.Price))
			continue
		}

		product := &domain.Product{
			ID:          p.ID,
			Name:        strings.TrimSpace(p.Name),
			Description: p.Description,
			Price:       p.Price.Round(2),
			CategoryID:  categoryID,
			ImageURL:    p.Image,
			Stock:       p.Stock,
			CreatedAt:   now.Add(-time.Duration(i) * time.Second),
		}
		if p.CreatedAt != nil {
			product.CreatedAt = p.CreatedAt.UTC()
		}
		product.UpdatedAt = product.CreatedAt
		if product.ID == "" {
			product.ID = uuid.NewString()
		}

		if productIDs[product.ID] {
			errs = append(errs, fmt.Errorf("product %q: duplicate id", product.ID))
			continue
		}
		productIDs[product.ID] = true

		catalog.Products = append(catalog.Products, product)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid seed file: %w", errors.Join(errs...))
	}
	return catalog, nil
}

// Apply upserts every category and then every product into the store
func Apply(ctx context.Context, store *repository.Store, catalog *Catalog, logger *zap.Logger) (Result, error) {
	var result Result

	for _, c := range catalog.Categories {
		if err := store.Categories.Upsert(ctx, c); err != nil {
			return result, fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
		}
		result.Categories++
	}

	for _, p := range catalog.Products {
		if err := store.Products.Upsert(ctx, p); err != nil {
			return result, fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
		result.Products++
	}

	logger.Info("Seed applied",
		zap.Int("categories", result.Categories),
		zap.Int("products", result.Products),
	)
	return result, nil
}

// Slugify lowercases name and joins its letter and digit runs with hyphens
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}
