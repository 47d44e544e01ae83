package repository

import (
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var documentValidator = validator.New(validator.WithRequiredStructEnabled())

// categoryDocument is the stored shape of a category in the document store
type categoryDocument struct {
	ID          string    `bson:"_id" validate:"required"`
	Name        string    `bson:"name" validate:"required"`
	Slug        string    `bson:"slug" validate:"required"`
	Description string    `bson:"description,omitempty"`
	ImageURL    string    `bson:"imageUrl,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// productDocument is the stored shape of a product. Price is kept raw because
// documents written by other tools may hold it as a string, double or decimal.
type productDocument struct {
	ID          string        `bson:"_id" validate:"required"`
	Name        string        `bson:"name" validate:"required"`
	Description string        `bson:"description,omitempty"`
	Price       bson.RawValue `bson:"price"`
	CategoryID  string        `bson:"categoryId" validate:"required"`
	ImageURL    string        `bson:"imageUrl,omitempty"`
	Stock       int           `bson:"stock" validate:"gte=0"`
	CreatedAt   time.Time     `bson:"createdAt" validate:"required"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func newCategoryDocument(c *domain.Category) categoryDocument {
	return categoryDocument{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
	}
}

func (d categoryDocument) toDomain() (*domain.Category, error) {
	if err := documentValidator.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: category %q: %v", ErrInvalidDocument, d.ID, err)
	}

	return &domain.Category{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
	}, nil
}

// productWriteDocument mirrors productDocument with a typed price for writes
type productWriteDocument struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description,omitempty"`
	Price       bson.Decimal128 `bson:"price"`
	CategoryID  string          `bson:"categoryId"`
	ImageURL    string          `bson:"imageUrl,omitempty"`
	Stock       int             `bson:"stock"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

func newProductDocument(p *domain.Product) (productWriteDocument, error) {
	price, err := bson.ParseDecimal128(p.Price.String())
	if err != nil {
		return productWriteDocument{}, fmt.Errorf("failed to encode price %s: %w", p.Price, err)
	}

	return productWriteDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d productDocument) toDomain() (*domain.Product, error) {
	if err := documentValidator.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidDocument, d.ID, err)
	}

	price, err := decodePrice(d.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidDocument, d.ID, err)
	}

	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		CategoryID:  d.CategoryID,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// decodePrice accepts the numeric encodings a price may have been stored with
func decodePrice(raw bson.RawValue) (decimal.Decimal, error) {
	var price decimal.Decimal

	switch raw.Type {
	case bson.TypeDecimal128:
		parsed, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad decimal price: %w", err)
		}
		price = parsed
	case bson.TypeString:
		parsed, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad string price: %w", err)
		}
		price = parsed
	case bson.TypeDouble:
		price = decimal.NewFromFloat(raw.Double())
	case bson.TypeInt32:
		price = decimal.NewFromInt32(raw.Int32())
	case bson.TypeInt64:
		price = decimal.NewFromInt(raw.Int64())
	default:
		return decimal.Zero, fmt.Errorf("missing or non-numeric price (bson type %s)", raw.Type)
	}

	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}
