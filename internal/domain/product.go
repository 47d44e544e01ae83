package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Each product belongs to exactly one category.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  string          `json:"categoryId" db:"category_id"`
	ImageURL    string          `json:"image,omitempty" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// InStock reports whether the product can currently be ordered
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Cursor returns the listing position of p
func (p *Product) Cursor() *Cursor {
	return &Cursor{ProductID: p.ID, CreatedAt: p.CreatedAt}
}
