package domain

import "time"

// Category represents a product category.
// ProductCount is derived on every read and never stored.
type Category struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Description  string    `json:"description,omitempty" db:"description"`
	ImageURL     string    `json:"image,omitempty" db:"image_url"`
	ProductCount int       `json:"productCount" db:"-"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}
