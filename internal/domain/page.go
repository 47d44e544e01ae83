package domain

import "time"

// Cursor is the position of a previously seen product in the
// createdAt DESC, id DESC listing order.
type Cursor struct {
	ProductID string
	CreatedAt time.Time
}

// Precedes reports whether p is listed strictly after the cursor position
func (c *Cursor) Precedes(p *Product) bool {
	if p.CreatedAt.Equal(c.CreatedAt) {
		return p.ID < c.ProductID
	}
	return p.CreatedAt.Before(c.CreatedAt)
}

// ProductPage is one page of a category listing
type ProductPage struct {
	Products []*Product
	HasMore  bool
	// CursorReset is set when the requested cursor could not be resolved
	// and the listing restarted from the first page.
	CursorReset bool
}

// LastProductID returns the cursor for the next page, or "" for an empty page
func (p *ProductPage) LastProductID() string {
	if len(p.Products) == 0 {
		return ""
	}
	return p.Products[len(p.Products)-1].ID
}
