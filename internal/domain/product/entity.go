// internal/domain/product/entity.go
package product

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrNotFound  = errors.New("product: not found")
	ErrInvalidID = errors.New("product: invalid id")
)

// DefaultPageSize is the listing page size used by the storefront.
const DefaultPageSize = 12

// Product is a read-only catalog entry (owned by the remote catalog).
type Product struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand,omitempty"`
	Category           string   `json:"category,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	Images             []string `json:"images,omitempty"`
}

// HasDiscount reports whether a discount badge should be shown.
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage > 0
}

// OriginalPrice is the strike-through price: round(price * (1 + discount/100)).
func (p Product) OriginalPrice() float64 {
	if !p.HasDiscount() {
		return p.Price
	}
	return math.Round(p.Price * (1 + p.DiscountPercentage/100))
}

// Category identifies a catalog category.
// Slug is what the catalog API filters by; Name is for display.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Label returns Name, falling back to Slug.
func (c Category) Label() string {
	if n := strings.TrimSpace(c.Name); n != "" {
		return n
	}
	return strings.TrimSpace(c.Slug)
}

// Page is a limit/skip window over a product listing.
type Page struct {
	Limit int
	Skip  int
}

// PageFor returns the window for a 1-based page number.
func PageFor(page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	return Page{Limit: size, Skip: (page - 1) * size}
}

// PageResult is one fetched listing window.
type PageResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
