package domain

import "time"

type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Product is catalog reference data; it is never mutated once loaded.
type Product struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Price         float64   `json:"price" yaml:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	CategoryID    string    `json:"category" yaml:"category"`
	Image         string    `json:"image" yaml:"image"`
	InStock       bool      `json:"inStock" yaml:"inStock"`
	Quantity      int       `json:"quantity" yaml:"quantity"` // units available
	Rating        float64   `json:"rating" yaml:"rating"`
	Reviews       int       `json:"reviews" yaml:"reviews"`
	Discount      *int      `json:"discount,omitempty" yaml:"discount,omitempty"` // percent
	ReleaseDate   time.Time `json:"releaseDate" yaml:"releaseDate"`
}

// DiscountPercent returns the discount or 0 when the product has none.
func (p Product) DiscountPercent() int {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}
