// Package pricing derives the checkout figures shown to the shopper from a cart total.
// The policy is fixed: 10% tax, flat 15 shipping at or below 100, free above.
package pricing

import (
	"math"

	"storefront/internal/domain"
)

const (
	TaxRate           = 0.10
	FlatShipping      = 15.0
	FreeShippingAbove = 100.0
)

type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Tax(total float64) float64 {
	return Round2(total * TaxRate)
}

func Shipping(total float64) float64 {
	if total > FreeShippingAbove {
		return 0
	}
	return FlatShipping
}

func FinalTotal(total float64) float64 {
	return Round2(total + Tax(total) + Shipping(total))
}

func Summarize(c domain.Cart) Summary {
	return Summary{
		Subtotal: Round2(c.Total),
		Tax:      Tax(c.Total),
		Shipping: Shipping(c.Total),
		Total:    FinalTotal(c.Total),
	}
}
