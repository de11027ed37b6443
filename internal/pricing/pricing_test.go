package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func TestPricing_LiteralExamples(t *testing.T) {
	assert.Equal(t, 8.00, Tax(80))
	assert.Equal(t, 15.0, Shipping(80))
	assert.Equal(t, 103.00, FinalTotal(80))

	assert.Equal(t, 15.00, Tax(150))
	assert.Equal(t, 0.0, Shipping(150))
	assert.Equal(t, 165.00, FinalTotal(150))
}

func TestShipping_BoundaryIsExclusive(t *testing.T) {
	assert.Equal(t, 15.0, Shipping(100))
	assert.Equal(t, 0.0, Shipping(100.01))
	assert.Equal(t, 15.0, Shipping(0))
}

func TestTax_RoundsToCents(t *testing.T) {
	assert.Equal(t, 2.00, Tax(19.99))
	assert.Equal(t, 0.13, Tax(1.25))
}

func TestSummarize(t *testing.T) {
	var c domain.Cart
	c.Add(domain.Product{ID: "1", Price: 40}, 2)
	s := Summarize(c)
	assert.Equal(t, Summary{Subtotal: 80, Tax: 8, Shipping: 15, Total: 103}, s)

	var empty domain.Cart
	assert.Equal(t, Summary{Shipping: 15, Total: 15}, Summarize(empty))
}
