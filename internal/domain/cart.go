package domain

import "encoding/json"

// CartItem pairs one product with a quantity. Subtotal is always Quantity * Product.Price.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// Cart holds at most one item per product id, in insertion order.
// Total and ItemCount are recomputed by every mutating method.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// MarshalJSON always writes items as an array, never null.
func (c Cart) MarshalJSON() ([]byte, error) {
	type plain Cart
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return json.Marshal(plain(c))
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the item for productID, if any.
func (c Cart) Find(productID string) (CartItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// Add merges qty units of p into the cart. Quantities below 1 count as 1.
func (c *Cart) Add(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(p.ID); i >= 0 {
		it := &c.Items[i]
		it.Quantity += qty
		it.Subtotal = float64(it.Quantity) * it.Product.Price
	} else {
		c.Items = append(c.Items, CartItem{Product: p, Quantity: qty, Subtotal: float64(qty) * p.Price})
	}
	c.recompute()
}

// Remove drops the item for productID. Unknown ids are ignored.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	}
	c.recompute()
}

// SetQuantity replaces the quantity of an existing item; qty <= 0 removes it.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		it := &c.Items[i]
		it.Quantity = qty
		it.Subtotal = float64(qty) * it.Product.Price
	}
	c.recompute()
}

func (c *Cart) Clear() {
	c.Items = nil
	c.recompute()
}

// Normalize repairs a cart decoded from storage: duplicate product ids are merged,
// non-positive quantities dropped and every derived value recomputed.
func (c *Cart) Normalize() {
	items := c.Items
	c.Items = nil
	for _, it := range items {
		if it.Quantity < 1 || it.Product.ID == "" {
			continue
		}
		if i := c.index(it.Product.ID); i >= 0 {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		c.Items = append(c.Items, CartItem{Product: it.Product, Quantity: it.Quantity})
	}
	for i := range c.Items {
		c.Items[i].Subtotal = float64(c.Items[i].Quantity) * c.Items[i].Product.Price
	}
	c.recompute()
}

// Clone returns a deep copy that shares no backing arrays with c.
func (c Cart) Clone() Cart {
	out := Cart{Total: c.Total, ItemCount: c.ItemCount}
	if len(c.Items) > 0 {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

func (c *Cart) recompute() {
	c.Total = 0
	c.ItemCount = 0
	for _, it := range c.Items {
		c.Total += it.Subtotal
		c.ItemCount += it.Quantity
	}
}
