package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

var orderFlow = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderShipped,
	OrderShipped:   OrderDelivered,
}

// CanAdvanceTo reports whether next is the step directly after s.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	n, ok := orderFlow[s]
	return ok && n == next
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// Order is a snapshot of a cart taken at checkout. Items never alias a live cart.
type Order struct {
	ID          string       `json:"id"`
	Items       []CartItem   `json:"items"`
	Total       float64      `json:"total"`
	Customer    CustomerInfo `json:"customer"`
	Status      OrderStatus  `json:"status"`
	CreatedDate time.Time    `json:"createdDate"`
}
