package services

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrFulfillmentDisabled = errors.New("fulfillment is disabled")
	ErrBadFulfillmentKey   = errors.New("bad fulfillment key")
)

// OrderStore reads and advances recorded orders.
type OrderStore interface {
	Get(id string) (domain.Order, error)
	UpdateStatus(id string, from, to domain.OrderStatus) (bool, error)
}

// OrderService looks up placed orders and moves them through fulfillment.
type OrderService struct {
	Orders  OrderStore
	keyHash []byte
}

// NewOrderService takes the bcrypt hash of the fulfillment key. An empty hash
// turns status changes off.
func NewOrderService(orders OrderStore, keyHash string) *OrderService {
	return &OrderService{Orders: orders, keyHash: []byte(keyHash)}
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrOrderNotFound
	}
	return o, err
}

// Authorize checks a presented fulfillment key against the configured hash.
func (s *OrderService) Authorize(key string) error {
	if len(s.keyHash) == 0 {
		return ErrFulfillmentDisabled
	}
	if key == "" || bcrypt.CompareHashAndPassword(s.keyHash, []byte(key)) != nil {
		return ErrBadFulfillmentKey
	}
	return nil
}

// Advance moves order id to status to, which must be the next step of its lifecycle.
func (s *OrderService) Advance(id string, to domain.OrderStatus) (domain.Order, error) {
	o, err := s.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanAdvanceTo(to) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	ok, err := s.Orders.UpdateStatus(id, o.Status, to)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		// someone else moved it first
		return domain.Order{}, fmt.Errorf("%w: %s is no longer %s", ErrInvalidTransition, id, o.Status)
	}
	orderTransitions.WithLabelValues(string(to)).Inc()
	o.Status = to
	return o, nil
}
