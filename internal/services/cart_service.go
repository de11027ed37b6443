package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

// DefaultCartKey is the slot a single-session cart is saved under.
const DefaultCartKey = "cart"

var ErrEmptyCart = errors.New("cart is empty")

// SlotStore is a durable key/value slot. Load returns repos.ErrNoSlot for unknown keys.
type SlotStore interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}

// OrderLog records orders as they are placed.
type OrderLog interface {
	Create(o domain.Order) error
}

// CartService owns one cart. Every mutation recomputes the aggregates, saves the
// cart to its slot and publishes a snapshot to subscribers.
type CartService struct {
	mu     sync.Mutex
	pub    sync.Mutex // guards subscriber.seen
	key    string
	slots  SlotStore
	orders OrderLog
	now    func() time.Time

	cart   domain.Cart
	placed []domain.Order

	version int64
	subs    map[int]*subscriber
	nextSub int
}

// subscriber remembers the last version it was given so a slow publisher
// cannot hand it an older cart after a newer one.
type subscriber struct {
	fn   func(domain.Cart)
	seen int64
}

// NewCartService loads the cart saved under key. A missing or unreadable slot
// yields an empty cart.
func NewCartService(slots SlotStore, orders OrderLog, key string) *CartService {
	if key == "" {
		key = DefaultCartKey
	}
	s := &CartService{
		key:    key,
		slots:  slots,
		orders: orders,
		now:    time.Now,
		subs:   map[int]*subscriber{},
	}
	s.load()
	return s
}

func (s *CartService) load() {
	if s.slots == nil {
		return
	}
	raw, err := s.slots.Load(s.key)
	if err != nil {
		if !errors.Is(err, repos.ErrNoSlot) {
			cartLoadFallbacks.Inc()
			applog.Warn(nil, "cart.load.fail", err, map[string]any{"key": s.key})
		}
		return
	}
	var c domain.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		cartLoadFallbacks.Inc()
		applog.Warn(nil, "cart.load.corrupt", err, map[string]any{"key": s.key})
		return
	}
	c.Normalize()
	s.cart = c
}

// persist must be called with mu held. Failures are logged; the in-memory
// cart stays as mutated.
func (s *CartService) persist() {
	if s.slots == nil {
		return
	}
	raw, err := json.Marshal(s.cart)
	if err == nil {
		err = s.slots.Save(s.key, raw)
	}
	if err != nil {
		cartPersistFailures.Inc()
		applog.Error(nil, "cart.persist.fail", err, map[string]any{"key": s.key})
	}
}

func (s *CartService) mutate(op string, fn func(c *domain.Cart)) {
	s.mu.Lock()
	fn(&s.cart)
	s.persist()
	v, snap, subs := s.stamp()
	s.mu.Unlock()

	cartMutations.WithLabelValues(op).Inc()
	s.publish(v, snap, subs)
}

// stamp must be called with mu held.
func (s *CartService) stamp() (int64, domain.Cart, []*subscriber) {
	s.version++
	out := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return s.version, s.cart.Clone(), out
}

// publish skips subscribers that already saw version v or a later one.
func (s *CartService) publish(v int64, snap domain.Cart, subs []*subscriber) {
	s.pub.Lock()
	defer s.pub.Unlock()
	for _, sub := range subs {
		if v <= sub.seen {
			continue
		}
		sub.seen = v
		sub.fn(snap.Clone())
	}
}

// Add merges qty units of p into the cart (qty < 1 counts as 1).
func (s *CartService) Add(p domain.Product, qty int) {
	s.mutate("add", func(c *domain.Cart) { c.Add(p, qty) })
}

// Remove is a no-op for products not in the cart.
func (s *CartService) Remove(productID string) {
	s.mutate("remove", func(c *domain.Cart) { c.Remove(productID) })
}

// SetQuantity removes the item when qty <= 0.
func (s *CartService) SetQuantity(productID string, qty int) {
	op := "set_quantity"
	if qty <= 0 {
		op = "remove"
	}
	s.mutate(op, func(c *domain.Cart) { c.SetQuantity(productID, qty) })
}

func (s *CartService) Clear() {
	s.mutate("clear", func(c *domain.Cart) { c.Clear() })
}

func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount
}

func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total
}

// Snapshot returns a copy of the current cart.
func (s *CartService) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *CartService) Items() []domain.CartItem {
	return s.Snapshot().Items
}

// Subscribe calls fn with the current cart and then after every mutation.
// fn never sees an older cart after a newer one; a snapshot overtaken by a
// later mutation is dropped. fn runs outside the service lock and may read the
// service, but must not mutate it.
func (s *CartService) Subscribe(fn func(domain.Cart)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	sub := &subscriber{fn: fn, seen: -1}
	s.subs[id] = sub
	v, snap := s.version, s.cart.Clone()
	s.mu.Unlock()

	s.publish(v, snap, []*subscriber{sub})
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Checkout validates ci, turns the cart into a pending order and empties the cart.
// On any error the cart is left untouched.
func (s *CartService) Checkout(ci domain.CustomerInfo) (domain.Order, error) {
	ci, err := validate.Customer(ci)
	if err != nil {
		checkoutRejected.WithLabelValues("validation").Inc()
		return domain.Order{}, err
	}

	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		s.mu.Unlock()
		checkoutRejected.WithLabelValues("empty").Inc()
		return domain.Order{}, ErrEmptyCart
	}
	now := s.now()
	snap := s.cart.Clone()
	o := domain.Order{
		ID:          nextOrderID(now),
		Items:       snap.Items,
		Total:       snap.Total,
		Customer:    ci,
		Status:      domain.OrderPending,
		CreatedDate: now,
	}
	if s.orders != nil {
		if err := s.orders.Create(o); err != nil {
			s.mu.Unlock()
			checkoutRejected.WithLabelValues("store").Inc()
			return domain.Order{}, fmt.Errorf("record order: %w", err)
		}
	}
	s.placed = append(s.placed, o)
	s.cart.Clear()
	s.persist()
	v, cleared, subs := s.stamp()
	s.mu.Unlock()

	ordersPlaced.Inc()
	cartMutations.WithLabelValues("checkout").Inc()
	s.publish(v, cleared, subs)
	return copyOrder(o), nil
}

// Orders lists the orders placed through this cart, oldest first.
func (s *CartService) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.placed))
	for i, o := range s.placed {
		out[i] = copyOrder(o)
	}
	return out
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.CartItem(nil), o.Items...)
	return o
}

var (
	orderIDMu   sync.Mutex
	lastOrderID int64
)

// nextOrderID is time based and strictly increasing within the process only.
func nextOrderID(now time.Time) string {
	orderIDMu.Lock()
	defer orderIDMu.Unlock()
	id := now.UnixMilli()
	if id <= lastOrderID {
		id = lastOrderID + 1
	}
	lastOrderID = id
	return fmt.Sprintf("ORD-%d", id)
}

// CartRegistry hands out one CartService per browser session.
type CartRegistry struct {
	mu     sync.Mutex
	slots  SlotStore
	orders OrderLog
	carts  map[string]*CartService
}

func NewCartRegistry(slots SlotStore, orders OrderLog) *CartRegistry {
	return &CartRegistry{slots: slots, orders: orders, carts: map[string]*CartService{}}
}

// For returns the cart of sessionID, loading it from its slot on first use.
func (r *CartRegistry) For(sessionID string) *CartService {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.carts[sessionID]; ok {
		return s
	}
	s := NewCartService(r.slots, r.orders, DefaultCartKey+":"+sessionID)
	r.carts[sessionID] = s
	return s
}
