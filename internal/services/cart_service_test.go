package services_test

import (
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// memSlots is an in-memory SlotStore that can be told to fail saves.
type memSlots struct {
	mu      sync.Mutex
	data    map[string][]byte
	failing bool
	saves   int
}

func newMemSlots() *memSlots { return &memSlots{data: map[string][]byte{}} }

func (m *memSlots) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repos.ErrNoSlot
	}
	return v, nil
}

func (m *memSlots) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failing {
		return errors.New("disk full")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func product(id string, price float64) domain.Product {
	return domain.Product{ID: id, Name: "Product " + id, Price: price, InStock: true, Quantity: 10}
}

func goodCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "5551234567",
		Address: "1 Analytical Way", City: "London", State: "LDN", ZipCode: "12345",
	}
}

func TestCart_AddMergesByProductID(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	p := product("1", 10)

	svc.Add(p, 2)
	svc.Add(p, 3)

	c := svc.Snapshot()
	if len(c.Items) != 1 {
		t.Fatalf("want 1 line, got %s", spew.Sdump(c.Items))
	}
	if c.Items[0].Quantity != 5 || c.Items[0].Subtotal != 50 {
		t.Fatalf("bad merged line: %+v", c.Items[0])
	}
	if svc.ItemCount() != 5 || svc.Total() != 50 {
		t.Fatalf("aggregates = %d / %v", svc.ItemCount(), svc.Total())
	}
}

func TestCart_SetQuantityZeroRemoves(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	svc.Add(product("1", 10), 1)
	svc.Add(product("2", 5), 4)

	svc.SetQuantity("1", 0)

	items := svc.Items()
	if len(items) != 1 || items[0].Product.ID != "2" {
		t.Fatalf("want only product 2, got %s", spew.Sdump(items))
	}
	if svc.Total() != 20 || svc.ItemCount() != 4 {
		t.Fatalf("aggregates = %d / %v", svc.ItemCount(), svc.Total())
	}

	svc.SetQuantity("404", 3)
	svc.Remove("404")
	if svc.ItemCount() != 4 {
		t.Fatal("unknown ids must not change the cart")
	}
}

func TestCart_RandomMutationsKeepAggregates(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	rng := rand.New(rand.NewSource(7))
	prods := []domain.Product{product("a", 1.25), product("b", 9.99), product("c", 100), product("d", 0.5)}

	for i := 0; i < 500; i++ {
		p := prods[rng.Intn(len(prods))]
		switch rng.Intn(4) {
		case 0:
			svc.Add(p, rng.Intn(4))
		case 1:
			svc.Remove(p.ID)
		case 2:
			svc.SetQuantity(p.ID, rng.Intn(6)-1)
		default:
			if rng.Intn(20) == 0 {
				svc.Clear()
			}
		}

		c := svc.Snapshot()
		count, seen := 0, map[string]bool{}
		for _, it := range c.Items {
			if seen[it.Product.ID] {
				t.Fatalf("duplicate line for %s", it.Product.ID)
			}
			seen[it.Product.ID] = true
			if it.Quantity < 1 {
				t.Fatalf("line with quantity %d", it.Quantity)
			}
			count += it.Quantity
		}
		if count != c.ItemCount {
			t.Fatalf("itemCount %d, sum of quantities %d", c.ItemCount, count)
		}
	}
}

func TestCart_CheckoutSnapshotsAndEmpties(t *testing.T) {
	db := memdb(t)
	orders := repos.NewOrderRepo(db)
	slots := repos.NewSlotRepo(db)
	svc := services.NewCartService(slots, orders, "")
	svc.Add(product("1", 199.99), 1)
	svc.Add(product("4", 49.99), 2)
	before := svc.Snapshot()

	o, err := svc.Checkout(goodCustomer())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(o.ID, "ORD-") || o.Status != domain.OrderPending {
		t.Fatalf("bad order header: %+v", o)
	}
	if len(o.Items) != len(before.Items) || o.Total != before.Total {
		t.Fatalf("order does not match cart:\n%s", spew.Sdump(o, before))
	}
	if svc.ItemCount() != 0 || svc.Total() != 0 || len(svc.Items()) != 0 {
		t.Fatal("cart should be empty after checkout")
	}

	stored, err := orders.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Total != o.Total || len(stored.Items) != 2 {
		t.Fatalf("stored order mismatch: %+v", stored)
	}

	// the emptied cart is what a restart sees
	reloaded := services.NewCartService(slots, orders, "")
	if reloaded.ItemCount() != 0 {
		t.Fatal("reloaded cart should be empty")
	}

	placed := svc.Orders()
	if len(placed) != 1 || placed[0].ID != o.ID {
		t.Fatalf("orders = %+v", placed)
	}
	placed[0].Items[0].Quantity = 99
	if svc.Orders()[0].Items[0].Quantity == 99 {
		t.Fatal("Orders must return copies")
	}
}

func TestCart_InvalidCheckoutLeavesCartAlone(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	svc.Add(product("1", 10), 2)

	ci := goodCustomer()
	ci.Email = ""
	_, err := svc.Checkout(ci)

	var verr *validate.ValidationError
	if !errors.As(err, &verr) || !verr.Has("email") {
		t.Fatalf("want email validation error, got %v", err)
	}
	if svc.ItemCount() != 2 || len(svc.Orders()) != 0 {
		t.Fatal("cart changed on failed checkout")
	}
}

func TestCart_CheckoutEmptyCart(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	if _, err := svc.Checkout(goodCustomer()); !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestCart_OrderIDsIncrease(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	var last int64
	for i := 0; i < 5; i++ {
		svc.Add(product("1", 1), 1)
		o, err := svc.Checkout(goodCustomer())
		if err != nil {
			t.Fatal(err)
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(o.ID, "ORD-"), 10, 64)
		if err != nil {
			t.Fatalf("bad id %q", o.ID)
		}
		if n <= last {
			t.Fatalf("id %d not after %d", n, last)
		}
		last = n
	}
}

func TestCart_ReloadRestoresSameCart(t *testing.T) {
	slots := repos.NewSlotRepo(memdb(t))
	disc := 33
	orig := 299.99
	p := product("1", 199.99)
	p.OriginalPrice, p.Discount = &orig, &disc

	first := services.NewCartService(slots, nil, "")
	first.Add(p, 2)
	first.Add(product("6", 34.99), 1)

	second := services.NewCartService(slots, nil, "")
	if got, want := second.Snapshot(), first.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded cart differs:\n%s\nwant:\n%s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestCart_SaveFailureKeepsMutation(t *testing.T) {
	slots := newMemSlots()
	slots.failing = true
	svc := services.NewCartService(slots, nil, "")

	svc.Add(product("1", 10), 1)

	if svc.ItemCount() != 1 {
		t.Fatal("mutation should survive a failed save")
	}
	if slots.saves != 1 {
		t.Fatalf("saves = %d", slots.saves)
	}
}

func TestCart_CorruptSlotStartsEmpty(t *testing.T) {
	slots := newMemSlots()
	slots.data[services.DefaultCartKey] = []byte("{not json")

	svc := services.NewCartService(slots, nil, "")
	if svc.ItemCount() != 0 || len(svc.Items()) != 0 {
		t.Fatal("corrupt slot should give an empty cart")
	}
}

func TestCart_LoadRepairsStoredCart(t *testing.T) {
	slots := newMemSlots()
	slots.data[services.DefaultCartKey] = []byte(`{"items":[
	  {"product":{"id":"1","price":2},"quantity":1,"subtotal":999},
	  {"product":{"id":"1","price":2},"quantity":2},
	  {"product":{"id":"2","price":5},"quantity":0}
	],"total":1,"itemCount":1}`)

	c := services.NewCartService(slots, nil, "").Snapshot()
	if len(c.Items) != 1 || c.ItemCount != 3 || c.Total != 6 || c.Items[0].Subtotal != 6 {
		t.Fatalf("cart not repaired: %s", spew.Sdump(c))
	}
}

func TestCart_Subscribe(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	var got []domain.Cart
	cancel := svc.Subscribe(func(c domain.Cart) { got = append(got, c) })

	svc.Add(product("1", 3), 2)
	svc.Add(product("1", 3), 1)
	cancel()
	svc.Clear()

	if len(got) != 3 {
		t.Fatalf("want initial + 2 snapshots, got %d", len(got))
	}
	if got[0].ItemCount != 0 || got[1].ItemCount != 2 || got[2].ItemCount != 3 {
		t.Fatalf("snapshots: %s", spew.Sdump(got))
	}

	got[1].Items[0].Quantity = 42
	if got[2].Items[0].Quantity != 3 {
		t.Fatal("subscribers must get independent snapshots")
	}
}

func TestCart_SubscribeNeverGoesBackwards(t *testing.T) {
	svc := services.NewCartService(newMemSlots(), nil, "")
	var (
		mu   sync.Mutex
		last = -1
		bad  []int
	)
	svc.Subscribe(func(c domain.Cart) {
		mu.Lock()
		defer mu.Unlock()
		if c.ItemCount <= last {
			bad = append(bad, c.ItemCount)
		}
		last = c.ItemCount
	})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				svc.Add(product("1", 1), 1)
			}
		}()
	}
	wg.Wait()

	if len(bad) > 0 {
		t.Fatalf("stale snapshots delivered after newer ones: %v", bad)
	}
	if last != 400 {
		t.Fatalf("latest snapshot not delivered, last count=%d", last)
	}
}

func TestCartRegistry_SessionsAreIsolated(t *testing.T) {
	slots := newMemSlots()
	reg := services.NewCartRegistry(slots, nil)

	reg.For("alice").Add(product("1", 10), 1)
	reg.For("bob").Add(product("2", 10), 3)

	if reg.For("alice").ItemCount() != 1 || reg.For("bob").ItemCount() != 3 {
		t.Fatal("carts leaked between sessions")
	}
	if reg.For("alice") != reg.For("alice") {
		t.Fatal("same session should reuse its cart")
	}
	if _, ok := slots.data["cart:alice"]; !ok {
		t.Fatalf("slot keys = %v", keys(slots.data))
	}

	fresh := services.NewCartRegistry(slots, nil)
	if fresh.For("bob").ItemCount() != 3 {
		t.Fatal("new registry should load the saved session cart")
	}
}

func keys(m map[string][]byte) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
