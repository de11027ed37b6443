package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/web"
)

type storeApp struct {
	app    *fiber.App
	orders *repos.OrderRepo
	carts  *services.CartRegistry
	deps   *handlers.Deps
	svc    *services.OrderService
}

// newStoreApp wires the storefront the way main does, minus the limiters.
// Extra products are appended to the seeded catalog.
func newStoreApp(t *testing.T, keyHash string, extra ...domain.Product) *storeApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	seeded, err := services.LoadCatalog(repos.NewCatalogRepo(db))
	if err != nil {
		t.Fatal(err)
	}
	catalog := services.NewCatalog(seeded.Categories(), append(seeded.Products(), extra...))

	orderRepo := repos.NewOrderRepo(db)
	carts := services.NewCartRegistry(repos.NewSlotRepo(db), orderRepo)
	orders := services.NewOrderService(orderRepo, keyHash)
	deps := handlers.NewDeps(catalog, carts, orders)

	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler, BodyLimit: 1 << 20})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}))
	app.Use(handlers.CSRFLocals)
	app.Use(handlers.CartBadge(carts))

	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/product/:id", deps.CatalogHandler.Detail)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/checkout", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)

	api := app.Group("/api/v1")
	api.Get("/products", deps.APIHandler.Products)
	api.Get("/products/:id", deps.APIHandler.Product)
	api.Get("/categories", deps.APIHandler.Categories)
	api.Get("/cart", deps.APIHandler.Cart)
	api.Post("/cart/items", deps.APIHandler.AddItem)
	api.Put("/cart/items/:id", deps.APIHandler.SetItem)
	api.Delete("/cart/items/:id", deps.APIHandler.RemoveItem)
	api.Delete("/cart", deps.APIHandler.ClearCart)
	api.Post("/checkout", deps.APIHandler.Checkout)
	api.Get("/orders/:id", deps.APIHandler.Order)
	api.Post("/orders/:id/status", handlers.RequireFulfillmentKey(orders), deps.APIHandler.AdvanceStatus)

	return &storeApp{app: app, orders: orderRepo, carts: carts, deps: deps, svc: orders}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// browser keeps the csrf and session cookies between requests.
type browser struct {
	t    *testing.T
	app  *fiber.App
	csrf string
	sid  string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	b := &browser{t: t, app: app, csrf: extractCookie(resp, "csrf_")}
	if b.csrf == "" {
		t.Fatal("csrf token missing")
	}
	return b
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: b.csrf})
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: b.sid})
	}
	resp, err := b.app.Test(req)
	if err != nil {
		b.t.Fatal(err)
	}
	if sid := extractCookie(resp, "sid"); sid != "" {
		b.sid = sid
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest("GET", path, nil))
}

func (b *browser) post(path string, form url.Values) *http.Response {
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.csrf)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) json(method, path string, body any) *http.Response {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			b.t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func checkoutForm() url.Values {
	return url.Values{
		"firstName": {"Ada"}, "lastName": {"Lovelace"}, "email": {"ada@example.com"},
		"phone": {"5551234567"}, "address": {"12 Analytical Way"}, "city": {"London"},
		"state": {"LN"}, "zipCode": {"10001"},
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf lockedBuf
	applog.SetOutput(&buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

func formRequest(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(raw)
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }
