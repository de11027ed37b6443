package services

import (
	"strings"

	"storefront/internal/domain"
)

// CatalogSource is what Catalog needs to load itself once.
type CatalogSource interface {
	Categories() ([]domain.Category, error)
	Products() ([]domain.Product, error)
}

// Catalog is the read-only product list. Every query is a pure function of the
// data loaded at construction; returned slices are copies.
type Catalog struct {
	products   []domain.Product
	categories []domain.Category
	byID       map[string]int
}

type Query struct {
	Keyword     string
	CategoryID  string
	InStockOnly bool
}

func NewCatalog(cats []domain.Category, prods []domain.Product) *Catalog {
	c := &Catalog{
		products:   append([]domain.Product(nil), prods...),
		categories: append([]domain.Category(nil), cats...),
		byID:       make(map[string]int, len(prods)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

func LoadCatalog(src CatalogSource) (*Catalog, error) {
	cats, err := src.Categories()
	if err != nil {
		return nil, err
	}
	prods, err := src.Products()
	if err != nil {
		return nil, err
	}
	return NewCatalog(cats, prods), nil
}

func (c *Catalog) Products() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

func (c *Catalog) Categories() []domain.Category {
	return append([]domain.Category(nil), c.categories...)
}

// Product reports false when id is unknown.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Category(id string) (domain.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}

// Search matches keyword case-insensitively against name and description.
// A blank keyword matches everything.
func (c *Catalog) Search(keyword string) []domain.Product {
	return matchKeyword(c.products, keyword)
}

// ByCategory filters by category id; "" and "all" match everything.
func (c *Catalog) ByCategory(id string) []domain.Product {
	return matchCategory(c.products, id)
}

// Discounted lists products discounted by 20% or more.
func (c *Catalog) Discounted() []domain.Product {
	var out []domain.Product
	for _, p := range c.products {
		if p.DiscountPercent() >= 20 {
			out = append(out, p)
		}
	}
	return out
}

// Filter applies category, keyword and stock filters in that order.
func (c *Catalog) Filter(q Query) []domain.Product {
	out := matchCategory(c.products, q.CategoryID)
	out = matchKeyword(out, q.Keyword)
	if q.InStockOnly {
		out = InStock(out)
	}
	return out
}

func InStock(prods []domain.Product) []domain.Product {
	var out []domain.Product
	for _, p := range prods {
		if p.InStock {
			out = append(out, p)
		}
	}
	return out
}

func matchKeyword(prods []domain.Product, keyword string) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(keyword))
	if term == "" {
		return append([]domain.Product(nil), prods...)
	}
	var out []domain.Product
	for _, p := range prods {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

func matchCategory(prods []domain.Product, id string) []domain.Product {
	if id == "" || id == "all" {
		return append([]domain.Product(nil), prods...)
	}
	var out []domain.Product
	for _, p := range prods {
		if p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out
}
