package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.Catalog
}

// Home lists the catalog, filtered by ?q=, ?category= and ?inStock=1.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	data := fiber.Map{"Categories": h.Catalog.Categories(), "Category": "all"}

	q, ok := validate.Q(c.Query("q"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": c.Query("q")})
		data["Err"] = "Enter a valid keyword (letters/numbers only)"
		data["Products"], data["Count"] = nil, 0
		c.Status(fiber.StatusBadRequest)
		return render(c, "home", data)
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" && category != "all" {
		if _, ok := h.Catalog.Category(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			data["Err"] = "Invalid category"
			data["Products"], data["Count"] = nil, 0
			c.Status(fiber.StatusBadRequest)
		return render(c, "home", data)
		}
		data["Category"] = category
	}
	inStock := c.Query("inStock") == "1" || c.Query("inStock") == "true"

	products := h.Catalog.Filter(services.Query{Keyword: q, CategoryID: category, InStockOnly: inStock})
	data["Q"], data["InStock"] = q, inStock
	data["Products"], data["Count"] = products, len(products)
	return render(c, "home", data)
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "This item is no longer available")
	}
	p, ok := h.Catalog.Product(id)
	if !ok {
		return notFound(c, "This item is no longer available")
	}
	data := fiber.Map{"P": p, "Title": p.Name, "MaxQty": max(p.Quantity, 1)}
	if cat, ok := h.Catalog.Category(p.CategoryID); ok {
		data["Category"] = cat
	}
	return render(c, "product", data)
}
