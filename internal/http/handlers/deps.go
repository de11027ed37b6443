package handlers

import (
	"storefront/internal/dashboard"
	"storefront/internal/services"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	APIHandler     *APIHandler
}

func NewDeps(catalog *services.Catalog, carts *services.CartRegistry, orders *services.OrderService) *Deps {
	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalog},
		CartHandler:    &CartHandler{Catalog: catalog, Carts: carts},
		OrderHandler:   &OrderHandler{Carts: carts, Orders: orders},
		APIHandler:     &APIHandler{Catalog: catalog, Carts: carts, Orders: orders},
	}
}

func NewDashboardHandler(boards *dashboard.Registry) *DashboardHandler {
	return &DashboardHandler{Boards: boards}
}
