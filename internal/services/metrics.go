package services

import "github.com/prometheus/client_golang/prometheus"

var (
	cartMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})

	cartPersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cart",
		Name:      "persist_failures_total",
		Help:      "Cart saves that failed after the in-memory mutation was applied.",
	})

	cartLoadFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "cart",
		Name:      "load_fallbacks_total",
		Help:      "Saved carts that could not be read or parsed and were replaced by an empty cart.",
	})

	ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders created at checkout.",
	})

	checkoutRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "checkout_rejected_total",
		Help:      "Checkouts refused before an order was created, by reason.",
	}, []string{"reason"})

	orderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "orders",
		Name:      "status_changes_total",
		Help:      "Order status changes applied by fulfillment.",
	}, []string{"status"})
)

// RegisterMetrics registers the storefront collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		cartMutations, cartPersistFailures, cartLoadFallbacks,
		ordersPlaced, checkoutRejected, orderTransitions,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
