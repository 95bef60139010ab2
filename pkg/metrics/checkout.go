package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CheckoutMetrics records completed checkouts and their order value.
type CheckoutMetrics struct {
	completed prometheus.Counter
	value     prometheus.Histogram
	items     prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Completed checkouts.",
	})
	value := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_value",
		Help:    "Order total of completed checkouts.",
		Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_items",
		Help:    "Units purchased per completed checkout.",
		Buckets: prometheus.LinearBuckets(0, 2, 10),
	})
	reg.MustRegister(completed, value, items)
	return &CheckoutMetrics{
		completed: completed,
		value:     value,
		items:     items,
	}
}

// ObserveCheckout records one completed checkout.
func (c *CheckoutMetrics) ObserveCheckout(total decimal.Decimal, itemCount int) {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.Inc()
	c.value.Observe(total.InexactFloat64())
	c.items.Observe(float64(itemCount))
}
