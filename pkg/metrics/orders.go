package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Reasons recorded on orders_failed_total.
const (
	OrderFailureValidation   = "validation"
	OrderFailurePrice        = "price"
	OrderFailureNotFound     = "not_found"
	OrderFailurePersistence  = "persistence"
	orderFailureUnclassified = "unknown"
)

// OrderMetrics tracks order placement outcomes.
type OrderMetrics struct {
	created prometheus.Counter
	failed  *prometheus.CounterVec
	price   prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders placed successfully.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order placements that were rejected or failed.",
	}, []string{"reason"})
	price := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_price",
		Help:    "Computed order price.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 50, 100, 250},
	})
	reg.MustRegister(created, failed, price)
	return &OrderMetrics{created: created, failed: failed, price: price}
}

// ObserveCreated counts a placed order and records its price.
func (m *OrderMetrics) ObserveCreated(price decimal.Decimal) {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
	m.price.Observe(price.InexactFloat64())
}

func (m *OrderMetrics) IncFailed(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	if reason == "" {
		reason = orderFailureUnclassified
	}
	m.failed.WithLabelValues(reason).Inc()
}
