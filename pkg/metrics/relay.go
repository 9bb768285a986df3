package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics records outbox relay progress.
type RelayMetrics struct {
	batch     prometheus.Histogram
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	pending   prometheus.Gauge
}

// NewRelayMetrics registers the relay metrics on the provided registerer.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		return &RelayMetrics{}
	}
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of one outbox publish batch in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failed_total",
		Help: "Outbox publish attempts that failed.",
	}, []string{"event_type"})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_pending_events",
		Help: "Unpublished outbox events still eligible for delivery.",
	})
	reg.MustRegister(batch, published, failed, pending)
	return &RelayMetrics{
		batch:     batch,
		published: published,
		failed:    failed,
		pending:   pending,
	}
}

// ObserveBatch records how long a batch took.
func (m *RelayMetrics) ObserveBatch(duration time.Duration) {
	if m == nil || m.batch == nil {
		return
	}
	m.batch.Observe(duration.Seconds())
}

// IncPublished increments the published counter for an event type.
func (m *RelayMetrics) IncPublished(eventType string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failure counter for an event type.
func (m *RelayMetrics) IncFailed(eventType string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// SetPending reports the backlog size.
func (m *RelayMetrics) SetPending(n int64) {
	if m == nil || m.pending == nil {
		return
	}
	m.pending.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
