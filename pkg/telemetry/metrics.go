package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bindui").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registerer receives the collectors.
	// Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegisterer sets the Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registerer = reg
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:  "bindui",
		Buckets:    prometheus.DefBuckets,
		Registerer: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors. Labels:
//   - collection: the reconciler name
//   - reason: why an entry was skipped (key_missing, max_elements)
//   - route, status: feed message routing
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	rejected       *prometheus.CounterVec
	created        *prometheus.CounterVec
	removed        *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	entries        *prometheus.GaugeVec
	messages       *prometheus.CounterVec
	feedErrors     *prometheus.CounterVec
}

// NewMetrics registers the collectors. Registering twice against the same
// registerer panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registerer)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		renders:  counter("renders_total", "Total number of collection renders", "collection"),
		rejected: counter("renders_rejected_total", "Renders rejected because one was already in progress", "collection"),
		created:  counter("entries_created_total", "Entries created by reconciliation", "collection"),
		removed:  counter("entries_removed_total", "Entries removed by the dead-entry sweep or explicitly", "collection"),
		skipped:  counter("entries_skipped_total", "Snapshot entries skipped during reconciliation", "collection", "reason"),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Collection render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"collection"}),

		entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "entries",
			Help:        "Number of tracked entries per collection",
			ConstLabels: config.ConstLabels,
		}, []string{"collection"}),

		messages:   counter("feed_messages_total", "Feed messages delivered by route and status", "route", "status"),
		feedErrors: counter("feed_errors_total", "Feed errors by type", "type"),
	}
}

// RecordRender records a completed render.
func (m *Metrics) RecordRender(collection string, d time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(collection).Inc()
	m.renderDuration.WithLabelValues(collection).Observe(d.Seconds())
}

// RecordRejected records a render refused by the re-entrancy guard.
func (m *Metrics) RecordRejected(collection string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(collection).Inc()
}

// RecordCreated records n new entries.
func (m *Metrics) RecordCreated(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.created.WithLabelValues(collection).Add(float64(n))
}

// RecordRemoved records n removed entries.
func (m *Metrics) RecordRemoved(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.removed.WithLabelValues(collection).Add(float64(n))
}

// RecordSkipped records a skipped snapshot entry.
func (m *Metrics) RecordSkipped(collection, reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(collection, reason).Inc()
}

// SetEntries sets the tracked entry gauge.
func (m *Metrics) SetEntries(collection string, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(collection).Set(float64(n))
}

// RecordMessage records a delivered feed message.
func (m *Metrics) RecordMessage(route, status string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(route, status).Inc()
}

// RecordFeedError records a feed failure. errorType should be low
// cardinality (dial, read, decode, seed).
func (m *Metrics) RecordFeedError(errorType string) {
	if m == nil {
		return
	}
	m.feedErrors.WithLabelValues(errorType).Inc()
}
