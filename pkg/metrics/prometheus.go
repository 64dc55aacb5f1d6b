// Package metrics provides Prometheus metrics for the wasuremon engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Snapshot loading
	snapshotsLoaded  prometheus.Counter
	sourceFailures   *prometheus.CounterVec
	eventsNormalized *prometheus.CounterVec
	fieldDefaults    *prometheus.CounterVec
	eventsDuplicate  prometheus.Counter

	// Taxonomy
	taxonomyDuplicates *prometheus.CounterVec
	integrityWarnings  prometheus.Counter

	// Derived views
	creaturesTotal      prometheus.Gauge
	recomputeLatency    *prometheus.HistogramVec
	snapshotLoadLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wasuremon",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.snapshotsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_loaded_total",
		Help:      "Total number of source snapshots assembled",
	})

	m.sourceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_failures_total",
		Help:      "Source reads that failed and were replaced by an empty collection",
	}, []string{"source"})

	m.eventsNormalized = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_normalized_total",
		Help:      "Raw event records normalized, by origin",
	}, []string{"origin"})

	m.fieldDefaults = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "field_defaults_total",
		Help:      "Event fields that failed to parse and fell back to a default",
	}, []string{"field"})

	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Event records dropped because another origin carried the same id",
	})

	m.taxonomyDuplicates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "taxonomy_duplicates_total",
		Help:      "Taxonomy entries dropped by name+emoji dedup, by kind",
	}, []string{"kind"})

	m.integrityWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integrity_warnings_total",
		Help:      "Dedup collisions whose category mappings disagreed across origins",
	})

	m.creaturesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "creatures",
		Help:      "Number of creatures produced by the last aggregation pass",
	})

	m.recomputeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_latency_milliseconds",
		Help:      "Time spent deriving a view from a loaded snapshot",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.snapshotLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_load_latency_milliseconds",
		Help:      "Time spent reading remote and local sources",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordSnapshotLoaded increments the snapshot counter.
func RecordSnapshotLoaded() {
	globalManager.snapshotsLoaded.Inc()
}

// RecordSnapshotLoadLatency records source read latency in milliseconds.
func RecordSnapshotLoadLatency(latencyMs float64) {
	globalManager.snapshotLoadLatency.Observe(latencyMs)
}

// RecordSourceFailure counts a failed read of the named source.
func RecordSourceFailure(source string) {
	globalManager.sourceFailures.WithLabelValues(source).Inc()
}

// RecordEventsNormalized adds n normalized records for origin.
func RecordEventsNormalized(origin string, n int) {
	globalManager.eventsNormalized.WithLabelValues(origin).Add(float64(n))
}

// RecordFieldDefault counts a field that fell back to its default.
func RecordFieldDefault(field string, n int) {
	globalManager.fieldDefaults.WithLabelValues(field).Add(float64(n))
}

// RecordEventDuplicate counts an event dropped by id dedup.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordTaxonomyDuplicate counts a taxonomy entry dropped by dedup.
func RecordTaxonomyDuplicate(kind string) {
	globalManager.taxonomyDuplicates.WithLabelValues(kind).Inc()
}

// RecordIntegrityWarning counts an inconsistent category mapping.
func RecordIntegrityWarning() {
	globalManager.integrityWarnings.Inc()
}

// UpdateCreatures sets the creature gauge.
func UpdateCreatures(count int) {
	globalManager.creaturesTotal.Set(float64(count))
}

// RecordRecomputeLatency records derivation latency for operation.
func RecordRecomputeLatency(operation string, latencyMs float64) {
	globalManager.recomputeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
