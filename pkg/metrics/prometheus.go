// Package metrics provides Prometheus metrics for the jelajah recommendation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Recommendation pipeline
	recommendRequests *prometheus.CounterVec
	recommendLatency  *prometheus.HistogramVec
	matchedTotal      prometheus.Histogram
	excludedVisited   prometheus.Counter
	catalogSize       prometheus.Gauge

	// Scoring
	scoringLatency    prometheus.Histogram
	scoringFallbacks  *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	breakerTransition *prometheus.CounterVec

	// Collaborators
	upstreamErrors *prometheus.CounterVec

	// Visit pipeline
	visitQueueSize     prometheus.Gauge
	visitQueueCapacity prometheus.Gauge
	visitEnqueueErrors *prometheus.CounterVec
	visitsPersisted    prometheus.Counter
	visitsDuplicate    prometheus.Counter
	visitWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // dedicated registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jelajah",
		subsystem:        "recommend",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommendRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Recommendation requests by operation and outcome",
	}, []string{"operation", "outcome"})

	m.recommendLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_duration_milliseconds",
		Help:      "End-to-end recommendation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.matchedTotal = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matched_destinations",
		Help:      "Destinations passing strict filtering per request, before truncation",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
	})

	m.excludedVisited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "excluded_visited_total",
		Help:      "Matches removed from personalized results because the user visited them",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_destinations",
		Help:      "Number of destinations in the loaded catalog",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Latency of a single predictive scoring call in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoringFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_fallbacks_total",
		Help:      "Predictions answered by a fallback instead of the primary provider",
		// reason: heuristic (model call failed), fixed (provider failed, fixed score used)
	}, []string{"reason"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	m.breakerTransition = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "circuit_breaker_transitions_total",
		Help:      "Circuit breaker state transitions",
	}, []string{"name", "from", "to"})

	m.upstreamErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_errors_total",
		Help:      "Errors returned by profile and visit-history collaborators",
	}, []string{"collaborator"})

	m.visitQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visit_queue_size",
		Help:      "Visit events waiting to be persisted",
	})

	m.visitQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visit_queue_capacity",
		Help:      "Capacity of the visit event queue",
	})

	m.visitEnqueueErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visit_enqueue_errors_total",
		Help:      "Visit events rejected by the queue",
	}, []string{"reason"})

	m.visitsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visits_persisted_total",
		Help:      "Visit events written to the visit-history store",
	})

	m.visitsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visits_duplicate_total",
		Help:      "Visit events acknowledged as duplicates",
	})

	m.visitWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "visit_workers",
		Help:      "Number of visit persistence workers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRecommendRequest counts a recommendation call and its latency.
func RecordRecommendRequest(operation, outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.recommendRequests.WithLabelValues(operation, outcome).Inc()
	globalManager.recommendLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordMatched observes the untruncated match count of a request.
func RecordMatched(total int) {
	globalManager.matchedTotal.Observe(float64(total))
}

// RecordExcludedVisited adds to the visited-exclusion counter.
func RecordExcludedVisited(n int) {
	if n > 0 {
		globalManager.excludedVisited.Add(float64(n))
	}
}

// UpdateCatalogSize sets the catalog gauge.
func UpdateCatalogSize(n int) {
	globalManager.catalogSize.Set(float64(n))
}

// RecordScoringLatency observes a single prediction latency.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringFallback counts a prediction answered by a fallback.
func RecordScoringFallback(reason string) {
	globalManager.scoringFallbacks.WithLabelValues(reason).Inc()
}

// UpdateBreakerState sets the breaker gauge for name.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerTransition counts a breaker state change.
func RecordBreakerTransition(name, from, to string) {
	globalManager.breakerTransition.WithLabelValues(name, from, to).Inc()
}

// RecordUpstreamError counts a collaborator failure.
func RecordUpstreamError(collaborator string) {
	globalManager.upstreamErrors.WithLabelValues(collaborator).Inc()
}

// UpdateVisitQueueSize sets the visit backlog gauge.
func UpdateVisitQueueSize(size int) {
	globalManager.visitQueueSize.Set(float64(size))
}

// UpdateVisitQueueCapacity sets the visit queue capacity gauge.
func UpdateVisitQueueCapacity(capacity int) {
	globalManager.visitQueueCapacity.Set(float64(capacity))
}

// RecordVisitEnqueueError counts a rejected visit event.
func RecordVisitEnqueueError(reason string) {
	globalManager.visitEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordVisitPersisted counts a stored visit.
func RecordVisitPersisted() {
	globalManager.visitsPersisted.Inc()
}

// RecordVisitDuplicate counts a duplicate visit submission.
func RecordVisitDuplicate() {
	globalManager.visitsDuplicate.Inc()
}

// UpdateVisitWorkers sets the worker gauge.
func UpdateVisitWorkers(count int) {
	globalManager.visitWorkers.Set(float64(count))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the registry all metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
