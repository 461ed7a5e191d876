// Package metrics provides Prometheus metrics for the style map service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Shape buckets cover node, edge and cluster counts of a single map.
var shapeBuckets = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the style map service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Engine
	mapBuilds        *prometheus.CounterVec
	mapBuildDuration prometheus.Histogram
	mapNodes         prometheus.Histogram
	mapEdges         prometheus.Histogram
	mapClusters      prometheus.Histogram
	mapEmptyResults  prometheus.Counter

	// Result cache
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Repository
	repositoryWriteLatency prometheus.Histogram
	repositoryQueryLatency prometheus.Histogram
	repositoryMatches      prometheus.Gauge
	matchesIngested        prometheus.Counter

	// Job queue and workers
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueRejected     prometheus.Counter
	workerCount       prometheus.Gauge
	workerActiveCount prometheus.Gauge
	jobLatency        prometheus.Histogram
	jobsByState       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// active pairs the global manager with the registry it registers into.
type active struct {
	manager  *Manager
	registry *prometheus.Registry
}

// Global metrics state, swapped as a whole by Init.
var current atomic.Pointer[active] //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// custom registry, which avoids the default Go metrics. Call it at startup
// before metrics are served.
func Init(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	m := NewManager(append(append([]Option{}, opts...), WithPrometheusRegistry(registry))...)
	current.Store(&active{manager: m, registry: registry})
	return m
}

func global() *Manager { return current.Load().manager }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stylemap",
		subsystem:        "service",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.mapBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "map_builds_total",
		Help:      "Total number of style map builds by outcome",
	}, []string{"outcome"})
	m.mapBuildDuration = m.histogram("map_build_duration_milliseconds",
		"Style map build duration in milliseconds", m.histogramBuckets)
	m.mapNodes = m.histogram("map_nodes", "Number of champion nodes per built map", shapeBuckets)
	m.mapEdges = m.histogram("map_edges", "Number of similarity edges per built map", shapeBuckets)
	m.mapClusters = m.histogram("map_clusters", "Number of clusters per built map", shapeBuckets)
	m.mapEmptyResults = m.counter("map_empty_results_total",
		"Total number of builds where no champion met the games threshold")

	m.cacheHits = m.counter("cache_hits_total", "Total number of result cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Total number of result cache misses")
	m.cacheSize = m.gauge("cache_entries", "Current number of cached style maps")

	m.repositoryWriteLatency = m.histogram("repository_write_latency_milliseconds",
		"Repository write latency in milliseconds", m.histogramBuckets)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds",
		"Repository query latency in milliseconds", m.histogramBuckets)
	m.repositoryMatches = m.gauge("repository_matches", "Total number of stored matches")
	m.matchesIngested = m.counter("matches_ingested_total", "Total number of newly stored matches")

	m.queueSize = m.gauge("queue_size", "Current size of the build job queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum build job queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueRejected = m.counter("queue_rejected_total", "Total number of jobs rejected because the queue was full")
	m.workerCount = m.gauge("worker_count", "Configured number of build workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently building a map")
	m.jobLatency = m.histogram("job_latency_milliseconds",
		"Time from dequeue to job completion in milliseconds", m.histogramBuckets)
	m.jobsByState = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_total",
		Help:      "Total number of finished jobs by final state",
	}, []string{"state"})

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

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component",
	}, []string{"component", "error_type"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Total number of errors by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Engine

// RecordMapBuild records one finished build with its outcome ("ok", "empty", "error").
func RecordMapBuild(outcome string, durationMs float64) {
	global().mapBuilds.WithLabelValues(outcome).Inc()
	global().mapBuildDuration.Observe(durationMs)
	if outcome == "empty" {
		global().mapEmptyResults.Inc()
	}
}

// RecordMapShape records the node, edge and cluster counts of a built map.
func RecordMapShape(nodes, edges, clusters int) {
	global().mapNodes.Observe(float64(nodes))
	global().mapEdges.Observe(float64(edges))
	global().mapClusters.Observe(float64(clusters))
}

// Result cache

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { global().cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { global().cacheMisses.Inc() }

// UpdateCacheSize sets the number of cached entries.
func UpdateCacheSize(n int) { global().cacheSize.Set(float64(n)) }

// Repository

// RecordRepositoryWriteLatency records repository write latency.
func RecordRepositoryWriteLatency(latencyMs float64) {
	global().repositoryWriteLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	global().repositoryQueryLatency.Observe(latencyMs)
}

// UpdateRepositoryMatches sets the number of stored matches.
func UpdateRepositoryMatches(count int) {
	global().repositoryMatches.Set(float64(count))
}

// RecordMatchesIngested adds newly stored matches.
func RecordMatchesIngested(n int) {
	global().matchesIngested.Add(float64(n))
}

// Queue

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { global().queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { global().queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { global().queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { global().queueDequeued.Inc() }

// RecordQueueRejected increments the rejected counter.
func RecordQueueRejected() { global().queueRejected.Inc() }

// Workers

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { global().workerCount.Set(float64(count)) }

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) { global().workerActiveCount.Set(float64(count)) }

// RecordJob records a finished job in its final state.
func RecordJob(state string, latencyMs float64) {
	global().jobsByState.WithLabelValues(state).Inc()
	global().jobLatency.Observe(latencyMs)
}

// HTTP

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	global().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	global().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	global().errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	global().errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	global().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	global().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	global().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
