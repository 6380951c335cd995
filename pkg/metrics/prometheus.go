// Package metrics provides Prometheus metrics for the wildcat scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every wildcat collector.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	sizeBuckets      []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	heatsSubmitted   prometheus.Counter
	heatsDuplicate   prometheus.Counter
	heatsScored      *prometheus.CounterVec
	scoringErrors    *prometheus.CounterVec
	scoringLatency   prometheus.Histogram
	finishersPerHeat prometheus.Histogram
	heatsStored      prometheus.Gauge

	// Roster
	teamsRostered   prometheus.Gauge
	runnersRostered prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton behind the Record*/Update* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared with promhttp

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wildcat",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		sizeBuckets:      prometheus.LinearBuckets(0, 25, 12),
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.heatsSubmitted = m.counter("heats_submitted_total", "Heats accepted for asynchronous scoring")
	m.heatsDuplicate = m.counter("heats_duplicate_total", "Heat submissions rejected as duplicates of an earlier submission_id")
	m.heatsScored = m.counterVec("heats_scored_total", "Heats scored successfully by mode", "mode")
	m.scoringErrors = m.counterVec("scoring_errors_total", "Heats that failed to score by error kind", "kind")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Time spent scoring one heat", m.histogramBuckets)
	m.finishersPerHeat = m.histogram("finishers_per_heat", "Number of finishers in each scored heat", m.sizeBuckets)
	m.heatsStored = m.gauge("heats_stored", "Heats held in the store")

	m.teamsRostered = m.gauge("teams_rostered", "Teams in the loaded roster")
	m.runnersRostered = m.gauge("runners_rostered", "Runners in the loaded roster")

	m.queueSize = m.gauge("queue_size", "Scoring jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum scoring jobs the queue holds")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size over capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Jobs rejected by the queue")

	m.workerCount = m.gauge("worker_count", "Scoring workers running")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time a worker spends on one job", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs a worker failed to complete")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Goroutines running")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause time", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// Scoring.

// RecordHeatSubmitted counts an accepted asynchronous submission.
func RecordHeatSubmitted() { globalManager.heatsSubmitted.Inc() }

// RecordHeatDuplicate counts a duplicate submission.
func RecordHeatDuplicate() { globalManager.heatsDuplicate.Inc() }

// RecordHeatScored counts a scored heat and observes its size.
func RecordHeatScored(mode string, finishers int) {
	globalManager.heatsScored.WithLabelValues(mode).Inc()
	globalManager.finishersPerHeat.Observe(float64(finishers))
}

// RecordScoringError counts a heat that failed to score.
func RecordScoringError(kind string) { globalManager.scoringErrors.WithLabelValues(kind).Inc() }

// RecordScoringLatency observes scoring time in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.scoringLatency.Observe(latencyMs) }

// UpdateHeatsStored sets the number of stored heats.
func UpdateHeatsStored(count int) { globalManager.heatsStored.Set(float64(count)) }

// UpdateRoster sets the roster gauges.
func UpdateRoster(teams, runners int) {
	globalManager.teamsRostered.Set(float64(teams))
	globalManager.runnersRostered.Set(float64(runners))
}

// Queue.

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueSize sets the queue size and, given the capacity, its utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// Workers.

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency observes job time in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordErrorByComponent counts an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime observes an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// HTTP.

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request time in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
