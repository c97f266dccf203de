// Package metrics provides Prometheus metrics for the classwatch service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis names used as the "analysis" label.
const (
	AnalysisTrends          = "trends"
	AnalysisPeers           = "peers"
	AnalysisAlerts          = "alerts"
	AnalysisRecommendations = "recommendations"
	AnalysisReport          = "report"
)

// Reasons an observation is rejected at ingest.
const (
	RejectInvalid    = "invalid"
	RejectQueueFull  = "queue_full"
	RejectOutOfScale = "out_of_scale"
)

// Manager manages all Prometheus metrics for the classwatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingest
	observationsIngested  prometheus.Counter
	observationsDuplicate prometheus.Counter
	observationsRejected  *prometheus.CounterVec

	// Queue
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store
	storeRecords  prometheus.Gauge
	storeStudents prometheus.Gauge

	// Analytics
	analysisLatency        *prometheus.HistogramVec
	openAlerts             *prometheus.GaugeVec
	recommendationsEmitted prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "classwatch",
		subsystem:        "analytics",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.observationsIngested = auto.NewCounter(m.counterOpts(
		"observations_ingested_total", "Total number of observations written to the store"))
	m.observationsDuplicate = auto.NewCounter(m.counterOpts(
		"observations_duplicate_total", "Total number of resubmitted observations skipped by id"))
	m.observationsRejected = auto.NewCounterVec(m.counterOpts(
		"observations_rejected_total", "Total number of observations rejected at ingest"),
		[]string{"reason"})

	m.queueSize = auto.NewGauge(m.gaugeOpts(
		"queue_size", "Current number of observations waiting in the ingest queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts(
		"queue_capacity", "Maximum ingest queue capacity"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts(
		"worker_active_count", "Number of ingest workers currently storing an observation"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Time from dequeue to stored observation in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counterOpts(
		"worker_errors_total", "Total number of observations workers failed to store"))

	m.storeRecords = auto.NewGauge(m.gaugeOpts(
		"store_records", "Number of observations held by the store"))
	m.storeStudents = auto.NewGauge(m.gaugeOpts(
		"store_students", "Number of distinct students held by the store"))

	m.analysisLatency = auto.NewHistogramVec(m.histogramOpts(
		"analysis_latency_milliseconds", "Latency of one analysis run in milliseconds"),
		[]string{"analysis"})
	m.openAlerts = auto.NewGaugeVec(m.gaugeOpts(
		"alerts_open", "Intervention alerts in the latest cohort analysis"),
		[]string{"alert_type", "severity"})
	m.recommendationsEmitted = auto.NewCounter(m.counterOpts(
		"recommendations_emitted_total", "Recommendations produced by analysis runs"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts(
		"http_errors_total", "HTTP responses with an error code by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "Heap bytes allocated by the process"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_milliseconds", "Average garbage collection pause in milliseconds"))
}

// RecordObservationIngested increments the ingested observations counter.
func RecordObservationIngested() {
	globalManager.observationsIngested.Inc()
}

// RecordObservationDuplicate increments the duplicate observations counter.
func RecordObservationDuplicate() {
	globalManager.observationsDuplicate.Inc()
}

// RecordObservationRejected counts a rejected observation by reason.
func RecordObservationRejected(reason string) {
	globalManager.observationsRejected.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// IncWorkerActive marks one worker busy.
func IncWorkerActive() {
	globalManager.workerActiveCount.Inc()
}

// DecWorkerActive marks one worker idle.
func DecWorkerActive() {
	globalManager.workerActiveCount.Dec()
}

// RecordWorkerProcessingLatency records worker processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker errors counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateStoreSize sets the record and student gauges.
func UpdateStoreSize(records, students int) {
	globalManager.storeRecords.Set(float64(records))
	globalManager.storeStudents.Set(float64(students))
}

// RecordAnalysisLatency records the latency of one analysis run.
func RecordAnalysisLatency(analysis string, latencyMs float64) error {
	switch analysis {
	case AnalysisTrends, AnalysisPeers, AnalysisAlerts, AnalysisRecommendations, AnalysisReport:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAnalysis, analysis)
	}
	globalManager.analysisLatency.WithLabelValues(analysis).Observe(latencyMs)
	return nil
}

// UpdateOpenAlerts sets the open alert count for one type and severity.
func UpdateOpenAlerts(alertType, severity string, n int) {
	globalManager.openAlerts.WithLabelValues(alertType, severity).Set(float64(n))
}

// ResetOpenAlerts clears every open alert series.
func ResetOpenAlerts() {
	globalManager.openAlerts.Reset()
}

// RecordRecommendations adds n emitted recommendations.
func RecordRecommendations(n int) {
	globalManager.recommendationsEmitted.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an error response by endpoint.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
