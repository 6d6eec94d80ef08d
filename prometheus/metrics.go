package prometheus

import (
	"time"

	"pos-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Checkout metrics
	CheckoutsCounter   prometheus.CounterVec
	SaleRecordsCounter prometheus.CounterVec

	// Offline sync metrics
	PendingOperationsGauge prometheus.Gauge
	SyncFlushCounter       prometheus.CounterVec
	CacheReadsCounter      prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	CheckoutsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_checkouts_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"payment_method", "outcome"},
	)

	SaleRecordsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sale_records_total",
			Help: "Total number of sale records written",
		},
		[]string{"path"}, // "remote" or "queued"
	)

	PendingOperationsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_pending_operations",
			Help: "Locally queued writes awaiting transmission to the remote store",
		},
	)

	SyncFlushCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_flush_total",
			Help: "Pending-queue drain attempts",
		},
		[]string{"outcome"}, // "delivered" or "retried"
	)

	CacheReadsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_reads_total",
			Help: "Offline-aware list reads by serving source",
		},
		[]string{"collection", "source"}, // "remote" or "cache"
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordCheckout increments the counter for checkout attempts
func RecordCheckout(paymentMethod, outcome string) {
	CheckoutsCounter.WithLabelValues(paymentMethod, outcome).Inc()
}

// RecordSaleWrite increments the counter for sale record writes
func RecordSaleWrite(path string) {
	SaleRecordsCounter.WithLabelValues(path).Inc()
}

// RecordCacheRead increments the counter for list reads by serving source
func RecordCacheRead(collection, source string) {
	CacheReadsCounter.WithLabelValues(collection, source).Inc()
}

// SetPendingOperations updates the pending-queue gauge
func SetPendingOperations(n float64) {
	PendingOperationsGauge.Set(n)
}

// RecordSyncFlush increments the counter for drain attempts
func RecordSyncFlush(outcome string) {
	SyncFlushCounter.WithLabelValues(outcome).Inc()
}
