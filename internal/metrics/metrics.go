// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by remote calls and refreshes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeOpen    = "circuit_open"
)

var (
	// RemoteRequestsTotal counts catalog API calls by endpoint and outcome.
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinopoisk_requests_total",
			Help: "Total number of catalog API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// RemoteRequestDuration tracks catalog API latency.
	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kinopoisk_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// BreakerState reports the remote circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kinopoisk_circuit_breaker_state",
			Help: "Catalog API circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	// CacheWritesTotal counts committed cache transactions by operation.
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_writes_total",
			Help: "Total number of committed cache write transactions",
		},
		[]string{"operation"},
	)

	// BucketRefreshesTotal counts recommendation bucket refreshes.
	BucketRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bucket_refreshes_total",
			Help: "Total number of recommendation bucket refreshes",
		},
		[]string{"bucket", "outcome"},
	)

	// BucketRefreshDuration tracks how long a bucket refresh takes end to end.
	BucketRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bucket_refresh_duration_seconds",
			Help:    "Duration of recommendation bucket refreshes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"bucket"},
	)

	// LiveQueryEmissionsTotal counts snapshots pushed by live queries.
	LiveQueryEmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_query_emissions_total",
			Help: "Total number of snapshots emitted by live queries",
		},
		[]string{"query"},
	)

	// LiveQueriesActive is the number of live queries currently subscribed.
	LiveQueriesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_queries_active",
			Help: "Number of active live queries",
		},
	)
)

// RecordRemoteRequest records one catalog API call.
func RecordRemoteRequest(endpoint, outcome string, duration time.Duration) {
	RemoteRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	RemoteRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordBucketRefresh records one finished bucket refresh.
func RecordBucketRefresh(bucket, outcome string, duration time.Duration) {
	BucketRefreshesTotal.WithLabelValues(bucket, outcome).Inc()
	BucketRefreshDuration.WithLabelValues(bucket).Observe(duration.Seconds())
}
