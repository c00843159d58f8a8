package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── HTTP request metrics (RED method) ──────────────────────────────────

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)

// ── Reading fetch metrics ──────────────────────────────────────────────

var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "fetch",
		Name:      "total",
		Help:      "Total pool reading fetch attempts per protocol.",
	}, []string{"protocol", "status"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Duration of pool reading fetches per protocol in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"protocol"})

	SnapshotCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "snapshot",
		Name:      "count",
		Help:      "Number of metric readings currently held in memory.",
	})

	WatchedPools = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "snapshot",
		Name:      "pools",
		Help:      "Number of pools with at least one recorded reading.",
	})
)

// ── Alert metrics ──────────────────────────────────────────────────────

var (
	AlertsFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "alerts",
		Name:      "fired_total",
		Help:      "Total threshold alerts fired.",
	}, []string{"type", "severity"})

	AlertsPersistFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "alerts",
		Name:      "persist_failed_total",
		Help:      "Total alert batches that failed to write to the audit log.",
	})
)

// ── Payment metrics ────────────────────────────────────────────────────

var (
	PaymentVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "yield_pool_watcher",
		Subsystem: "payments",
		Name:      "verifications_total",
		Help:      "Total x402 payment verification outcomes.",
	}, []string{"outcome"})
)
