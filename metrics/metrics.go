// Package metrics provides Prometheus metrics for the prescribing reference API.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics:
//   - catalog_entries: Gauge with the current number of conditions
//   - catalog_inserts_total: Counter with a result label (created, conflict, invalid, storage_error)
//   - catalog_saves_total: Counter with a result label (ok, error)
//   - dose_calculations_total: Counter with mode and outcome labels
//   - export_snapshots_total: Counter with a result label (ok, error, skipped)
//
// All metrics are registered with the Prometheus default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (client IPs currently tracked)",
		},
	)

	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Number of conditions in the catalog",
		},
	)

	CatalogInserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_inserts_total",
			Help: "Catalog insert attempts by result",
		},
		[]string{"result"},
	)

	CatalogSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_saves_total",
			Help: "Catalog writes to the storage slot by result",
		},
		[]string{"result"},
	)

	DoseCalculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dose_calculations_total",
			Help: "Dose calculations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	ExportSnapshots = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_snapshots_total",
			Help: "Scheduled catalog export snapshots by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(CatalogEntries)
	prometheus.MustRegister(CatalogInserts)
	prometheus.MustRegister(CatalogSaves)
	prometheus.MustRegister(DoseCalculations)
	prometheus.MustRegister(ExportSnapshots)
}
