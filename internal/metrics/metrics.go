// Package metrics provides Prometheus metrics for the HTTP service and the
// analysis pipeline. Everything registers with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tablelens"

var (
	// HTTPRequestTotal counts requests by method, path, status (RED: rate).
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDurationSeconds is request latency histogram (RED: duration).
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~3.8s
		},
		[]string{"method", "path"},
	)

	// AnalysesTotal counts completed analyses by report shape.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of CSV analyses by report shape.",
		},
		[]string{"report"},
	)

	// ParseFailuresTotal counts uploads rejected as malformed CSV.
	ParseFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Total number of uploads that could not be parsed as CSV.",
		},
	)

	// DatasetRows tracks the size of analyzed datasets.
	DatasetRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Number of data rows per analyzed CSV.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6), // 10 to 1M
		},
	)
)

// ObserveAnalysis records one successful analysis.
func ObserveAnalysis(report string, rows int) {
	AnalysesTotal.WithLabelValues(report).Inc()
	DatasetRows.Observe(float64(rows))
}
