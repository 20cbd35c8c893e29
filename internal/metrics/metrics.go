// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mode labels for Calculations
const (
	ModePercent = "percent_per_year"
	ModeHundred = "per_hundred_per_month"
)

var (
	// Calculations counts engine invocations by rate mode and outcome
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaddi_calculations_total",
			Help: "Interest calculations by rate mode and outcome",
		},
		[]string{"mode", "status"},
	)

	// HistoryOperations counts store round trips
	HistoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaddi_history_operations_total",
			Help: "History store operations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	// HistoryDecodeFailures counts stored blobs that could not be parsed
	HistoryDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vaddi_history_decode_failures_total",
			Help: "Stored history blobs that failed to deserialize and were treated as empty",
		},
	)

	// HistoryEntries is the entry count after the last write
	HistoryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vaddi_history_entries",
			Help: "Number of calculations in the history after the last write",
		},
	)

	// HTTPRequests counts requests by mux route template
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaddi_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by mux route template
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaddi_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ModeLabel maps the rate-mode flag to its label value
func ModeLabel(percentMode bool) string {
	if percentMode {
		return ModePercent
	}
	return ModeHundred
}

// Status maps an error to an "ok"/"error" label value
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
