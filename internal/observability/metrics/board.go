package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BoardRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_requests_total",
			Help: "Total number of board API requests",
		},
		[]string{"method", "path"},
	)

	BoardRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "board_requests_in_flight",
			Help: "Number of board API requests currently being processed",
		},
	)

	BoardRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "board_request_duration_seconds",
			Help:    "Duration of board API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP error responses",
		},
		[]string{"status", "path", "method"},
	)

	DomainErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_errors_total",
			Help: "Total number of domain errors by category and code",
		},
		[]string{"category", "code", "status"},
	)
)
