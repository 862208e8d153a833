// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts API requests by route and status code. The method
	// and code labels are filled in by promhttp.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanodash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	// RequestDuration tracks API latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nanodash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// QueryDuration tracks time series database latency by measurement.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nanodash_query_duration_seconds",
			Help:    "Time series query duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"measurement"},
	)

	// QueryErrors counts failed time series queries by measurement.
	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanodash_query_errors_total",
			Help: "Total number of failed time series queries",
		},
		[]string{"measurement"},
	)

	// QueryNullSamples counts samples skipped because they had no value.
	QueryNullSamples = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanodash_query_null_samples_total",
			Help: "Total number of null samples skipped from query results",
		},
		[]string{"measurement"},
	)

	// CacheRequests counts query cache lookups by result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanodash_query_cache_requests_total",
			Help: "Total number of query cache lookups",
		},
		[]string{"result"},
	)

	// PanelResults counts computed dashboard panels by panel and status.
	PanelResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanodash_panel_results_total",
			Help: "Total number of computed dashboard panels by status",
		},
		[]string{"panel", "status"},
	)

	// SyntheticOutdoor counts how often generated outdoor data replaced a
	// missing outdoor feed.
	SyntheticOutdoor = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nanodash_synthetic_outdoor_total",
			Help: "Total number of times synthetic outdoor temperature was substituted",
		},
	)

	// UnalignedSamples counts indoor/outdoor samples dropped by the
	// timestamp join in the thermal model.
	UnalignedSamples = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nanodash_unaligned_samples_total",
			Help: "Total number of samples dropped when aligning indoor and outdoor series",
		},
	)
)
