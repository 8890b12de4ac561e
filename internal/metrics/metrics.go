// Package metrics holds the Prometheus collectors of the report service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestsTotal counts search backend calls by operation and outcome.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esreport_backend_requests_total",
			Help: "Total number of search backend requests",
		},
		[]string{"operation", "status"},
	)
	// BackendRequestDuration is the latency of search backend calls.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "esreport_backend_request_duration_seconds",
			Help:    "Search backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	// PagesFetchedTotal counts result pages received during pagination.
	PagesFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esreport_pages_fetched_total",
			Help: "Total number of result pages fetched",
		},
	)
	// RowsExpandedTotal counts rows produced from documents before rules apply.
	RowsExpandedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esreport_rows_expanded_total",
			Help: "Total number of rows expanded from documents",
		},
	)
	// ReportsTotal counts processed reports by outcome.
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esreport_reports_total",
			Help: "Total number of processed reports",
		},
		[]string{"status"},
	)
	// HTTPRequestsTotal counts API requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esreport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
