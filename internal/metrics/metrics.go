package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StrategyAttemptsTotal tracks connection attempts per strategy and outcome
	StrategyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tienda_db_strategy_attempts_total",
			Help: "Total number of database connection attempts",
		},
		[]string{"strategy", "result"},
	)

	// ActiveStrategy is 1 for the strategy currently holding the connection
	ActiveStrategy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tienda_db_active_strategy",
			Help: "Connection strategy in use (1 = active)",
		},
		[]string{"strategy"},
	)

	// QueryDuration tracks statement latency
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tienda_db_query_duration_seconds",
			Help:    "Database query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dialect", "result"},
	)

	// ConnectionInvalidationsTotal counts handles dropped after a query failure
	ConnectionInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tienda_db_connection_invalidations_total",
			Help: "Total number of connections dropped after a failed query",
		},
		[]string{"strategy"},
	)

	// DBConnectionPoolUsage tracks the percentage of used connections in the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tienda_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)

	// FallbackResponsesTotal counts catalog reads not served from the live database
	FallbackResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tienda_fallback_responses_total",
			Help: "Total number of responses served from sample or cached data",
		},
		[]string{"resource", "source"},
	)

	// HTTPRequestsTotal tracks API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tienda_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tienda_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
