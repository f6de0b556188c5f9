package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution metrics
	ResolveRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantonlink_resolve_requests_total",
			Help: "Total number of route resolution requests by route type and outcome",
		},
		[]string{"route_type", "status"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cantonlink_resolve_duration_seconds",
			Help:    "Route resolution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route_type"},
	)

	// Adapter metrics
	AdapterCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantonlink_adapter_calls_total",
			Help: "Total number of provider adapter calls",
		},
		[]string{"adapter", "operation", "status"},
	)

	AdapterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cantonlink_adapter_duration_seconds",
			Help:    "Provider adapter call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
		[]string{"adapter", "operation"},
	)

	// Status tracking metrics
	StatusPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantonlink_status_polls_total",
			Help: "Total number of bridge status polls by resulting state",
		},
		[]string{"provider", "state"},
	)

	ActivePollers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cantonlink_active_pollers",
		Help: "Number of route status pollers currently running",
	})

	// Persistence metrics
	RoutesPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cantonlink_routes_persisted_total",
		Help: "Total number of route records written to the store",
	})

	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantonlink_persistence_errors_total",
			Help: "Total number of route store failures by operation",
		},
		[]string{"operation"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantonlink_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cantonlink_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
