package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertgraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alertgraph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "alertgraph_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initUpstreamMetrics() {
	r.UpstreamRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertgraph_upstream_requests_total",
			Help: "Total number of requests to the alert data service",
		},
		[]string{"op", "status"},
	)

	r.UpstreamRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alertgraph_upstream_request_duration_seconds",
			Help:    "Alert data service latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
}

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "alertgraph_sessions_active",
			Help: "Number of open inspection sessions",
		},
	)

	r.StaleResponsesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertgraph_stale_responses_total",
			Help: "Responses discarded because a newer alert load superseded them",
		},
		[]string{"op"},
	)

	r.SelectionEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertgraph_selection_events_total",
			Help: "Selection changes by resulting state",
		},
		[]string{"state"},
	)

	r.SSEClients = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "alertgraph_sse_clients",
			Help: "Number of connected event stream clients",
		},
	)
}

func (r *Registry) initLayoutMetrics() {
	r.LayoutBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alertgraph_layout_build_duration_seconds",
			Help:    "Time to lay out one alert network",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	r.LayoutNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alertgraph_layout_nodes",
			Help:    "Number of nodes per laid out network",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	r.RejectedRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertgraph_rejected_records_total",
			Help: "Malformed nodes and edges quarantined at the boundary",
		},
		[]string{"kind"},
	)

	r.TimeParseErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "alertgraph_time_parse_errors_total",
			Help: "Edges whose timestamp could not be parsed",
		},
	)

	r.DuplicateEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "alertgraph_duplicate_edge_pairs_total",
			Help: "Edge pairs that occur on more than one edge of a network",
		},
	)
}
