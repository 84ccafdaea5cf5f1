// Package metrics exposes the Prometheus instruments of alertgraph.
//
// Instruments live on a Registry backed by its own prometheus.Registry, so
// tests can create isolated registries and servers can expose exactly the
// alertgraph series on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream Metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec

	// Session Metrics
	SessionsActive       prometheus.Gauge
	StaleResponsesTotal  *prometheus.CounterVec
	SelectionEventsTotal *prometheus.CounterVec
	SSEClients           prometheus.Gauge

	// Layout Metrics
	LayoutBuildDuration  prometheus.Histogram
	LayoutNodes          prometheus.Histogram
	RejectedRecordsTotal *prometheus.CounterVec
	TimeParseErrorsTotal prometheus.Counter
	DuplicateEdgesTotal  prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initHTTPMetrics()
	r.initUpstreamMetrics()
	r.initSessionMetrics()
	r.initLayoutMetrics()

	return r
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordHTTPRequest records an HTTP request. path is the route pattern.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncHTTPRequestsInFlight marks the start of a request
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks the end of a request
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordUpstreamRequest records a call to the alert data service
func (r *Registry) RecordUpstreamRequest(op, status string, duration time.Duration) {
	r.UpstreamRequestsTotal.WithLabelValues(op, status).Inc()
	r.UpstreamRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordStaleResponse counts a response discarded because a newer load superseded it
func (r *Registry) RecordStaleResponse(op string) {
	r.StaleResponsesTotal.WithLabelValues(op).Inc()
}

// RecordSelection counts a selection change by resulting state
func (r *Registry) RecordSelection(state string) {
	r.SelectionEventsTotal.WithLabelValues(state).Inc()
}

// RecordLayout records one layout build
func (r *Registry) RecordLayout(nodes int, duration time.Duration) {
	r.LayoutBuildDuration.Observe(duration.Seconds())
	r.LayoutNodes.Observe(float64(nodes))
}

// RecordRejected counts records quarantined at the boundary, by record kind
func (r *Registry) RecordRejected(kind string, n int) {
	if n <= 0 {
		return
	}
	r.RejectedRecordsTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordTimeParseErrors counts edges whose timestamp could not be ordered
func (r *Registry) RecordTimeParseErrors(n int) {
	if n <= 0 {
		return
	}
	r.TimeParseErrorsTotal.Add(float64(n))
}

// RecordDuplicateEdges counts edge pairs that occur more than once in a network
func (r *Registry) RecordDuplicateEdges(n int) {
	if n <= 0 {
		return
	}
	r.DuplicateEdgesTotal.Add(float64(n))
}

// SetSessionsActive sets the number of open inspection sessions
func (r *Registry) SetSessionsActive(n int) {
	r.SessionsActive.Set(float64(n))
}

// SetSSEClients sets the number of connected event stream clients
func (r *Registry) SetSSEClients(n int) {
	r.SSEClients.Set(float64(n))
}
