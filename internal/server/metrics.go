package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/gamelog/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the web front end.
//
// Each instance owns its registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GateDecisions   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamelog_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gamelog_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		GateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gamelog_gate_decisions_total",
			Help: "Session gate outcomes",
		}, []string{"decision"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamelog_active_sessions",
			Help: "Number of cached web sessions",
		}),
	}

	m.Registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.GateDecisions,
		m.ActiveSessions,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveGate records a gate decision.
func (m *Metrics) ObserveGate(d session.Decision) {
	m.GateDecisions.WithLabelValues(d.String()).Inc()
}

// SetSessions sets the cached session gauge.
func (m *Metrics) SetSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// MetricsHandler serves the registry in the Prometheus exposition format.
type MetricsHandler struct {
	http.Handler
}

// NewMetricsHandler wraps m's registry.
func NewMetricsHandler(m *Metrics) *MetricsHandler {
	return &MetricsHandler{Handler: promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})}
}

// Routes implements [Handler].
func (h *MetricsHandler) Routes() []string { return []string{"GET /metrics"} }
