package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	ticketsCreated     *prometheus.CounterVec
	stateChanges       *prometheus.CounterVec
	sideChannelErrors  *prometheus.CounterVec
	sideChannelDropped *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Tickets created by priority.",
		}, []string{"priority"}),
		stateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_state_changes_total",
			Help: "Committed ticket state changes by target state.",
		}, []string{"state"}),
		sideChannelErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "side_channel_failures_total",
			Help: "Failed best-effort cache/notify calls.",
		}, []string{"channel"}),
		sideChannelDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "side_channel_dropped_total",
			Help: "Best-effort calls dropped because the queue was full.",
		}, []string{"channel"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.ticketsCreated,
		m.stateChanges,
		m.sideChannelErrors,
		m.sideChannelDropped,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) TicketCreated(priority string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(priority).Inc()
}

func (m *Metrics) StateChanged(state string) {
	if m == nil {
		return
	}
	m.stateChanges.WithLabelValues(state).Inc()
}

func (m *Metrics) SideChannelFailed(channel string) {
	if m == nil {
		return
	}
	m.sideChannelErrors.WithLabelValues(channel).Inc()
}

func (m *Metrics) SideChannelDropped(channel string) {
	if m == nil {
		return
	}
	m.sideChannelDropped.WithLabelValues(channel).Inc()
}
