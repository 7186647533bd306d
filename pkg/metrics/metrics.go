package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payportal"

// Registry holds the portal's collectors. A dedicated registry keeps tests
// free of global registration conflicts.
type Registry struct {
	reg            *prometheus.Registry
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	transitions    *prometheus.CounterVec
	outboxReplayed *prometheus.CounterVec
	loginFailures  *prometheus.CounterVec
}

// New creates a registry with process and Go runtime collectors attached.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Payment status transitions by target status.",
		}, []string{"status"}),
		outboxReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_outbox_replayed_total",
			Help:      "Pending notification markers replayed by the outbox worker.",
		}, []string{"result"}),
		loginFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Rejected login attempts by actor kind.",
		}, []string{"actor"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.latency,
		r.transitions,
		r.outboxReplayed,
		r.loginFailures,
	)
	return r
}

// ObserveRequest records one served request.
func (r *Registry) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// PaymentTransitioned counts a successful status change.
func (r *Registry) PaymentTransitioned(status string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(status).Inc()
}

// OutboxReplayed counts one replay attempt; ok=false counts a failure.
func (r *Registry) OutboxReplayed(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	r.outboxReplayed.WithLabelValues(result).Inc()
}

// LoginFailed counts a rejected login for actor ("customer" or "employee").
func (r *Registry) LoginFailed(actor string) {
	if r == nil {
		return
	}
	r.loginFailures.WithLabelValues(actor).Inc()
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
