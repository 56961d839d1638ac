// Package metrics exposes Prometheus instrumentation for the phonebook.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks HTTP traffic and phonebook outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	PersonsCreated     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phonebook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		PersonsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_persons_created_total",
			Help: "Total number of persons created",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_validation_failures_total",
			Help: "Total number of rejected candidates by violation",
		}, []string{"violation"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_store_errors_total",
			Help: "Total number of record store failures by operation",
		}, []string{"operation"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latencies per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// IncPersonsCreated records a successful create.
func (m *Metrics) IncPersonsCreated() {
	if m == nil {
		return
	}
	m.PersonsCreated.Inc()
}

// IncValidationFailure records a candidate rejected for violation.
func (m *Metrics) IncValidationFailure(violation string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(violation).Inc()
}

// IncStoreError records a record store failure during operation.
func (m *Metrics) IncStoreError(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}
