// Package metrics exposes Prometheus instrumentation for authorization
// decisions and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/authz"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskboard"

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry     *prom.Registry
	decisions    *prom.CounterVec
	httpDuration *prom.HistogramVec
}

// New creates a registry with process and Go runtime collectors plus the
// application metrics.
func New() *Metrics {
	registry := prom.NewRegistry()

	m := &Metrics{
		registry: registry,
		decisions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Authorization decisions by action, outcome and deny reason.",
		}, []string{"action", "outcome", "reason"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.decisions,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prom.Registry {
	return m.registry
}

// ObserveDecision counts one authorization decision.
func (m *Metrics) ObserveDecision(action authz.Action, d authz.Decision) {
	outcome := "allow"
	if !d.Allowed {
		outcome = "deny"
	}
	m.decisions.WithLabelValues(string(action), outcome, string(d.Reason)).Inc()
}

var _ authz.DecisionObserver = (*Metrics)(nil)

// GinMiddleware records request latency. Unmatched routes share a single
// label so arbitrary paths cannot grow the series count.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
