// Package metrics collects and exposes Prometheus metrics for the claims
// server.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface domain services use to record business metrics.
type Recorder interface {
	RecordDecision(status string)
	RecordFraudFlag()
}

// NopRecorder discards all metrics. Useful in tests.
type NopRecorder struct{}

func (NopRecorder) RecordDecision(string) {}
func (NopRecorder) RecordFraudFlag()      {}

// Collector implements Recorder on top of a Prometheus registry and also
// provides the HTTP instrumentation middleware.
type Collector struct {
	registry    *prometheus.Registry
	decisions   *prometheus.CounterVec
	fraudFlags  prometheus.Counter
	httpStatus  *prometheus.CounterVec
	httpLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with a fresh
// registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_decisions_total",
			Help: "Adjudication decisions by resulting status.",
		}, []string{"status"}),
		fraudFlags: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "claims_fraud_flags_total",
			Help: "Claims flagged by the fraud heuristic.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_http_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(
		c.decisions,
		c.fraudFlags,
		c.httpStatus,
		c.httpLatency,
	)

	return c
}

// RecordDecision increments the decision counter for the given status.
func (c *Collector) RecordDecision(status string) {
	c.decisions.WithLabelValues(status).Inc()
}

// RecordFraudFlag increments the fraud flag counter.
func (c *Collector) RecordFraudFlag() {
	c.fraudFlags.Inc()
}

// Middleware returns echo middleware recording response codes and latency.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			start := time.Now()
			err := next(ec)
			c.httpLatency.Observe(time.Since(start).Seconds())
			c.httpStatus.WithLabelValues(strconv.Itoa(ec.Response().Status)).Inc()
			return err
		}
	}
}

// Handler returns the /metrics exposition endpoint.
func (c *Collector) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ec echo.Context) error {
		h.ServeHTTP(ec.Response(), ec.Request())
		return nil
	}
}
