// Package metrics holds the process-wide prometheus collectors. The set is
// constructed once at startup and handed to the handlers that record into
// it; counters only ever reset on process restart, and exposition through
// the registry is a pure read.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook ingestion outcomes.
const (
	ResultCreated          = "new"
	ResultDuplicate        = "duplicate"
	ResultInvalidSignature = "invalid_signature"
	ResultValidationError  = "validation_error"
	ResultError            = "error"
)

// Metrics is the collector set.
type Metrics struct {
	requests *prometheus.CounterVec
	webhooks *prometheus.CounterVec
	latency  prometheus.Histogram
}

// New registers the collectors and returns the set.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inlet",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by path and status code",
			},
			[]string{"path", "status"},
		),
		webhooks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inlet",
				Name:      "webhook_requests_total",
				Help:      "Total webhook ingestion attempts by outcome",
			},
			[]string{"result"},
		),
		latency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "inlet",
				Name:      "request_latency_ms",
				Help:      "Request duration in milliseconds",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
		),
	}
}

// RecordWebhookResult counts one ingestion outcome.
func (m *Metrics) RecordWebhookResult(result string) {
	m.webhooks.WithLabelValues(result).Inc()
}

// Middleware records one observation per request into the request counter
// and the latency histogram. The route template is used as the path label to
// bound cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// commit the error response so the recorded status is final
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			m.requests.WithLabelValues(path, strconv.Itoa(c.Response().Status)).Inc()
			m.latency.Observe(float64(time.Since(start).Microseconds()) / 1000.0)

			return err
		}
	}
}
