package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups HTTP and domain collectors registered on one registry.
// A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	submitted   *prometheus.CounterVec
	events      *prometheus.CounterVec
	batchedRows prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_applications_submitted_total",
			Help: "Loan applications submitted, by eligibility preview.",
		}, []string{"eligible"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_application_events_total",
			Help: "Loan events appended, by type.",
		}, []string{"type"}),
		batchedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loan_batch_updated_rows_total",
			Help: "Applications changed through batch status updates.",
		}),
	}
	m.registry.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.submitted, m.events, m.batchedRows,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ApplicationSubmitted(eligible bool) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(strconv.FormatBool(eligible)).Inc()
}

func (m *Metrics) EventsAppended(eventType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.events.WithLabelValues(eventType).Add(float64(n))
}

func (m *Metrics) BatchUpdated(rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.batchedRows.Add(float64(rows))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records RPS, latency and in-flight requests per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.httpInFlight.Inc()
			defer m.httpInFlight.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			m.httpRequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())
			m.httpRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			return nil
		}
	}
}
