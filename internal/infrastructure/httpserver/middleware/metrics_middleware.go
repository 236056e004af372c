package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skateshop/storefront/internal/infrastructure/httpserver/helpers"
)

// HTTPMetrics groups the collectors the metrics middleware feeds.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
	SessionsMinted  prometheus.Counter
}

type MetricsMiddleware struct {
	m HTTPMetrics
}

func NewMetricsMiddleware(m HTTPMetrics) *MetricsMiddleware {
	return &MetricsMiddleware{m: m}
}

// CollectHTTPMetrics records one observation per request. Requests that match no route are
// labelled "unmatched" to keep label cardinality bounded.
func (m *MetricsMiddleware) CollectHTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.m.InFlight != nil {
				m.m.InFlight.Inc()
				defer m.m.InFlight.Dec()
			}
			start := time.Now()

			err := next(c)
			if err != nil {
				// let echo write the error so the recorded status is the final one
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.m.RequestsTotal.WithLabelValues(method, path, status).Inc()
			m.m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			if m.m.SessionsMinted != nil && helpers.IsNewSession(c) {
				m.m.SessionsMinted.Inc()
			}
			return nil
		}
	}
}
