package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	customMiddleware "github.com/skateshop/storefront/internal/infrastructure/httpserver/middleware"
)

const metricsNamespace = "storefront"

var httpMetrics = customMiddleware.HTTPMetrics{
	RequestsTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "endpoint", "status"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	),
	InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served",
	}),
	SessionsMinted: prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "cart_sessions_minted_total",
		Help:      "Cart sessions created for requests without a valid session id",
	}),
}

func init() {
	prometheus.MustRegister(
		httpMetrics.RequestsTotal,
		httpMetrics.RequestDuration,
		httpMetrics.InFlight,
		httpMetrics.SessionsMinted,
	)
}

// LogMetricsInitialization logs which metrics the server exposes.
func (s *Server) LogMetricsInitialization() {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"http_requests_total":        "Counter for HTTP requests by method, endpoint, status",
		"http_request_duration":      "Histogram for HTTP request duration by method, endpoint",
		"http_requests_in_flight":    "Gauge of requests being served",
		"cart_sessions_minted_total": "Counter of new cart sessions",
		"cart_mutations_total":       "Counter of cart mutations by action",
		"metrics_endpoint":           "/metrics",
	}).Debug("Available Prometheus metrics")
}

// metricsEndpoint serves the default registry.
func (s *Server) metricsEndpoint(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
