// cmd/server/middlewares/metrics.go
package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// normalizeRoutePath returns the route template so path labels stay
// low-cardinality (e.g. "/api/notes/:id" instead of one label per note).
// Unmatched routes (404s) fall back to the raw path.
func normalizeRoutePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil {
		return route.Path
	}
	return c.Path()
}

// normalizeStatus buckets status codes into classes for the status label.
func normalizeStatus(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return strconv.Itoa(status)
}

// AttachMetrics gives the supplied Fiber app its own Prometheus registry
// and wires a /metrics endpoint plus request-timing middleware. A private
// registry keeps the default global one out of test runs that build
// several apps in one process.
func AttachMetrics(app *fiber.App) {
	reg := prometheus.NewRegistry()

	reqDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	reqInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	reg.MustRegister(reqDuration, reqTotal, reqInFlight)

	app.Use(func(c *fiber.Ctx) error {
		reqInFlight.Inc()
		start := time.Now()
		err := c.Next()
		dur := time.Since(start).Seconds()
		reqInFlight.Dec()

		method := c.Method()
		path := normalizeRoutePath(c)
		status := normalizeStatus(c.Response().StatusCode())

		reqDuration.WithLabelValues(method, path, status).Observe(dur)
		reqTotal.WithLabelValues(method, path, status).Inc()
		return err
	})

	// /metrics serves this registry only
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
}
