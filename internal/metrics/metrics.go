// Package metrics exposes Prometheus metrics for the form intake backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mkprime",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mkprime",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks current in-flight requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mkprime",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

var (
	// FormSubmissionsTotal counts form submissions by kind and outcome.
	// Outcomes: accepted, validation_failed, delivery_failed.
	FormSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mkprime",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Total number of form submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// MailDeliveriesTotal counts delivery attempts by transport and outcome
	MailDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mkprime",
			Subsystem: "mail",
			Name:      "deliveries_total",
			Help:      "Total number of mail delivery attempts by transport and outcome",
		},
		[]string{"transport", "outcome"},
	)

	// MailDeliveryDuration measures delivery attempt duration in seconds
	MailDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mkprime",
			Subsystem: "mail",
			Name:      "delivery_duration_seconds",
			Help:      "Mail delivery attempt duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"transport"},
	)

	// GeoLookupsTotal counts visitor country lookups by outcome
	GeoLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mkprime",
			Subsystem: "geo",
			Name:      "lookups_total",
			Help:      "Total number of visitor country lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordSubmission records a form submission outcome.
func RecordSubmission(kind, outcome string) {
	FormSubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordDelivery records a delivery attempt and its duration.
func RecordDelivery(transport, outcome string, duration time.Duration) {
	MailDeliveriesTotal.WithLabelValues(transport, outcome).Inc()
	MailDeliveryDuration.WithLabelValues(transport).Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a chi middleware that records HTTP metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		path := getRoutePattern(r)

		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// getRoutePattern returns the route pattern from chi context
// Falls back to URL path if pattern not available
func getRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
