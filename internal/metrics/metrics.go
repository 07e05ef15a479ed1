package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests sent to the storefront backend.",
		},
		[]string{"code", "method", "route"},
	)
	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of backend requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	backendRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "backend_requests_in_flight",
			Help: "Current number of backend requests awaiting a response.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type routeKey struct{}

// WithRoute labels the backend calls made with ctx by their route pattern
// (e.g. /products/{id}) instead of the raw path.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeOf(r *http.Request) string {
	if route, ok := r.Context().Value(routeKey{}).(string); ok && route != "" {
		return route
	}

	return r.URL.Path
}

type transport struct {
	next http.RoundTripper
}

// Transport wraps next and records count, latency and in-flight requests.
// Transport failures are counted with code "error".
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &transport{next: next}
}

func (t *transport) RoundTrip(r *http.Request) (*http.Response, error) {

	start := time.Now()
	backendRequestsInFlight.Inc()

	route := routeOf(r)
	code := "error"

	defer func() {

		backendRequestsTotal.WithLabelValues(code, r.Method, route).Inc()
		backendRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		backendRequestsInFlight.Dec()

	}()

	resp, err := t.next.RoundTrip(r)
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	return resp, err
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
