package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gauravmindaptix26/leaado-backend/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_ingested_total",
			Help: "Leads offered for ingestion, by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	pitchDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_dispatch_total",
			Help: "Pitch service calls by result",
		},
		[]string{"result"},
	)

	pitchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pitch_dispatch_duration_seconds",
			Help:    "Duration of pitch service calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 8, 16},
		},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// routeLabel returns the chi route pattern so path parameters don't blow up
// label cardinality.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := wrap(w)
		next.ServeHTTP(rw, r)

		route := routeLabel(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// LeadMetrics records ingestion and pitch outcomes in Prometheus.
type LeadMetrics struct{}

func NewLeadMetrics() *LeadMetrics {
	return &LeadMetrics{}
}

func (LeadMetrics) ObserveIngested(source entity.SourceType, inserted, skipped int) {
	leadsIngested.WithLabelValues(string(source), "inserted").Add(float64(inserted))
	leadsIngested.WithLabelValues(string(source), "skipped").Add(float64(skipped))
}

func (LeadMetrics) ObservePitch(result entity.PitchResult, elapsed time.Duration) {
	pitchDispatches.WithLabelValues(string(result)).Inc()
	pitchDuration.Observe(elapsed.Seconds())
}
