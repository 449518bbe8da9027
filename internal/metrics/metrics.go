// Package metrics provides Prometheus instrumentation for the scoring service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GradesComputed counts product grades, partitioned by grade letter
	// (A-F or Avoid) to keep cardinality low.
	GradesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchfast_grades_computed_total",
		Help: "Total product grades computed",
	}, []string{"band"})

	// MarketsScored counts market-level aggregations, by validity.
	MarketsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchfast_markets_scored_total",
		Help: "Total market aggregations computed",
	}, []string{"valid"})

	// FallbacksApplied counts safe-math fallbacks observed in results.
	FallbacksApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "launchfast_fallbacks_applied_total",
		Help: "Numeric fallbacks applied during calculations",
	})

	// CandidatesScored counts preliminary candidate rankings.
	CandidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "launchfast_candidates_scored_total",
		Help: "Preliminary candidate scores computed",
	})

	// CacheHits counts market-result cache hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchfast_market_cache_total",
		Help: "Market result cache lookups",
	}, []string{"outcome"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchfast_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "launchfast_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// GradeBand reduces a full grade label to its letter for metric labels.
func GradeBand(grade string) string {
	if grade == "" {
		return "unknown"
	}
	if grade == "Avoid" {
		return "Avoid"
	}
	return grade[:1]
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
