package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webspace_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webspace_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webspace_analyses_total",
			Help: "Total number of pass analyses, by outcome.",
		},
		[]string{"outcome"},
	)

	satellitesScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webspace_satellites_scanned_total",
			Help: "Total number of element sets scanned across all analyses.",
		},
	)

	passesDetectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webspace_passes_detected_total",
			Help: "Total number of completed passes detected.",
		},
	)

	analyzeDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webspace_analyze_duration_seconds",
			Help:    "Wall time of one analysis batch in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(analysesTotal)
	prometheus.MustRegister(satellitesScannedTotal)
	prometheus.MustRegister(passesDetectedTotal)
	prometheus.MustRegister(analyzeDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalysis records one finished analysis batch.
func RecordAnalysis(outcome string, satellites, passCount int, elapsed time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	satellitesScannedTotal.Add(float64(satellites))
	passesDetectedTotal.Add(float64(passCount))
	analyzeDurationSeconds.Observe(elapsed.Seconds())
}

// normalizeRoute maps a request path onto a bounded label set. Unknown paths
// (bot probes, typos) collapse to one label so they cannot blow up metric
// cardinality.
func normalizeRoute(path string) string {
	switch path {
	case "/healthz", "/readyz", "/metrics", "/", "/api/v1/analyze", "/api/v1/options":
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
