// Package observability holds logging and the Prometheus metrics for the
// bookstore API. It is the single source of truth for metric names, labels,
// and help strings.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "bookstore"

// RequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP verb
//   - path: registered route pattern
//   - status: numeric response status
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "path", "status"},
)

// RequestDuration measures request latency end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "failure", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ErrorsTotal counts requests that resolved to a DomainError.
// Label:
//   - code: DomainError code (e.g. "UNAUTHORIZED", "FORBIDDEN")
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of requests resolved to an application error.",
	},
	[]string{"code"},
)

// ServeMetrics exposes /metrics on its own listener so scrapes bypass the
// application middleware chain.
func ServeMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()
}
