package marketplace

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	marketRequestsTotal   *prometheus.CounterVec
	marketErrorsTotal     *prometheus.CounterVec
	marketRequestDuration *prometheus.HistogramVec
)

func init() {
	marketRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_requests_total",
			Help: "Total number of marketplace API requests by method and path.",
		},
		[]string{"method", "path"},
	)
	marketErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_errors_total",
			Help: "Total number of failed marketplace API requests by method and path.",
		},
		[]string{"method", "path"},
	)
	marketRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_request_duration_seconds",
			Help:    "Marketplace API request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	prometheus.MustRegister(marketRequestsTotal, marketErrorsTotal, marketRequestDuration)
}

type requestTimer struct {
	method  string
	path    string
	started time.Time
}

func startRequestTimer(method, path string) requestTimer {
	return requestTimer{method: method, path: path, started: time.Now()}
}

func (t requestTimer) observe(ok bool) {
	marketRequestsTotal.WithLabelValues(t.method, t.path).Inc()
	marketRequestDuration.WithLabelValues(t.method, t.path).Observe(time.Since(t.started).Seconds())
	if !ok {
		marketErrorsTotal.WithLabelValues(t.method, t.path).Inc()
	}
}

func observeRequestError(method, path string) {
	marketErrorsTotal.WithLabelValues(method, path).Inc()
}
