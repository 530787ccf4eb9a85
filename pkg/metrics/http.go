package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of all HTTP handlers
	HTTPRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_latency_seconds",
		Help:    "Latency of HTTP requests by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Total HTTP requests by status class
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestLatency,
		HTTPRequestsTotal,
	)
}
