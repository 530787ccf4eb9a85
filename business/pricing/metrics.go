package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PredictionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_prediction_requests_total",
			Help: "Count of price prediction requests by caller type, segment, and outcome.",
		},
		[]string{"caller", "segment", "outcome"},
	)

	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_prediction_latency_seconds",
		Help:    "Latency of the full prediction pipeline.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		PredictionRequestsTotal,
		PredictionLatency,
	)
}
