package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	resolutionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "resolution_outcomes_total", Help: "handler results by resolution outcome"},
		[]string{"outcome", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		resolutionOutcomes,
	)
}

// RecordOutcome counts one resolved handler result.
func RecordOutcome(outcome, method string) {
	resolutionOutcomes.WithLabelValues(outcome, method).Inc()
}
