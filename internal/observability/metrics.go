package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartpath"

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status class.",
		},
		[]string{"method", "route", "status"},
	)

	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_requests_inflight",
		Help:      "HTTP requests currently being served.",
	})

	// StoreFallbacks counts graph reads served from the static catalogue instead of the primary store.
	StoreFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_store_fallbacks_total",
			Help:      "Graph store reads answered from the static catalogue.",
		},
		[]string{"operation", "reason"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state transitions.",
		},
		[]string{"name", "from", "to"},
	)

	CacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_results_total",
			Help:      "Catalogue cache lookups by operation and result (hit, miss, error).",
		},
		[]string{"operation", "result"},
	)

	UnmappedScores = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "knowledge_unmapped_scores_total",
		Help:      "Scored courses skipped because no knowledge domain mapping exists.",
	})

	Recommendations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendations_returned",
		Help:      "Number of recommendations returned per request.",
		Buckets:   prometheus.LinearBuckets(0, 2, 11),
	})
)

// StatusClass buckets an HTTP status code into "2xx", "4xx" and so on.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
