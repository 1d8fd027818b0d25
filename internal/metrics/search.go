package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mentordex"

// Search, suggestion, analytics and indexer metrics.
var (
	SearchPlansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_plans_total",
			Help:      "Mentor searches by executed plan",
		},
		[]string{"plan"}, // "advanced" / "fallback"
	)

	SearchProbeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_probe_total",
			Help:      "Advanced index capability probes by outcome",
		},
		[]string{"result"}, // "available" / "unavailable" / "cached" / "building"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Mentor search duration in seconds, fetch and count included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"plan"},
	)

	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestion requests by kind and outcome",
		},
		[]string{"kind", "result"}, // result: "ok" / "short" / "unavailable" / "error"
	)

	AnalyticsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_cache_total",
			Help:      "Analytics snapshot cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexerDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexer_documents_total",
			Help:      "Advanced index documents written or removed",
		},
		[]string{"op"}, // "upsert" / "delete" / "push_error"
	)

	IndexerRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "indexer_run_duration_seconds",
			Help:      "Full reindex duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)
)

var registerOnce sync.Once

// Register registers every mentordex collector with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
			SearchPlansTotal,
			SearchProbeTotal,
			SearchDuration,
			SuggestionsTotal,
			AnalyticsCacheTotal,
			IndexerDocumentsTotal,
			IndexerRunDuration,
		)
	})
}
