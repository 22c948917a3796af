package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search pipeline metrics. Synthesis outcomes are distinguished here even
// though they all collapse to "no answer" in the response.
var (
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Search requests by result status.",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_request_duration_seconds",
			Help:    "End-to-end search request duration.",
			Buckets: prometheus.DefBuckets,
		},
	)

	SynthesisOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthesis_outcomes_total",
			Help: "Answer synthesis attempts by outcome (success, timeout, failure, cached).",
		},
		[]string{"outcome"},
	)

	SynthesisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synthesis_duration_seconds",
			Help:    "Answer synthesis call duration.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	AdminMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_user_mutations_total",
			Help: "User lifecycle mutations by operation.",
		},
		[]string{"operation"},
	)
)
