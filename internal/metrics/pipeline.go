package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline metrics.
var (
	RetrievalAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_attempts_total",
			Help:      "DataVault searches by filter tier and outcome",
		},
		[]string{"tier", "result"}, // tier: primary/relaxed/none, result: hit/empty
	)

	WebSearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "web_search_total",
			Help:      "Live web searches by trigger and outcome",
		},
		[]string{"trigger", "result"}, // trigger: geographic/gate/fallback, result: hit/empty/error
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "datavault_confidence_score",
			Help:      "Model-rated DataVault confidence (1-10)",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
	)

	PlanBranchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_branch_total",
			Help:      "Tool plans by decision branch",
		},
		[]string{"branch"},
	)

	PrunedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_records_total",
			Help:      "Expired DataVault event records deleted",
		},
	)
)
