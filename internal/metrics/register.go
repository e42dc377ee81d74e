package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			ModelRequestsTotal,
			ModelRequestDuration,
			ModelRetriesTotal,
			EmbeddingTokensTotal,
			EmbeddingCacheTotal,
			RetrievalAttemptsTotal,
			WebSearchTotal,
			ConfidenceScore,
			PlanBranchTotal,
			PrunedRecordsTotal,
		)
	})
}
