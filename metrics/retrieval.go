// Package metrics exposes Prometheus collectors for the translation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"plainlaw-backend/retrieval"
)

// Retrieval Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlaw",
			Name:      "retrieval_requests_total",
			Help:      "Total number of similar-translation lookups",
		},
		[]string{"outcome"}, // matched, empty, skipped, failed
	)

	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plainlaw",
			Name:      "retrieval_duration_seconds",
			Help:      "Similar-translation lookup duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RetrievalCandidatesScored = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plainlaw",
			Name:      "retrieval_candidates_scored",
			Help:      "Corpus documents scored per lookup",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 75, 100},
		},
	)

	RetrievalFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlaw",
			Name:      "retrieval_failures_total",
			Help:      "Total retrieval failures absorbed by the engine",
		},
		[]string{"kind"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalCandidatesScored)
	prometheus.MustRegister(RetrievalFailuresTotal)
	retrievalMetricsRegistered = true
}

// RetrievalObserver feeds engine telemetry into the retrieval collectors.
type RetrievalObserver struct{}

// NewRetrievalObserver returns an observer backed by the package collectors.
func NewRetrievalObserver() *RetrievalObserver {
	return &RetrievalObserver{}
}

// ObserveRetrieval records one lookup.
func (*RetrievalObserver) ObserveRetrieval(outcome string, scored int, elapsed time.Duration) {
	RetrievalRequestsTotal.WithLabelValues(outcome).Inc()
	RetrievalDuration.Observe(elapsed.Seconds())
	RetrievalCandidatesScored.Observe(float64(scored))
}

// ObserveFailure records an absorbed failure.
func (*RetrievalObserver) ObserveFailure(kind retrieval.ErrorKind) {
	RetrievalFailuresTotal.WithLabelValues(string(kind)).Inc()
}

var _ retrieval.Observer = (*RetrievalObserver)(nil)
