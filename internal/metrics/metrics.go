package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "topicbridge"

// Stage labels.
const (
	StageSummary  = "summary"
	StageDeepDive = "deep_dive"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	synthesisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_requests_total",
			Help:      "Generation requests by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	synthesisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Duration of generation requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
		[]string{"stage"},
	)

	enrichedCopies = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enriched_copies",
			Help:      "Number of record copies updated per deep dive merge",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	feedPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_polls_total",
			Help:      "Background feed checks by result",
		},
		[]string{"result"}, // "new", "none", "error"
	)

	pendingUpdates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_updates",
			Help:      "Feed updates flagged but not yet synced",
		},
	)

	refreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_refreshes_total",
			Help:      "User-triggered feed refreshes",
		},
	)

	reportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cocoon_reports_total",
			Help:      "Cocoon reports generated",
		},
	)
)

// ObserveSynthesis records one generation call.
func ObserveSynthesis(stage, outcome string, took time.Duration) {
	synthesisTotal.WithLabelValues(stage, outcome).Inc()
	synthesisDuration.WithLabelValues(stage).Observe(took.Seconds())
}

// ObserveEnrichment records how many copies a merge touched.
func ObserveEnrichment(copies int) {
	enrichedCopies.Observe(float64(copies))
}

// ObservePoll records one feed check.
func ObservePoll(result string) {
	feedPollsTotal.WithLabelValues(result).Inc()
}

// SetPendingUpdates mirrors the session's pending counter.
func SetPendingUpdates(n int) {
	pendingUpdates.Set(float64(n))
}

// IncRefresh counts a started refresh.
func IncRefresh() {
	refreshesTotal.Inc()
}

// IncReport counts a generated report.
func IncReport() {
	reportsTotal.Inc()
}
