// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_actions_total",
			Help: "Total number of analysis actions by terminal state",
		},
		[]string{"state"},
	)

	WorkflowResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_workflow_responses_total",
			Help: "Workflow responses by HTTP status code",
		},
		[]string{"status_code"},
	)

	NormalizedEnvelopes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_normalized_envelopes_total",
			Help: "Resolved response envelopes by kind and source",
		},
		[]string{"kind", "source"},
	)

	WorkflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyzer_workflow_duration_seconds",
			Help:    "Duration of the outbound workflow call in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"state"},
	)

	AnalysesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analyzer_actions_in_flight",
			Help: "Number of analysis actions currently waiting on the workflow",
		},
	)
)
