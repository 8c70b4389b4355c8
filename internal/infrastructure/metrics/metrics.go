package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DisputeMetrics holds the metrics of the adjudication pipeline.
type DisputeMetrics struct {
	// Verdicts by source: "engine" (rule baseline) or "adjudicator".
	VerdictsIssuedTotal *prometheus.CounterVec

	// External adjudicator behavior.
	AdjudicatorFailuresTotal prometheus.Counter
	AdjudicatorDuration      prometheus.Histogram

	// Lifecycle outcomes.
	DisputesResolvedTotal prometheus.Counter
	DisputesAppealedTotal prometheus.Counter

	// Settlement triggering.
	SettlementTriggersTotal prometheus.Counter
	SettlementFailuresTotal prometheus.Counter
}

func NewDisputeMetrics(reg prometheus.Registerer) *DisputeMetrics {
	factory := promauto.With(reg)
	return &DisputeMetrics{
		VerdictsIssuedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dispute_verdicts_issued_total",
			Help: "Verdicts issued, labeled by deciding source",
		}, []string{"source"}),
		AdjudicatorFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dispute_adjudicator_failures_total",
			Help: "External adjudicator calls that fell back to the rule baseline",
		}),
		AdjudicatorDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispute_adjudicator_duration_seconds",
			Help:    "Latency of external adjudicator calls",
			Buckets: prometheus.DefBuckets,
		}),
		DisputesResolvedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "disputes_resolved_total",
			Help: "Disputes resolved by joint acceptance",
		}),
		DisputesAppealedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "disputes_appealed_total",
			Help: "Disputes escalated to admin review",
		}),
		SettlementTriggersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dispute_settlement_triggers_total",
			Help: "Settlement orders sent on dispute resolution",
		}),
		SettlementFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dispute_settlement_failures_total",
			Help: "Settlement orders that could not be delivered",
		}),
	}
}
