package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type BusinessMetrics struct {
	EditsCommittedTotal prometheus.Counter
	EditsRejectedTotal  *prometheus.CounterVec
}

var Business = BusinessMetrics{
	EditsCommittedTotal: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customer_engine_edits_committed_total",
			Help: "Total number of customer edit commands that were persisted.",
		},
	),
	EditsRejectedTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customer_engine_edits_rejected_total",
			Help: "Total number of customer edit commands rejected before the write.",
		},
		[]string{"reason"},
	),
}

func RecordEditCommitted() {
	Business.EditsCommittedTotal.Inc()
}

func RecordEditRejected(reason string) {
	Business.EditsRejectedTotal.WithLabelValues(reason).Inc()
}
