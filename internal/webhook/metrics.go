package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// deliveriesTotal counts decoded webhook deliveries.
	// Labels: kind (people, legacy, unrecognized)
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_webhook_deliveries_total",
			Help: "Total number of phone webhook deliveries by payload kind",
		},
		[]string{"kind"},
	)

	// reconciledTotal counts per-person reconciliation outcomes.
	// Labels: outcome (updated, untracked, already_completed, no_contact, failed, no_phones)
	reconciledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_webhook_reconciled_total",
			Help: "Total number of webhook person entries by reconciliation outcome",
		},
		[]string{"outcome"},
	)
)
