package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// entriesGauge tracks stored entries per ledger, including expired ones
	// not yet swept.
	// Labels: ledger (correlation, requests)
	entriesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "enrichment_ledger_entries",
			Help: "Number of entries held by each enrichment ledger",
		},
		[]string{"ledger"},
	)

	// sweptTotal counts entries removed by periodic sweeps.
	sweptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_ledger_swept_total",
			Help: "Total number of expired ledger entries removed by sweeps",
		},
		[]string{"ledger"},
	)
)
