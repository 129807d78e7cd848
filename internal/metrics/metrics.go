package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsSubmitted counts shield/unshield submissions by kind and result
	OperationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_operations_submitted_total",
			Help: "Total number of shield/unshield submissions",
		},
		[]string{"kind", "result"},
	)

	// ConfirmationDuration tracks how long confirmation waits block, by outcome
	ConfirmationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "privacy_confirmation_duration_seconds",
			Help:    "Duration of confirmation waits in seconds",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 70, 120},
		},
		[]string{"outcome"},
	)

	// ConfirmationPolls counts individual status queries made while waiting
	ConfirmationPolls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "privacy_confirmation_polls_total",
			Help: "Total number of operation status polls",
		},
	)

	// StatusChecks counts funds status checks by result
	StatusChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacy_status_checks_total",
			Help: "Total number of funds status checks",
		},
		[]string{"result"},
	)

	// WalletsDerived counts incognito wallet derivations
	WalletsDerived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "privacy_wallets_derived_total",
			Help: "Total number of incognito wallets derived",
		},
	)
)
