package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "http",
			Name:      "checkouts_total",
			Help:      "Total number of checkout attempts by result",
		},
		[]string{"result"},
	)
)

var (
	webhookOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total number of processed webhook events by outcome",
		},
		[]string{"outcome"},
	)

	webhookRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "webhook",
			Name:      "rejected_total",
			Help:      "Total number of webhook requests rejected before processing",
		},
	)

	webhookFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "webhook",
			Name:      "failed_total",
			Help:      "Total number of webhook events failed with internal errors",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		checkoutTotal,

		webhookOutcomes,
		webhookRejected,
		webhookFailed,
	)
}
