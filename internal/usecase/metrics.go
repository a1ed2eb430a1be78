package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Orders created at the park backend, by group type",
		},
		[]string{"type"},
	)

	groupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_group_failures_total",
			Help: "Order groups that failed to submit, by reason",
		},
		[]string{"reason"},
	)

	checkoutOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout attempts by final outcome",
		},
		[]string{"outcome"},
	)
)
