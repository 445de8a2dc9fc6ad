package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.suretynet.io/surety/metrics"
)

var (
	airlinesAdmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "surety",
		Name:      "airlines_admitted_total",
		Help:      "Airlines admitted to the network",
	})
	policiesSold = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "surety",
		Name:      "policies_sold_total",
		Help:      "Insurance policies purchased or topped up",
	})
	flightsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "surety",
		Name:      "flights_resolved_total",
		Help:      "Flights whose status reached oracle quorum",
	})
	payoutsReleased = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "surety",
		Name:      "payouts_released_total",
		Help:      "Policy credits released to passengers",
	})
)

func registerMetrics() {
	metrics.Register(airlinesAdmitted)
	metrics.Register(policiesSold)
	metrics.Register(flightsResolved)
	metrics.Register(payoutsReleased)
}
