package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "records_created_total",
		Help:      "Records created, by kind.",
	}, []string{"kind"})

	usagesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "protocol_usages_total",
		Help:      "Protocol usages logged, by outcome.",
	}, []string{"outcome"})

	persistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "persist_failures_total",
		Help:      "Failed snapshot writes, by collection key.",
	}, []string{"key"})
)

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
