package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "photogram",
	Name:      "toggles_total",
	Help:      "Follow and like toggles by resulting state.",
}, []string{"kind", "state"})
