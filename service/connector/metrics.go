package connector

import (
	"github.com/prometheus/client_golang/prometheus"
)

var callsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "evault",
	Name:      "calls_total",
	Help:      "Top level calls by result and error name.",
}, []string{"result", "code"})

func init() {
	prometheus.MustRegister(callsTotal)
}
