package careerapi

import "github.com/prometheus/client_golang/prometheus"

var requests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "navigator",
	Subsystem: "career_api",
	Name:      "requests_total",
	Help:      "Calls to the career API by endpoint and outcome (ok, status, transport, decode).",
}, []string{"endpoint", "outcome"})

func RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(requests)
}
