package careerapi

import "github.com/prometheus/client_golang/prometheus"

func RequestsCounter(endpoint, outcome string) prometheus.Counter {
	return requests.WithLabelValues(endpoint, outcome)
}
