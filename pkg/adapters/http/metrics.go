package http

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments of the chatbot host.
type Metrics struct {
	// Turns counts conversational turns by outcome ("ok" or "error").
	Turns *prometheus.CounterVec

	// Sessions counts sessions started.
	Sessions prometheus.Counter
}

// NewMetrics registers the chatbot metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "botstory_turns_total",
				Help: "Total number of conversational turns",
			},
			[]string{"outcome"},
		),
		Sessions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "botstory_sessions_started_total",
				Help: "Total number of sessions started",
			},
		),
	}
	reg.MustRegister(m.Turns, m.Sessions)
	return m
}
