package llm

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts completions per agent operation.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers agent_llm_requests_total on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_llm_requests_total",
				Help: "Total number of LLM completions by agent operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one completion. A nil Metrics records nothing.
func (m *Metrics) Observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
}
