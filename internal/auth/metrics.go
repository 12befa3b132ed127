package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

const outcomeSuccess = "success"

// Metrics counts lifecycle operations. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	codes      *prometheus.CounterVec
	conflicts  prometheus.Counter
}

// NewMetrics creates the auth collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "susi_auth_operations_total",
				Help: "Total number of account lifecycle operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		codes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "susi_auth_codes_issued_total",
				Help: "Total number of codes delivered",
			},
			[]string{"purpose"},
		),
		conflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "susi_auth_update_conflicts_total",
				Help: "Total number of account writes that lost a concurrent update",
			},
		),
	}

	reg.MustRegister(m.operations, m.codes, m.conflicts)
	return m
}

func (m *Metrics) recordOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) recordCode(purpose Purpose) {
	if m == nil {
		return
	}
	m.codes.WithLabelValues(purpose.String()).Inc()
}

func (m *Metrics) recordConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}
