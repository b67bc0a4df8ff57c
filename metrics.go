package orrery

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts recording sessions, recorded instructions and replayed
// instructions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	sessions prometheus.Counter
	recorded *prometheus.CounterVec
	replayed *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orrery",
			Subsystem: "recorder",
			Name:      "sessions_total",
			Help:      "Recording sessions started.",
		}),
		recorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orrery",
				Subsystem: "recorder",
				Name:      "instructions_total",
				Help:      "Instructions captured while recording.",
			},
			[]string{"op_class"},
		),
		replayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "orrery",
				Subsystem: "replay",
				Name:      "instructions_total",
				Help:      "Instructions replayed, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.sessions, m.recorded, m.replayed)
	}
	return m
}

func (m *Metrics) sessionStarted() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) instructionRecorded(class OpClass) {
	if m == nil {
		return
	}
	m.recorded.WithLabelValues(class.String()).Inc()
}

func (m *Metrics) instructionReplayed(mode ReplayMode, outcome string) {
	if m == nil {
		return
	}
	m.replayed.WithLabelValues(mode.String(), outcome).Inc()
}
