package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores del relay. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	events      *prometheus.CounterVec
	dispatch    *prometheus.CounterVec
	invocations *prometheus.CounterVec
}

// New registra los contadores en reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_events_total",
				Help: "Change events processed, by event kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		dispatch: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_dispatch_total",
				Help: "Outbound messages dispatched, by channel and result",
			},
			[]string{"channel", "result"},
		),
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_invocations_total",
				Help: "Batch invocations, by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) RecordEvent(kind, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordDispatch(channel string, succeeded bool) {
	if m == nil {
		return
	}
	m.dispatch.WithLabelValues(channel, result(succeeded)).Inc()
}

func (m *Metrics) RecordInvocation(err error) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
