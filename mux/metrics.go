package mux

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fallback reasons reported by the fallbacks counter.
const (
	fallbackTooManyForwards = "too_many_forwards"
	fallbackExceptionFailed = "exception_failed"
)

// Metrics counts routing activity. A nil *Metrics records nothing.
type Metrics struct {
	attempts  *prometheus.CounterVec
	forwards  prometheus.Counter
	fallbacks *prometheus.CounterVec
}

// NewMetrics creates the routing counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchyard_routing_attempts_total",
				Help: "Count of routing attempts by routing type.",
			},
			[]string{"routing_type"},
		),
		forwards: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "switchyard_forwards_total",
				Help: "Count of forwards requested by handlers.",
			},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchyard_fallbacks_total",
				Help: "Count of responses written by the fallback exception writer.",
			},
			[]string{"reason"},
		),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.forwards, m.fallbacks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) routingAttempt(typ RoutingType) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(typ.String()).Inc()
}

func (m *Metrics) forward() {
	if m == nil {
		return
	}
	m.forwards.Inc()
}

func (m *Metrics) fallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}
