package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/event"
)

const namespace = "drawboard"

// Metrics counts board activity from the event bus.
type Metrics struct {
	draws   *prometheus.CounterVec
	notices *prometheus.CounterVec
	cues    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Draw sessions by board and outcome.",
		}, []string{"variant", "outcome"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "User-facing notices by board and kind.",
		}, []string{"variant", "kind"}),
		cues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cues_total",
			Help:      "Feedback cues played.",
		}, []string{"cue"}),
	}

	for _, c := range []prometheus.Collector{m.draws, m.notices, m.cues} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Observe subscribes the counters to eb.
func (m *Metrics) Observe(eb *event.Bus) {
	eb.SubscribeAll([]string{
		domain.EventNameDrawStarted,
		domain.EventNameDrawRevealed,
		domain.EventNameDrawCancelled,
		domain.EventNameDrawReset,
		domain.EventNameNoticeRaised,
		domain.EventNameCuePlayed,
	}, func(_ context.Context, e event.Event) error {
		m.Record(e)
		return nil
	})
}

func (m *Metrics) Record(e event.Event) {
	switch e := e.(type) {
	case domain.EventDrawStarted:
		m.draws.WithLabelValues(string(e.Variant), "started").Inc()
	case domain.EventDrawRevealed:
		m.draws.WithLabelValues(string(e.Variant), "revealed").Inc()
	case domain.EventDrawCancelled:
		m.draws.WithLabelValues(string(e.Variant), "cancelled").Inc()
	case domain.EventDrawReset:
		m.draws.WithLabelValues(string(e.Variant), "reset").Inc()
	case domain.EventNoticeRaised:
		m.notices.WithLabelValues(string(e.Variant), e.Kind).Inc()
	case domain.EventCuePlayed:
		m.cues.WithLabelValues(string(e.Cue)).Inc()
	}
}
