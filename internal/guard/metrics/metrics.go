package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Evaluations *prometheus.CounterVec
	MemoHits    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_guard_evaluations_total",
			Help: "Route guard evaluations by variant and outcome",
		}, []string{"variant", "outcome"}),
		MemoHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campus_guard_memo_hits_total",
			Help: "Guard evaluations served from the per-slug memo",
		}),
	}
}

func (m *Metrics) IncrementEvaluation(variant, outcome string) {
	m.Evaluations.WithLabelValues(variant, outcome).Inc()
}
