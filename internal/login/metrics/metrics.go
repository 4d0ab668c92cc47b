package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Probes *prometheus.CounterVec
	Logins *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Probes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_email_probes_total",
			Help: "Email classification probes by outcome",
		}, []string{"outcome"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_logins_total",
			Help: "Login attempts by account class and outcome",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) IncrementProbe(outcome string) {
	m.Probes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementLogin(kind, outcome string) {
	m.Logins.WithLabelValues(kind, outcome).Inc()
}
