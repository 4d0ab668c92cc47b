package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Lookups          *prometheus.CounterVec
	FormatRejections prometheus.Counter
	ResolveDuration  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_tenant_lookups_total",
			Help: "Tenant existence lookups by result",
		}, []string{"result"}),
		FormatRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campus_tenant_format_rejections_total",
			Help: "Slugs rejected locally before any remote call",
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campus_tenant_resolve_duration_seconds",
			Help:    "Duration of tenant resolve operations (guard critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementLookup(result string) {
	m.Lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
