package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — метрики импорта инвентаря.
type Metrics struct {
	Rows           *prometheus.CounterVec
	ImportDuration prometheus.Histogram
	LookupDuration *prometheus.HistogramVec
}

// New регистрирует метрики в переданном реестре (nil — реестр по умолчанию).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "envanter_import_rows_total",
			Help: "Imported rows by outcome",
		}, []string{"outcome"}), // inserted, invalid, conflict, persist_failed

		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "envanter_import_duration_seconds",
			Help:    "Duration of a whole import run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		LookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "envanter_import_lookup_duration_seconds",
			Help:    "Duration of unique key existence lookups",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"key"}),
	}
}

func (m *Metrics) ObserveLookup(key string, d time.Duration) {
	if m != nil {
		m.LookupDuration.WithLabelValues(key).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveImport(d time.Duration) {
	if m != nil {
		m.ImportDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) AddRows(outcome string, n int) {
	if m != nil && n > 0 {
		m.Rows.WithLabelValues(outcome).Add(float64(n))
	}
}
