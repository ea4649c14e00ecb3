package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the refresh pipeline collectors.
type Metrics struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	fetchDuration   *prometheus.HistogramVec
	documents       prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// NewMetrics registers the refresh collectors on reg. A nil reg uses a
// private registry, which keeps tests independent.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		refreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faculty",
			Name:      "refresh_total",
			Help:      "Total number of document refreshes by result.",
		}, []string{"result"}),
		refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "faculty",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of complete refreshes.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "faculty",
			Name:      "table_fetch_duration_seconds",
			Help:      "Duration of single table fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"table"}),
		documents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "faculty",
			Name:      "documents",
			Help:      "Number of faculty documents currently served.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "faculty",
			Name:      "last_refresh_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
	}
}
