package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ProcessedTotal prometheus.Counter
	ResultsTotal   *prometheus.CounterVec
	InFlight       prometheus.Gauge
	ProbeDuration  prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		ProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "urlcheck_urls_processed_total",
			Help: "The total number of URLs processed",
		}),
		ResultsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "urlcheck_results_total",
			Help: "Completed checks grouped by error type",
		}, []string{"type"}), // e.g. 'Success', 'Timeout', 'DNS Error'
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "urlcheck_probes_in_flight",
			Help: "Probes currently running",
		}),
		ProbeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlcheck_probe_duration_seconds",
			Help:    "Wall time of a single probe including the rate gate",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

func (m *Metrics) IncProcessed() {
	m.ProcessedTotal.Inc()
}

func (m *Metrics) IncResult(errorType string) {
	m.ResultsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveProbe(seconds float64) {
	m.ProbeDuration.Observe(seconds)
}
