// Package metrics exposes Prometheus instrumentation for searches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK                 = "ok"
	OutcomeConfigurationError = "configuration_error"
	OutcomeError              = "error"
)

// Search records per-table search counts, durations and result sizes.
// A nil *Search records nothing.
type Search struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	hits     *prometheus.HistogramVec
}

// NewSearch creates the search collectors and registers them with reg. A
// nil reg leaves them unregistered.
func NewSearch(reg prometheus.Registerer) (*Search, error) {
	m := &Search{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelsearch",
				Name:      "search_requests_total",
				Help:      "Total number of searches",
			},
			[]string{"table", "mode", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "modelsearch",
				Name:      "search_duration_seconds",
				Help:      "Search duration in seconds, count and fetch included",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"table", "mode"},
		),
		hits: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "modelsearch",
				Name:      "search_hits",
				Help:      "Rows returned per search",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
			},
			[]string{"table", "mode"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.hits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one search.
func (m *Search) Observe(table, mode, outcome string, took time.Duration, hits int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(table, mode, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.duration.WithLabelValues(table, mode).Observe(took.Seconds())
	m.hits.WithLabelValues(table, mode).Observe(float64(hits))
}
