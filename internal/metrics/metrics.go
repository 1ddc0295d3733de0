// Package metrics exposes Prometheus counters for the rewrite pipeline.
// A CLI run has no scrape endpoint, so the registry is dumped in text
// exposition format to a file at exit when asked.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	AttemptsTotal   *prometheus.CounterVec
	AttemptDuration *prometheus.HistogramVec

	RewritesTotal *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// New registers all collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		AttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindcheck_rewrite_attempts_total",
				Help: "Total number of rewrite attempts by engine, mode and outcome",
			},
			[]string{"engine", "mode", "outcome"},
		),
		AttemptDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindcheck_rewrite_attempt_duration_seconds",
				Help:    "Rewrite attempt duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
			},
			[]string{"engine"},
		),

		RewritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindcheck_rewrites_total",
				Help: "Total number of completed rewrites by result",
			},
			[]string{"result"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindcheck_rewrite_cache_hits_total",
				Help: "Total number of rewrite cache hits",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindcheck_rewrite_cache_misses_total",
				Help: "Total number of rewrite cache misses",
			},
		),
	}
}

// RecordAttempt counts one generation attempt. Safe on a nil receiver.
func (m *Metrics) RecordAttempt(engine string, strict bool, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	mode := "normal"
	if strict {
		mode = "strict"
	}
	m.AttemptsTotal.WithLabelValues(engine, mode, outcome).Inc()
	m.AttemptDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// RecordRewrite counts a finished rewrite as "accepted" or "fallback".
func (m *Metrics) RecordRewrite(accepted bool) {
	if m == nil {
		return
	}
	result := "fallback"
	if accepted {
		result = "accepted"
	}
	m.RewritesTotal.WithLabelValues(result).Inc()
}

// RecordCache counts a cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissesTotal.Inc()
	}
}

// WriteFile writes the registry in text exposition format to path.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
