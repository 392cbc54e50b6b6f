package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records conflict evaluation activity in Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	evaluations *prometheus.HistogramVec
	conflicts   *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg, or on the default registerer when reg is
// nil. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	evaluations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conflict_evaluation_duration_seconds",
		Help:    "Time spent evaluating conflicts, excluding snapshot loading",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflicts_detected_total",
		Help: "Conflicts returned by the evaluators",
	}, []string{"mode", "kind", "severity"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_cache_lookups_total",
		Help: "Day report cache lookups by result",
	}, []string{"result"})

	var err error
	if evaluations, err = register(reg, evaluations); err != nil {
		return nil, err
	}
	if conflicts, err = register(reg, conflicts); err != nil {
		return nil, err
	}
	if cache, err = register(reg, cache); err != nil {
		return nil, err
	}

	return &Metrics{evaluations: evaluations, conflicts: conflicts, cache: cache}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) ObserveEvaluation(mode string, dur time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(mode).Observe(dur.Seconds())
}

func (m *Metrics) CountConflict(mode, kind, severity string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(mode, kind, severity).Inc()
}

// CacheLookup counts a cache result: "hit", "miss" or "error".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(result).Inc()
}
