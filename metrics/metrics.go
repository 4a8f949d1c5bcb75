package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what the derived-state engine does. Label "entity" is
// "game" or "series".
type Metrics struct {
	Recomputes        *prometheus.CounterVec
	DerivedWrites     *prometheus.CounterVec
	ConsistencyErrors prometheus.Counter
	SlugRetries       prometheus.Counter
	StatusChanges     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Recomputes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tracker_recompute_total", Help: "Derived state recomputations run"},
			[]string{"entity"},
		),
		DerivedWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tracker_derived_writes_total", Help: "Recomputations that changed stored state"},
			[]string{"entity"},
		),
		ConsistencyErrors: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tracker_consistency_errors_total", Help: "Writes rolled back on inconsistent derived state"},
		),
		SlugRetries: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tracker_slug_retries_total", Help: "Slug allocations retried after a unique violation"},
		),
		StatusChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tracker_status_changes_total", Help: "Tournament and stage status transitions written"},
			[]string{"entity"},
		),
	}
	reg.MustRegister(m.Recomputes, m.DerivedWrites, m.ConsistencyErrors, m.SlugRetries, m.StatusChanges)
	return m
}

// NewNoop returns metrics registered on a private registry, for tests and
// tools that do not expose /metrics.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}
