package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Metrics holds the editor's Prometheus collectors.
type Metrics struct {
	mutations  *prometheus.CounterVec
	syncErrors *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Pass a dedicated registry
// in tests; prometheus.DefaultRegisterer is fine for binaries.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kinmap",
			Name:      "mutations_total",
			Help:      "Committed document mutations by operation and entity.",
		}, []string{"op", "entity"}),
		syncErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kinmap",
			Name:      "sync_errors_total",
			Help:      "Failed pushes to the external system-of-record by entity.",
		}, []string{"entity"}),
	}
	reg.MustRegister(m.mutations, m.syncErrors)
	return m
}

// EditorStats mirrors the counts an editor snapshot exposes. It is a plain
// struct so callers can convert their own stats type directly.
type EditorStats struct {
	People        int
	Relationships int
	Households    int
	Annotations   int
	UndoDepth     int
	RedoDepth     int
}

// RegisterEditorGauges registers gauges that sample entity counts and history
// depth on every scrape. The sample func must be safe for concurrent use.
func RegisterEditorGauges(reg prometheus.Registerer, sample func() EditorStats) {
	entity := func(kind string, get func(EditorStats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "kinmap",
			Name:        "entities",
			Help:        "Entities in the current document by kind.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}, func() float64 { return float64(get(sample())) })
	}
	depth := func(stack string, get func(EditorStats) int) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "kinmap",
			Name:        "history_depth",
			Help:        "Undo and redo stack sizes.",
			ConstLabels: prometheus.Labels{"stack": stack},
		}, func() float64 { return float64(get(sample())) })
	}
	reg.MustRegister(
		entity("person", func(s EditorStats) int { return s.People }),
		entity("relationship", func(s EditorStats) int { return s.Relationships }),
		entity("household", func(s EditorStats) int { return s.Households }),
		entity("annotation", func(s EditorStats) int { return s.Annotations }),
		depth("undo", func(s EditorStats) int { return s.UndoDepth }),
		depth("redo", func(s EditorStats) int { return s.RedoDepth }),
	)
}

// Hooks returns editor hooks that feed the collectors. Chain them with any
// caller-supplied hooks via domain.Hooks composition in the editor options.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnMutation: func(ctx context.Context, ev *domain.MutationEvent) {
			m.mutations.WithLabelValues(string(ev.Op), string(ev.Entity)).Inc()
		},
		OnSyncError: func(ctx context.Context, ev *domain.SyncErrorEvent) {
			m.syncErrors.WithLabelValues(string(ev.Entity)).Inc()
		},
	}
}
