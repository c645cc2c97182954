package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/observability"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestMetrics_CountsHookEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewMetrics(reg).Hooks()
	ctx := context.Background()

	hooks.OnMutation(ctx, &domain.MutationEvent{Op: domain.OpAdd, Entity: domain.EntityPerson})
	hooks.OnMutation(ctx, &domain.MutationEvent{Op: domain.OpAdd, Entity: domain.EntityPerson})
	hooks.OnMutation(ctx, &domain.MutationEvent{Op: domain.OpDelete, Entity: domain.EntityRelationship})
	hooks.OnSyncError(ctx, &domain.SyncErrorEvent{Entity: domain.EntityPerson, Err: errors.New("down")})

	assert.Equal(t, 2.0, counterValue(t, reg, "kinmap_mutations_total",
		map[string]string{"op": "add", "entity": "person"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "kinmap_mutations_total",
		map[string]string{"op": "delete", "entity": "relationship"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "kinmap_sync_errors_total",
		map[string]string{"entity": "person"}))
}

func TestRegisterEditorGauges_SamplesOnScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := observability.EditorStats{People: 3, Relationships: 2, UndoDepth: 5}
	observability.RegisterEditorGauges(reg, func() observability.EditorStats { return stats })

	assert.Equal(t, 3.0, gaugeValue(t, reg, "kinmap_entities", map[string]string{"kind": "person"}))
	assert.Equal(t, 2.0, gaugeValue(t, reg, "kinmap_entities", map[string]string{"kind": "relationship"}))
	assert.Equal(t, 0.0, gaugeValue(t, reg, "kinmap_entities", map[string]string{"kind": "household"}))
	assert.Equal(t, 5.0, gaugeValue(t, reg, "kinmap_history_depth", map[string]string{"stack": "undo"}))

	stats.People = 4
	stats.RedoDepth = 1
	assert.Equal(t, 4.0, gaugeValue(t, reg, "kinmap_entities", map[string]string{"kind": "person"}))
	assert.Equal(t, 1.0, gaugeValue(t, reg, "kinmap_history_depth", map[string]string{"stack": "redo"}))
}
