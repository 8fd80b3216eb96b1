package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/router"
)

func TestRecorderObservesRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	r, err := router.New(config.DefaultRoutingConfig(), router.WithObserver(rec))
	require.NoError(t, err)

	r.Route("hi", analyzer.RoutingContext{Provider: "openai"})
	r.Route("hi", analyzer.RoutingContext{Provider: "openai"})
	r.Route("Analyze this architecture", analyzer.DefaultContext())

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Decisions.WithLabelValues("simple", "openai")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Decisions.WithLabelValues("complex", "anthropic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Overrides.WithLabelValues("provider_fallback")))

	assert.Equal(t, 1, testutil.CollectAndCount(rec.Duration))
	assert.Equal(t, uint64(3), sampleCount(t, reg, "tiergate_routing_duration_seconds"))
	count, err := testutil.GatherAndCount(reg, "tiergate_complexity_score")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorderExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.ObserveDecision(&router.Result{
		Provider: "google",
		Overrides: []router.Override{
			{Type: router.OverrideThinking},
			{Type: router.OverrideCacheCoherence},
		},
		FinalScore: 42,
	})
	rec.ObserveDecision(nil)

	expected := `
# HELP tiergate_routing_overrides_total Override rules applied during routing
# TYPE tiergate_routing_overrides_total counter
tiergate_routing_overrides_total{type="cache_coherence"} 1
tiergate_routing_overrides_total{type="thinking"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tiergate_routing_overrides_total"))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Decisions.WithLabelValues("simple", "google")))
}

func TestNewRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}

// sampleCount returns the number of observations in the named histogram.
func sampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}
