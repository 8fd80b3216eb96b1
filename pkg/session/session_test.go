package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/router"
	"github.com/zen-systems/tiergate/pkg/tier"
)

func TestRecordBoundsWindow(t *testing.T) {
	tr := NewTracker(analyzer.DefaultContext(), 3)
	for _, score := range []int{10, 20, 30, 40, 50} {
		tr.Record(&router.Result{FinalScore: score, SelectedModel: "m", Provider: "p"})
	}

	rc := tr.Context()
	assert.Equal(t, []int{30, 40, 50}, rc.RecentComplexityScores)
	assert.Equal(t, 5, rc.ConversationTurn)
	assert.Equal(t, "m", rc.CurrentModel)
	assert.Equal(t, "p", rc.Provider)

	tr.Record(nil)
	assert.Equal(t, 5, tr.Context().ConversationTurn)
}

func TestContextIsASnapshot(t *testing.T) {
	base := analyzer.DefaultContext()
	base.RecentComplexityScores = []int{1, 2, 3, 4}
	tr := NewTracker(base, 2)

	assert.Equal(t, []int{1, 2, 3, 4}, base.RecentComplexityScores)

	rc := tr.Context()
	assert.Equal(t, []int{3, 4}, rc.RecentComplexityScores)
	rc.RecentComplexityScores[0] = 99
	assert.Equal(t, []int{3, 4}, tr.Context().RecentComplexityScores)
}

func TestNewTrackerMinimumWindow(t *testing.T) {
	tr := NewTracker(analyzer.RoutingContext{}, 0)
	tr.Record(&router.Result{FinalScore: 10})
	tr.Record(&router.Result{FinalScore: 20})
	assert.Equal(t, []int{20}, tr.Context().RecentComplexityScores)
}

func TestConversationStaysOnComplexModel(t *testing.T) {
	cfg := config.DefaultRoutingConfig()
	r, err := router.New(cfg)
	require.NoError(t, err)

	tr := NewTracker(analyzer.DefaultContext(), cfg.HistoryWindow)
	tr.SetProvider("anthropic")
	ctx := context.Background()

	first := tr.Route(ctx, r, "Analyze this architecture and compare it with an event-driven design")
	require.Equal(t, tier.Complex, first.Tier)
	second := tr.Route(ctx, r, "Now evaluate the trade-offs of sharding and design a migration strategy")
	require.Equal(t, tier.Complex, second.Tier)

	// A throwaway acknowledgement does not bounce the conversation to the simple model.
	ack := tr.Route(ctx, r, "ok thanks")
	assert.Equal(t, tier.Complex, ack.Tier)
	assert.True(t, ack.HasOverride(router.OverrideCacheCoherence))
	assert.Equal(t, first.SelectedModel, ack.SelectedModel)
	assert.Equal(t, 3, tr.Context().ConversationTurn)
}

func TestSetThinking(t *testing.T) {
	r, err := router.New(config.DefaultRoutingConfig())
	require.NoError(t, err)

	tr := NewTracker(analyzer.DefaultContext(), 5)
	tr.SetThinking(true, 2048)
	res := tr.Route(context.Background(), r, "hi")
	assert.Equal(t, tier.Medium, res.Tier)
	assert.Equal(t, 2048, tr.Context().ThinkingBudgetTokens)
}

func TestReset(t *testing.T) {
	base := analyzer.DefaultContext()
	base.Provider = "openai"
	base.RecentComplexityScores = []int{70}
	tr := NewTracker(base, 5)

	tr.Record(&router.Result{FinalScore: 80, SelectedModel: "gpt-5.2-pro", Provider: "openai"})
	tr.SetThinking(true, 1024)
	tr.Reset()

	rc := tr.Context()
	assert.Equal(t, []int{70}, rc.RecentComplexityScores)
	assert.Zero(t, rc.ConversationTurn)
	assert.Empty(t, rc.CurrentModel)
	assert.False(t, rc.ThinkingEnabled)
	assert.Equal(t, "openai", rc.Provider)

	// Records after a reset never leak into the base.
	tr.Record(&router.Result{FinalScore: 10})
	tr.Reset()
	assert.Equal(t, []int{70}, tr.Context().RecentComplexityScores)
}
