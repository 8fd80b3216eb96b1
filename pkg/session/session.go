// Package session keeps the per-conversation state that the router reads
// but never writes: the trend window, the turn counter and the bound model.
package session

import (
	"context"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/router"
)

// Tracker owns one conversation's RoutingContext. It is not safe for concurrent use.
type Tracker struct {
	base   analyzer.RoutingContext
	rc     analyzer.RoutingContext
	window int
}

// NewTracker starts a conversation from base, keeping at most window recent scores.
func NewTracker(base analyzer.RoutingContext, window int) *Tracker {
	if window < 1 {
		window = 1
	}
	t := &Tracker{base: base, window: window}
	t.base.RecentComplexityScores = clip(append([]int(nil), base.RecentComplexityScores...), window)
	t.Reset()
	return t
}

// Reset returns the conversation to the context it started from.
func (t *Tracker) Reset() {
	t.rc = t.base
	t.rc.RecentComplexityScores = append([]int(nil), t.base.RecentComplexityScores...)
}

// Context returns a snapshot safe to hand to the router.
func (t *Tracker) Context() analyzer.RoutingContext {
	rc := t.rc
	rc.RecentComplexityScores = append([]int(nil), t.rc.RecentComplexityScores...)
	return rc
}

// SetThinking toggles extended deliberation for subsequent turns.
func (t *Tracker) SetThinking(enabled bool, budget int) {
	t.rc.ThinkingEnabled = enabled
	t.rc.ThinkingBudgetTokens = budget
}

// SetProvider pins the provider for subsequent turns.
func (t *Tracker) SetProvider(provider string) {
	t.rc.Provider = provider
}

// Record folds a routing result into the conversation: the final score joins
// the trend window and the selected model becomes the bound model.
func (t *Tracker) Record(res *router.Result) {
	if res == nil {
		return
	}
	t.rc.RecentComplexityScores = clip(append(t.rc.RecentComplexityScores, res.FinalScore), t.window)
	t.rc.ConversationTurn++
	t.rc.CurrentModel = res.SelectedModel
	t.rc.Provider = res.Provider
}

// Route routes text with the current snapshot and records the result.
func (t *Tracker) Route(ctx context.Context, r *router.Router, text string) *router.Result {
	res := r.RouteContext(ctx, text, t.Context())
	t.Record(res)
	return res
}

func clip(scores []int, window int) []int {
	if len(scores) <= window {
		return scores
	}
	return append([]int(nil), scores[len(scores)-window:]...)
}
