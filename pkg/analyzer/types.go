// Package analyzer estimates request complexity from text and adjusts the
// estimate with conversation context. Both analyzers are pure: no I/O, no
// shared mutable state, safe for concurrent use.
package analyzer

import (
	"github.com/zen-systems/tiergate/pkg/signal"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// BaselineScore is where every analysis starts before signals are applied.
const BaselineScore = 50

// ComplexityAnalysis is the Query Analyzer's verdict on a piece of text.
type ComplexityAnalysis struct {
	Score      int             `json:"score"`
	Tier       tier.Tier       `json:"tier"`
	Confidence float64         `json:"confidence"`
	Signals    []signal.Signal `json:"signals"`
	Reasoning  string          `json:"reasoning"`
	TokenCount int             `json:"token_count"`
}

// PlanPhase is the step of a structured planning flow.
type PlanPhase string

const (
	PhaseEliciting  PlanPhase = "eliciting"
	PhaseProposing  PlanPhase = "proposing"
	PhaseConfirming PlanPhase = "confirming"
)

// UserTier biases routing toward quality for some accounts.
type UserTier string

const (
	UserStandard   UserTier = "standard"
	UserEnterprise UserTier = "enterprise"
)

// RoutingContext is the caller's snapshot of the conversation. The router reads it and never mutates it.
type RoutingContext struct {
	SpaceType              string    `json:"space_type,omitempty" yaml:"space_type,omitempty"`
	IsTaskPlanMode         bool      `json:"is_task_plan_mode,omitempty" yaml:"is_task_plan_mode,omitempty"`
	PlanModePhase          PlanPhase `json:"plan_mode_phase,omitempty" yaml:"plan_mode_phase,omitempty"`
	AreaHasDocs            bool      `json:"area_has_docs,omitempty" yaml:"area_has_docs,omitempty"`
	ConversationTurn       int       `json:"conversation_turn,omitempty" yaml:"conversation_turn,omitempty"`
	RecentComplexityScores []int     `json:"recent_complexity_scores,omitempty" yaml:"recent_complexity_scores,omitempty"`
	UserTier               UserTier  `json:"user_tier,omitempty" yaml:"user_tier,omitempty"`
	ThinkingEnabled        bool      `json:"thinking_enabled,omitempty" yaml:"thinking_enabled,omitempty"`
	ThinkingBudgetTokens   int       `json:"thinking_budget_tokens,omitempty" yaml:"thinking_budget_tokens,omitempty"`
	CurrentModel           string    `json:"current_model,omitempty" yaml:"current_model,omitempty"`
	Provider               string    `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// DefaultContext is a fresh conversation: turn 0, no history, standard user, provider unset.
func DefaultContext() RoutingContext {
	return RoutingContext{UserTier: UserStandard}
}

// RecentMean returns the mean of the recent scores and how many there were.
func (rc RoutingContext) RecentMean() (float64, int) {
	n := len(rc.RecentComplexityScores)
	if n == 0 {
		return 0, 0
	}
	sum := 0
	for _, s := range rc.RecentComplexityScores {
		sum += s
	}
	return float64(sum) / float64(n), n
}

// ContextAdjustment is the signed delta the Context Analyzer adds to a query score.
type ContextAdjustment struct {
	Adjustment int             `json:"adjustment"`
	Signals    []signal.Signal `json:"signals"`
}
