package analyzer

import (
	"fmt"
	"strconv"

	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/signal"
)

// Context signal names and weights.
const (
	SpaceTypeSignal    = "space_type"
	PlanProposing      = "plan_proposing"
	HasDocuments       = "has_documents"
	DeepConversation   = "deep_conversation"
	ComplexityMomentum = "complexity_momentum"
	EnterpriseUser     = "enterprise_user"

	planProposingWeight    = 15
	hasDocumentsWeight     = 5
	deepConversationWeight = 5
	momentumWeight         = 5
	enterpriseWeight       = 5

	// deepConversationTurn is the turn after which a conversation counts as deep.
	deepConversationTurn = 10
	momentumMinSamples   = 2
)

// ContextAnalyzer turns a RoutingContext into a score adjustment.
type ContextAnalyzer struct {
	spaceWeights      map[string]int
	momentumThreshold float64
}

// NewContextAnalyzer builds a context analyzer from routing config. The weight
// map is copied so later edits to cfg cannot change routing.
func NewContextAnalyzer(cfg *config.RoutingConfig) *ContextAnalyzer {
	weights := make(map[string]int, len(cfg.SpaceTypeWeights))
	for k, v := range cfg.SpaceTypeWeights {
		weights[k] = v
	}
	return &ContextAnalyzer{
		spaceWeights:      weights,
		momentumThreshold: cfg.MomentumThreshold,
	}
}

// Analyze computes the additive adjustment for rc. Rules are independent.
func (c *ContextAnalyzer) Analyze(rc RoutingContext) ContextAdjustment {
	var adj ContextAdjustment
	fire := func(s signal.Signal) {
		adj.Adjustment += s.Weight
		adj.Signals = append(adj.Signals, s)
	}

	if rc.SpaceType != "" {
		// Unknown space types are recorded at weight zero.
		fire(signal.Matched(SpaceTypeSignal, c.spaceWeights[rc.SpaceType], rc.SpaceType))
	}

	if rc.IsTaskPlanMode && rc.PlanModePhase == PhaseProposing {
		fire(signal.Matched(PlanProposing, planProposingWeight, string(rc.PlanModePhase)))
	}

	if rc.AreaHasDocs {
		fire(signal.Matched(HasDocuments, hasDocumentsWeight, ""))
	}

	if rc.ConversationTurn > deepConversationTurn {
		fire(signal.Matched(DeepConversation, deepConversationWeight, strconv.Itoa(rc.ConversationTurn)))
	}

	if mean, n := rc.RecentMean(); n >= momentumMinSamples && mean > c.momentumThreshold {
		fire(signal.Matched(ComplexityMomentum, momentumWeight, fmt.Sprintf("mean %.1f over %d", mean, n)))
	}

	if rc.UserTier == UserEnterprise {
		fire(signal.Matched(EnterpriseUser, enterpriseWeight, ""))
	}

	return adj
}
