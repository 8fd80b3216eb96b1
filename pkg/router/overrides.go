package router

import (
	"fmt"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// applyThinking keeps deliberation requests off the simple tier.
func (r *Router) applyThinking(res *Result, rc analyzer.RoutingContext) {
	if !rc.ThinkingEnabled || res.Tier != tier.Simple {
		return
	}
	res.Tier = tier.Medium
	res.addOverride(OverrideThinking, fmt.Sprintf("thinking enabled (budget %d tokens): promoted simple to medium", rc.ThinkingBudgetTokens))
}

// applyCoherence suppresses a low-confidence downgrade in the middle of a
// sustained complex conversation. Upgrades are never dampened.
func (r *Router) applyCoherence(res *Result, rc analyzer.RoutingContext) {
	if rc.CurrentModel == "" {
		return
	}
	prev, ok := r.cfg.TierForModel(r.aliases.Resolve(rc.CurrentModel))
	if !ok || res.Tier >= prev {
		return
	}

	coh := r.cfg.Coherence
	if res.Complexity.Confidence >= coh.MaxConfidence {
		return
	}
	mean, n := rc.RecentMean()
	if n < coh.MinSamples || mean <= coh.TrendMinMean {
		return
	}

	res.addOverride(OverrideCacheCoherence, fmt.Sprintf(
		"kept %s over %s: confidence %.2f < %.2f, recent mean %.1f over %d turns",
		prev, res.Tier, res.Complexity.Confidence, coh.MaxConfidence, mean, n))
	res.Tier = prev
}

// resolveProvider picks the provider whose table serves this request.
func (r *Router) resolveProvider(res *Result, rc analyzer.RoutingContext) string {
	provider := config.NormalizeProvider(rc.Provider)
	if provider != "" && r.cfg.HasProvider(provider) {
		return provider
	}

	reason := fmt.Sprintf("provider unset, using %s", r.cfg.DefaultProvider)
	if provider != "" {
		reason = fmt.Sprintf("unknown provider %q, using %s", rc.Provider, r.cfg.DefaultProvider)
	}
	res.addOverride(OverrideProviderFallback, reason)
	return r.cfg.DefaultProvider
}
