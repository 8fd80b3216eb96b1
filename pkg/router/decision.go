package router

import (
	"time"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/signal"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// OverrideType names a rule that changed or pinned the routing outcome.
type OverrideType string

const (
	OverrideThinking         OverrideType = "thinking"
	OverrideCacheCoherence   OverrideType = "cache_coherence"
	OverrideProviderFallback OverrideType = "provider_fallback"
)

// Override records one applied override rule.
type Override struct {
	Type   OverrideType `json:"type"`
	Reason string       `json:"reason"`
}

// Result captures a routing decision. It is built once per call and not retained.
type Result struct {
	// Complexity is the query analysis before context adjustment.
	Complexity        analyzer.ComplexityAnalysis `json:"complexity"`
	ContextAdjustment int                         `json:"context_adjustment"`
	ContextSignals    []signal.Signal             `json:"context_signals,omitempty"`
	FinalScore        int                         `json:"final_score"`
	Tier              tier.Tier                   `json:"tier"`
	Provider          string                      `json:"provider"`
	SelectedModel     string                      `json:"selected_model"`
	Overrides         []Override                  `json:"overrides,omitempty"`
	RoutingTimeMs     float64                     `json:"routing_time_ms"`
	RoutingTime       time.Duration               `json:"-"`
}

// HasOverride reports whether an override of type t was applied.
func (r *Result) HasOverride(t OverrideType) bool {
	for _, o := range r.Overrides {
		if o.Type == t {
			return true
		}
	}
	return false
}

func (r *Result) addOverride(t OverrideType, reason string) {
	r.Overrides = append(r.Overrides, Override{Type: t, Reason: reason})
}
