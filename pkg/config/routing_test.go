package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/zen-systems/tiergate/pkg/tier"
)

func TestDefaultRoutingConfig(t *testing.T) {
	rc := DefaultRoutingConfig()
	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	for _, p := range []string{"anthropic", "openai", "google", "deepseek"} {
		for _, tr := range tier.All {
			if rc.ModelFor(p, tr) == "" {
				t.Errorf("no model for %s/%s", p, tr)
			}
		}
	}
	if rc.ConfidenceDivisor != 50 || rc.MaxInputChars != 8000 || rc.MomentumThreshold != 60 {
		t.Errorf("tuning defaults = %v %v %v", rc.ConfidenceDivisor, rc.MaxInputChars, rc.MomentumThreshold)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	rc := DefaultRoutingConfig()
	rc.Thresholds = tier.Thresholds{SimpleMax: 70, MediumMax: 40}
	rc.ConfidenceDivisor = -1
	rc.DefaultProvider = "mistral"
	rc.Models["openai"] = TierModels{Simple: "a", Medium: "", Complex: "c"}

	err := rc.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrUnconfiguredModel) {
		t.Errorf("expected ErrUnconfiguredModel in %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"confidence_divisor", "mistral", `"openai" tier medium`} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestValidateNil(t *testing.T) {
	var rc *RoutingConfig
	if rc.Validate() == nil {
		t.Fatal("nil config should not validate")
	}
}

func TestTierModelsGet(t *testing.T) {
	m := TierModels{Simple: "s", Medium: "m", Complex: "c"}
	tests := []struct {
		tier tier.Tier
		want string
	}{
		{tier.Simple, "s"},
		{tier.Medium, "m"},
		{tier.Complex, "c"},
		{tier.Tier(9), ""},
	}
	for _, tt := range tests {
		if got := m.Get(tt.tier); got != tt.want {
			t.Errorf("Get(%v) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestTierForModel(t *testing.T) {
	rc := DefaultRoutingConfig()

	tests := []struct {
		model string
		want  tier.Tier
		found bool
	}{
		{"claude-opus-4-20250514", tier.Complex, true},
		{"gpt-5.2-instant", tier.Simple, true},
		// deepseek-chat serves simple and medium; the lowest wins.
		{"deepseek-chat", tier.Simple, true},
		{"deepseek-reasoner", tier.Complex, true},
		{"", tier.Simple, false},
		{"unknown-model", tier.Complex, false},
	}
	for _, tt := range tests {
		got, ok := rc.TierForModel(tt.model)
		if ok != tt.found {
			t.Errorf("TierForModel(%q) found = %v, want %v", tt.model, ok, tt.found)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("TierForModel(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestLoadRoutingConfigPartialThresholds(t *testing.T) {
	rc := &RoutingConfig{Thresholds: tier.Thresholds{SimpleMax: 10}}
	applyRoutingDefaults(rc)
	if rc.Thresholds.MediumMax != 60 {
		t.Fatalf("medium_max default not applied: %+v", rc.Thresholds)
	}
	if rc.Thresholds.SimpleMax != 10 {
		t.Fatalf("simple_max overwritten: %+v", rc.Thresholds)
	}
}

func TestRetryDefaults(t *testing.T) {
	rc := &RoutingConfig{Retry: RetryConfig{BaseBackoffMs: 5000}}
	applyRoutingDefaults(rc)
	if rc.Retry.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d", rc.Retry.MaxRetries)
	}
	if rc.Retry.MaxBackoffMs != 5000 {
		t.Errorf("MaxBackoffMs should be raised to base, got %d", rc.Retry.MaxBackoffMs)
	}
}

func TestResolveModels(t *testing.T) {
	rc := &RoutingConfig{Models: map[string]TierModels{
		"anthropic": {Simple: "haiku", Medium: "quality", Complex: "claude-opus-4-20250514"},
	}}
	rc.ResolveModels(DefaultAliases())
	got := rc.Models["anthropic"]
	if got.Simple != "claude-3-5-haiku-20241022" || got.Medium != "claude-sonnet-4-20250514" || got.Complex != "claude-opus-4-20250514" {
		t.Fatalf("ResolveModels = %+v", got)
	}
}
