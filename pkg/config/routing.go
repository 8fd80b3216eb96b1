package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/tiergate/pkg/tier"
)

// RoutingConfig holds score thresholds, tuning knobs and the tier x provider model table.
// It is loaded once at startup and never mutated afterwards.
type RoutingConfig struct {
	Thresholds        tier.Thresholds       `yaml:"thresholds"`
	ConfidenceDivisor float64               `yaml:"confidence_divisor,omitempty"`
	MaxInputChars     int                   `yaml:"max_input_chars,omitempty"`
	MomentumThreshold float64               `yaml:"momentum_threshold,omitempty"`
	SpaceTypeWeights  map[string]int        `yaml:"space_type_weights,omitempty"`
	DefaultProvider   string                `yaml:"default_provider"`
	Coherence         CoherenceConfig       `yaml:"coherence,omitempty"`
	HistoryWindow     int                   `yaml:"history_window,omitempty"`
	Models            map[string]TierModels `yaml:"models"`
	Retry             RetryConfig           `yaml:"retry,omitempty"`
}

// CoherenceConfig gates the anti-oscillation rule that suppresses spurious downgrades.
type CoherenceConfig struct {
	// MaxConfidence: downgrades are only suppressed when the analysis confidence is below this.
	MaxConfidence float64 `yaml:"max_confidence,omitempty"`
	// MinSamples is the number of recent scores needed before a trend counts.
	MinSamples int `yaml:"min_samples,omitempty"`
	// TrendMinMean is the mean recent score above which the conversation is considered complex.
	TrendMinMean float64 `yaml:"trend_min_mean,omitempty"`
}

// TierModels names the model a provider serves for each tier.
type TierModels struct {
	Simple  string `yaml:"simple"`
	Medium  string `yaml:"medium"`
	Complex string `yaml:"complex"`
}

// Get returns the model configured for t.
func (m TierModels) Get(t tier.Tier) string {
	switch t {
	case tier.Simple:
		return m.Simple
	case tier.Medium:
		return m.Medium
	case tier.Complex:
		return m.Complex
	}
	return ""
}

func (m *TierModels) set(t tier.Tier, model string) {
	switch t {
	case tier.Simple:
		m.Simple = model
	case tier.Medium:
		m.Medium = model
	case tier.Complex:
		m.Complex = model
	}
}

// RetryConfig defines retry and backoff behavior for dispatching to a provider.
type RetryConfig struct {
	MaxRetries    int `yaml:"max_retries,omitempty"`
	BaseBackoffMs int `yaml:"base_backoff_ms,omitempty"`
	MaxBackoffMs  int `yaml:"max_backoff_ms,omitempty"`
}

// LoadRoutingConfig reads routing configuration from a YAML file.
func LoadRoutingConfig(path string) (*RoutingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyRoutingDefaults(&cfg)
	return &cfg, nil
}

// DefaultModels returns the stock tier x provider table.
func DefaultModels() map[string]TierModels {
	return map[string]TierModels{
		"anthropic": {
			Simple:  "claude-3-5-haiku-20241022",
			Medium:  "claude-sonnet-4-20250514",
			Complex: "claude-opus-4-20250514",
		},
		"openai": {
			Simple:  "gpt-5.2-instant",
			Medium:  "gpt-5.2-thinking",
			Complex: "gpt-5.2-pro",
		},
		"google": {
			Simple:  "gemini-2.0-flash",
			Medium:  "gemini-2.0-pro",
			Complex: "gemini-2.5-pro",
		},
		"deepseek": {
			Simple:  "deepseek-chat",
			Medium:  "deepseek-chat",
			Complex: "deepseek-reasoner",
		},
	}
}

// DefaultRoutingConfig returns the default routing configuration.
func DefaultRoutingConfig() *RoutingConfig {
	cfg := &RoutingConfig{
		Thresholds:      tier.DefaultThresholds(),
		DefaultProvider: "anthropic",
		Models:          DefaultModels(),
	}
	applyRoutingDefaults(cfg)
	return cfg
}

func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg == nil {
		return
	}
	if cfg.Thresholds == (tier.Thresholds{}) {
		cfg.Thresholds = tier.DefaultThresholds()
	}
	if cfg.Thresholds.MediumMax == 0 {
		cfg.Thresholds.MediumMax = tier.DefaultThresholds().MediumMax
	}
	if cfg.ConfidenceDivisor == 0 {
		cfg.ConfidenceDivisor = 50
	}
	if cfg.MaxInputChars == 0 {
		cfg.MaxInputChars = 8000
	}
	if cfg.MomentumThreshold == 0 {
		cfg.MomentumThreshold = 60
	}
	if cfg.SpaceTypeWeights == nil {
		cfg.SpaceTypeWeights = map[string]int{}
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = "anthropic"
	}
	cfg.DefaultProvider = NormalizeProvider(cfg.DefaultProvider)
	if cfg.Coherence.MaxConfidence == 0 {
		cfg.Coherence.MaxConfidence = 0.95
	}
	if cfg.Coherence.MinSamples == 0 {
		cfg.Coherence.MinSamples = 2
	}
	if cfg.Coherence.TrendMinMean == 0 {
		cfg.Coherence.TrendMinMean = 60
	}
	if cfg.HistoryWindow == 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.Models == nil {
		cfg.Models = DefaultModels()
	} else {
		normalized := make(map[string]TierModels, len(cfg.Models))
		for provider, models := range cfg.Models {
			normalized[NormalizeProvider(provider)] = models
		}
		cfg.Models = normalized
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = 2
	}
	if cfg.Retry.BaseBackoffMs == 0 {
		cfg.Retry.BaseBackoffMs = 200
	}
	if cfg.Retry.MaxBackoffMs == 0 {
		cfg.Retry.MaxBackoffMs = 2000
	}
	if cfg.Retry.MaxBackoffMs < cfg.Retry.BaseBackoffMs {
		cfg.Retry.MaxBackoffMs = cfg.Retry.BaseBackoffMs
	}
}

// NormalizeProvider canonicalizes a provider name for table lookups.
func NormalizeProvider(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// Validate reports every configuration problem at once. A config that passes
// guarantees a model for every (tier, provider) pair.
func (c *RoutingConfig) Validate() error {
	if c == nil {
		return errors.New("routing config is nil")
	}

	var errs []error
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.ConfidenceDivisor <= 0 {
		errs = append(errs, fmt.Errorf("confidence_divisor must be positive, got %v", c.ConfidenceDivisor))
	}
	if c.MaxInputChars <= 0 {
		errs = append(errs, fmt.Errorf("max_input_chars must be positive, got %d", c.MaxInputChars))
	}
	if c.Coherence.MaxConfidence <= 0 || c.Coherence.MaxConfidence > 1 {
		errs = append(errs, fmt.Errorf("coherence.max_confidence must be in (0,1], got %v", c.Coherence.MaxConfidence))
	}
	if c.Coherence.MinSamples < 1 {
		errs = append(errs, fmt.Errorf("coherence.min_samples must be at least 1, got %d", c.Coherence.MinSamples))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("models table is empty"))
	}
	for _, provider := range c.Providers() {
		models := c.Models[provider]
		for _, t := range tier.All {
			if strings.TrimSpace(models.Get(t)) == "" {
				errs = append(errs, fmt.Errorf("%w: provider %q tier %s", ErrUnconfiguredModel, provider, t))
			}
		}
	}
	if _, ok := c.Models[c.DefaultProvider]; !ok {
		errs = append(errs, fmt.Errorf("default_provider %q has no models configured", c.DefaultProvider))
	}

	return errors.Join(errs...)
}

// ErrUnconfiguredModel marks a (tier, provider) pair with no model.
var ErrUnconfiguredModel = errors.New("no model configured")

// Providers returns the configured provider names in sorted order.
func (c *RoutingConfig) Providers() []string {
	providers := make([]string, 0, len(c.Models))
	for p := range c.Models {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// HasProvider reports whether provider has a model table.
func (c *RoutingConfig) HasProvider(provider string) bool {
	_, ok := c.Models[NormalizeProvider(provider)]
	return ok
}

// ModelFor returns the model configured for (provider, t).
func (c *RoutingConfig) ModelFor(provider string, t tier.Tier) string {
	return c.Models[NormalizeProvider(provider)].Get(t)
}

// TierForModel finds the tier a model serves. When a model serves several
// tiers the lowest one wins, so staying on the same model never counts as a downgrade.
func (c *RoutingConfig) TierForModel(model string) (tier.Tier, bool) {
	model = strings.TrimSpace(model)
	if model == "" {
		return tier.Simple, false
	}
	found := false
	best := tier.Complex
	for _, provider := range c.Providers() {
		models := c.Models[provider]
		for _, t := range tier.All {
			if models.Get(t) == model && (!found || t < best) {
				best = t
				found = true
			}
		}
	}
	return best, found
}

// ResolveModels rewrites alias entries in the model table to canonical names.
func (c *RoutingConfig) ResolveModels(aliases *ModelAliases) {
	if c == nil || aliases == nil {
		return
	}
	for provider, models := range c.Models {
		for _, t := range tier.All {
			models.set(t, aliases.Resolve(models.Get(t)))
		}
		c.Models[provider] = models
	}
}
