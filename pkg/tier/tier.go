package tier

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is a quality/cost class a request is routed into.
// Ordered by capability: Simple < Medium < Complex.
type Tier int

const (
	Simple Tier = iota
	Medium
	Complex
)

var names = [...]string{"simple", "medium", "complex"}

// All lists every tier in ascending order.
var All = []Tier{Simple, Medium, Complex}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return t >= Simple && t <= Complex
}

// Parse returns the tier named s (case-insensitive).
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "medium":
		return Medium, nil
	case "complex":
		return Complex, nil
	}
	return Simple, fmt.Errorf("unknown tier %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Thresholds maps a 0-100 complexity score onto a tier.
// A score <= SimpleMax is simple, <= MediumMax is medium, anything above is complex.
type Thresholds struct {
	SimpleMax int `yaml:"simple_max" json:"simple_max"`
	MediumMax int `yaml:"medium_max" json:"medium_max"`
}

// DefaultThresholds returns the stock score boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{SimpleMax: 30, MediumMax: 60}
}

// Of returns the tier for score. It is the only place a tier is derived from a score.
func (th Thresholds) Of(score int) Tier {
	switch {
	case score <= th.SimpleMax:
		return Simple
	case score <= th.MediumMax:
		return Medium
	default:
		return Complex
	}
}

// Validate checks that the boundaries are ordered and inside the score range.
func (th Thresholds) Validate() error {
	if th.SimpleMax < 0 || th.MediumMax >= 100 {
		return fmt.Errorf("thresholds must lie within [0,100): simple_max=%d medium_max=%d", th.SimpleMax, th.MediumMax)
	}
	if th.SimpleMax >= th.MediumMax {
		return fmt.Errorf("simple_max (%d) must be below medium_max (%d)", th.SimpleMax, th.MediumMax)
	}
	return nil
}

// ClampScore bounds score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
