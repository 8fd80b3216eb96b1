// Package signal holds the catalog of weighted heuristics used to estimate
// how much effort a request needs.
//
// Every heuristic is a Rule: a name, a signed weight and a matcher. Rules are
// grouped and evaluated in declaration order, so adding a signal means adding
// a row to a table rather than touching evaluation code.
package signal

import (
	"fmt"
	"regexp"
)

// Signal is a single heuristic observation about a request or its context.
type Signal struct {
	Name         string `json:"name"`
	Weight       int    `json:"weight"`
	Matched      bool   `json:"matched"`
	MatchedValue string `json:"matched_value,omitempty"`
}

func (s Signal) String() string {
	if s.MatchedValue != "" {
		return fmt.Sprintf("%s(%+d, %s)", s.Name, s.Weight, s.MatchedValue)
	}
	return fmt.Sprintf("%s(%+d)", s.Name, s.Weight)
}

// Matched builds a fired signal.
func Matched(name string, weight int, value string) Signal {
	return Signal{Name: name, Weight: weight, Matched: true, MatchedValue: value}
}

// Rule is one catalog entry: a pattern and the weight it contributes when it matches.
type Rule struct {
	Name    string
	Weight  int
	Pattern *regexp.Regexp
}

// excerptLimit bounds MatchedValue so diagnostics stay small.
const excerptLimit = 40

// Eval runs the rule against text and returns the resulting signal.
func (r Rule) Eval(text string) (Signal, bool) {
	loc := r.Pattern.FindStringIndex(text)
	if loc == nil {
		return Signal{Name: r.Name, Weight: r.Weight}, false
	}
	return Matched(r.Name, r.Weight, excerpt(text[loc[0]:loc[1]])), true
}

func excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	// Walk back to a rune boundary.
	cut := excerptLimit - 3
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// LengthBand assigns a weight to a token-count range. Max < 0 means unbounded.
type LengthBand struct {
	Name   string
	Min    int
	Max    int
	Weight int
}

// Contains reports whether tokens falls inside the band.
func (b LengthBand) Contains(tokens int) bool {
	if tokens < b.Min {
		return false
	}
	return b.Max < 0 || tokens <= b.Max
}

// Total sums the absolute weights of matched signals.
func Total(signals []Signal) int {
	total := 0
	for _, s := range signals {
		if !s.Matched {
			continue
		}
		if s.Weight < 0 {
			total -= s.Weight
		} else {
			total += s.Weight
		}
	}
	return total
}
