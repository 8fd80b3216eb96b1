package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/signal"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// QueryAnalyzer scores raw request text against the signal catalog.
type QueryAnalyzer struct {
	thresholds    tier.Thresholds
	divisor       float64
	maxInputChars int
}

// NewQueryAnalyzer builds an analyzer from validated routing config.
func NewQueryAnalyzer(cfg *config.RoutingConfig) *QueryAnalyzer {
	return &QueryAnalyzer{
		thresholds:    cfg.Thresholds,
		divisor:       cfg.ConfidenceDivisor,
		maxInputChars: cfg.MaxInputChars,
	}
}

// Analyze scores text. It never fails; empty text yields the baseline score.
func (q *QueryAnalyzer) Analyze(text string) ComplexityAnalysis {
	text = q.capInput(text)

	score := BaselineScore
	var signals []signal.Signal
	fire := func(s signal.Signal) {
		score += s.Weight
		signals = append(signals, s)
	}

	tokens := len(strings.Fields(text))
	for _, band := range signal.LengthBands {
		if band.Contains(tokens) {
			fire(signal.Matched(band.Name, band.Weight, strconv.Itoa(tokens)))
			break
		}
	}

	greeting, isGreeting := signal.GreetingRule.Eval(text)
	if isGreeting {
		fire(greeting)
	} else {
		q.evalAll(signal.SimpleRules, text, fire)
	}

	q.evalAll(signal.ComplexRules, text, fire)

	if n := strings.Count(text, "?"); n > signal.MultipleQuestionsMin {
		fire(signal.Matched(signal.MultipleQuestions, signal.MultipleQuestionsWeight, strconv.Itoa(n)))
	}

	q.evalAll(signal.CodeRules, text, fire)

	score = tier.ClampScore(score)
	t := q.thresholds.Of(score)

	return ComplexityAnalysis{
		Score:      score,
		Tier:       t,
		Confidence: q.confidence(signals),
		Signals:    signals,
		Reasoning:  reasoning(t, score, signals),
		TokenCount: tokens,
	}
}

func (q *QueryAnalyzer) evalAll(rules []signal.Rule, text string, fire func(signal.Signal)) {
	for _, r := range rules {
		if s, ok := r.Eval(text); ok {
			fire(s)
		}
	}
}

// capInput keeps the first maxInputChars runes so pattern cost stays bounded.
func (q *QueryAnalyzer) capInput(text string) string {
	if q.maxInputChars <= 0 || len(text) <= q.maxInputChars {
		return text
	}
	n := 0
	for i := range text {
		if n == q.maxInputChars {
			return text[:i]
		}
		n++
	}
	return text
}

func (q *QueryAnalyzer) confidence(signals []signal.Signal) float64 {
	if q.divisor <= 0 {
		return 0
	}
	return math.Min(1, float64(signal.Total(signals))/q.divisor)
}

func reasoning(t tier.Tier, score int, signals []signal.Signal) string {
	if len(signals) == 0 {
		return fmt.Sprintf("%s (score %d): no signals matched, baseline", t, score)
	}

	top := make([]signal.Signal, len(signals))
	copy(top, signals)
	sort.SliceStable(top, func(i, j int) bool {
		return abs(top[i].Weight) > abs(top[j].Weight)
	})
	if len(top) > 3 {
		top = top[:3]
	}

	names := make([]string, len(top))
	for i, s := range top {
		names[i] = fmt.Sprintf("%s(%+d)", s.Name, s.Weight)
	}
	return fmt.Sprintf("%s (score %d): %s", t, score, strings.Join(names, ", "))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
