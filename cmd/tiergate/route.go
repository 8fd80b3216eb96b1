package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/router"
)

// contextFlags builds a RoutingContext from command-line flags, optionally
// starting from a JSON or YAML file.
type contextFlags struct {
	file           string
	provider       string
	currentModel   string
	spaceType      string
	planPhase      string
	turn           int
	recent         []int
	docs           bool
	enterprise     bool
	thinking       bool
	thinkingBudget int
}

func (f *contextFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.file, "context", "", "routing context file (JSON or YAML)")
	fl.StringVarP(&f.provider, "provider", "p", "", "provider to route to (default from config)")
	fl.StringVar(&f.currentModel, "current-model", "", "model currently bound to the conversation")
	fl.StringVar(&f.spaceType, "space", "", "workspace type tag")
	fl.StringVar(&f.planPhase, "plan-phase", "", "task plan phase: eliciting, proposing or confirming")
	fl.IntVar(&f.turn, "turn", 0, "conversation turn")
	fl.IntSliceVar(&f.recent, "recent", nil, "recent final scores, oldest first")
	fl.BoolVar(&f.docs, "docs", false, "the active area has reference documents")
	fl.BoolVar(&f.enterprise, "enterprise", false, "enterprise user")
	fl.BoolVar(&f.thinking, "thinking", false, "request extended thinking")
	fl.IntVar(&f.thinkingBudget, "thinking-budget", 0, "thinking budget in tokens (implies --thinking)")
}

func (f *contextFlags) build(cmd *cobra.Command) (analyzer.RoutingContext, error) {
	rc := analyzer.DefaultContext()
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return rc, fmt.Errorf("read context: %w", err)
		}
		// YAML is a superset of JSON, so one decoder handles both.
		if err := yaml.Unmarshal(data, &rc); err != nil {
			return rc, fmt.Errorf("parse context %s: %w", f.file, err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("provider") {
		rc.Provider = f.provider
	}
	if changed("current-model") {
		rc.CurrentModel = f.currentModel
	}
	if changed("space") {
		rc.SpaceType = f.spaceType
	}
	if changed("plan-phase") {
		switch p := analyzer.PlanPhase(strings.ToLower(f.planPhase)); p {
		case analyzer.PhaseEliciting, analyzer.PhaseProposing, analyzer.PhaseConfirming:
			rc.IsTaskPlanMode = true
			rc.PlanModePhase = p
		default:
			return rc, fmt.Errorf("unknown plan phase %q", f.planPhase)
		}
	}
	if changed("turn") {
		rc.ConversationTurn = f.turn
	}
	if changed("recent") {
		rc.RecentComplexityScores = f.recent
	}
	if changed("docs") {
		rc.AreaHasDocs = f.docs
	}
	if changed("enterprise") && f.enterprise {
		rc.UserTier = analyzer.UserEnterprise
	}
	if changed("thinking") {
		rc.ThinkingEnabled = f.thinking
	}
	if changed("thinking-budget") {
		rc.ThinkingEnabled = f.thinkingBudget > 0
		rc.ThinkingBudgetTokens = f.thinkingBudget
	}
	return rc, nil
}

func routeCmd() *cobra.Command {
	var ctxFlags contextFlags
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "route [text]",
		Short: "Show the routing decision for a request without sending it",
		Long: `Scores the text, applies the session context and prints the chosen tier,
model and the signals and overrides behind the decision. Reads stdin when no
text argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			rc, err := ctxFlags.build(cmd)
			if err != nil {
				return err
			}

			_, r, err := buildRouter()
			if err != nil {
				return err
			}

			res := r.RouteContext(cmd.Context(), text, rc)
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printDecision(cmd.OutOrStdout(), res)
		},
	}

	ctxFlags.bind(cmd)
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full result as JSON")
	return cmd
}

func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func printDecision(out io.Writer, res *router.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Tier:\t%s\n", res.Tier)
	fmt.Fprintf(w, "Model:\t%s (%s)\n", res.SelectedModel, res.Provider)
	fmt.Fprintf(w, "Score:\t%d query %+d context = %d\n", res.Complexity.Score, res.ContextAdjustment, res.FinalScore)
	fmt.Fprintf(w, "Confidence:\t%.2f\n", res.Complexity.Confidence)
	fmt.Fprintf(w, "Reasoning:\t%s\n", res.Complexity.Reasoning)
	for _, s := range res.Complexity.Signals {
		fmt.Fprintf(w, "Signal:\t%s\n", s)
	}
	for _, s := range res.ContextSignals {
		fmt.Fprintf(w, "Context:\t%s\n", s)
	}
	for _, o := range res.Overrides {
		fmt.Fprintf(w, "Override:\t%s: %s\n", o.Type, o.Reason)
	}
	fmt.Fprintf(w, "Routing time:\t%.3fms\n", res.RoutingTimeMs)
	return w.Flush()
}
