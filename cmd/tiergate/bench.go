package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// latencyBudget is the per-request routing budget.
const latencyBudget = 5 * time.Millisecond

var benchCorpus = []string{
	"hi",
	"thanks!",
	"What is the capital of France?",
	"translate good night into Spanish",
	"Analyze this architecture",
	"Compare Postgres vs MySQL for a multi-tenant SaaS and walk me through the trade-offs.",
	"I'm getting a nil pointer error in handler.go when the endpoint is called. Can you debug it?",
	"```go\nfunc main() {\n\tpanic(\"boom\")\n}\n```\nwhy does this panic?",
	strings.Repeat("Give me an in-depth research summary of consensus protocols. ", 120),
}

func benchCmd() *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure routing latency against the 5ms budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations < 1 {
				return fmt.Errorf("iterations must be positive, got %d", iterations)
			}

			_, r, err := buildRouter()
			if err != nil {
				return err
			}

			rc := analyzer.DefaultContext()
			rc.RecentComplexityScores = []int{70, 75}
			rc.CurrentModel = r.Config().ModelFor(r.Config().DefaultProvider, tier.Complex)

			samples := make([]time.Duration, 0, iterations*len(benchCorpus))
			for i := 0; i < iterations; i++ {
				for _, text := range benchCorpus {
					samples = append(samples, r.RouteContext(cmd.Context(), text, rc).RoutingTime)
				}
			}

			p50, p99, maxLatency := percentiles(samples)
			fmt.Fprintf(cmd.OutOrStdout(), "routes: %d\np50: %s\np99: %s\nmax: %s\nbudget: %s\n",
				len(samples), p50, p99, maxLatency, latencyBudget)

			if p99 > latencyBudget {
				return fmt.Errorf("p99 routing latency %s exceeds %s", p99, latencyBudget)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "passes over the sample corpus")

	return cmd
}

func percentiles(samples []time.Duration) (p50, p99, maxLatency time.Duration) {
	if len(samples) == 0 {
		return 0, 0, 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	at := func(q float64) time.Duration {
		return sorted[int(q*float64(len(sorted)-1))]
	}
	return at(0.50), at(0.99), sorted[len(sorted)-1]
}
