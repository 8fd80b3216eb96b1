package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/tier"
)

func modelsCmd() *cobra.Command {
	var aliasesFlag bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Show the tier-to-model table for every provider",
		Long: `Lists the model each provider uses for the simple, medium and complex tiers,
and whether the provider's API key is set.

Use --aliases to show model aliases and what they resolve to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if aliasesFlag {
				return showAliases(cmd.OutOrStdout(), cfg.Aliases)
			}
			return showModels(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().BoolVar(&aliasesFlag, "aliases", false, "show aliases and what they resolve to")

	return cmd
}

func showModels(out io.Writer, cfg *config.Config) error {
	rc := cfg.RoutingConfig
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tSIMPLE\tMEDIUM\tCOMPLEX\tSTATUS")

	for _, provider := range rc.Providers() {
		status := "no key"
		if cfg.HasAdapter(provider) {
			status = "ready"
		}
		if provider == rc.DefaultProvider {
			status += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", provider,
			rc.ModelFor(provider, tier.Simple),
			rc.ModelFor(provider, tier.Medium),
			rc.ModelFor(provider, tier.Complex),
			status)
	}

	fmt.Fprintf(w, "\nthresholds: simple <= %d < medium <= %d < complex\n",
		rc.Thresholds.SimpleMax, rc.Thresholds.MediumMax)
	return w.Flush()
}

func showAliases(out io.Writer, aliases *config.ModelAliases) error {
	aliasMap := aliases.ListAliases()
	if len(aliasMap) == 0 {
		fmt.Fprintln(out, "No model aliases configured.")
		return nil
	}

	names := make([]string, 0, len(aliasMap))
	for name := range aliasMap {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tMODEL\tPROVIDER")
	for _, alias := range names {
		model := aliasMap[alias]
		fmt.Fprintf(w, "%s\t%s\t%s\n", alias, model, aliases.GetProviderForModel(model))
	}
	return w.Flush()
}
