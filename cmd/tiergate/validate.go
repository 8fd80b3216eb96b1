package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the routing config",
		Long: `Checks thresholds, the tier-to-model table and the default provider, and
verifies every configured model against the known model lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var errs []error
			if err := cfg.RoutingConfig.Validate(); err != nil {
				errs = append(errs, err)
			}
			errs = append(errs, cfg.Aliases.ValidateRoutingConfig(cfg.RoutingConfig)...)

			if len(errs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Routing config is valid.")
				return nil
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Routing config is invalid:")
			for _, err := range errs {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", err)
			}
			return errors.New("validation failed")
		},
	}
}
