package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/zen-systems/tiergate/pkg/adapter"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/telemetry"
)

func askCmd() *cobra.Command {
	var ctxFlags contextFlags
	var dryRun bool
	var mockFlag bool
	var maxTokens int

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Route a prompt and send it to the selected model",
		Long: `Routes the prompt to a tier, maps the tier to the provider's model and sends
the request. Transient provider failures are retried with backoff.

Use --dry-run to stop after routing, or --mock to answer locally without
any API key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			rc, err := ctxFlags.build(cmd)
			if err != nil {
				return err
			}

			cfg, r, err := buildRouter()
			if err != nil {
				return err
			}

			res := r.RouteContext(cmd.Context(), prompt, rc)
			fmt.Fprintf(cmd.ErrOrStderr(), "Routing to %s/%s (%s, score %d)\n",
				res.Provider, res.SelectedModel, res.Tier, res.FinalScore)
			if dryRun {
				return nil
			}

			a, err := selectAdapter(cmd, cfg, res.Provider, mockFlag)
			if err != nil {
				return err
			}

			req := adapter.Request{
				Model:     res.SelectedModel,
				Prompt:    prompt,
				MaxTokens: maxTokens,
			}
			if rc.ThinkingEnabled {
				req.ThinkingBudget = rc.ThinkingBudgetTokens
			}

			ctx, span := telemetry.Tracer(tracerProvider).Start(cmd.Context(), "adapter.Call")
			defer span.End()

			resp, report, err := adapter.Call(ctx, a, req, cfg.RoutingConfig.Retry)
			span.SetAttributes(
				attribute.String("tiergate.provider", report.Provider),
				attribute.String("tiergate.model", report.Model),
				attribute.Int("tiergate.retries", report.Retries),
				attribute.Int("tiergate.total_tokens", report.Usage.TotalTokens),
			)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return fmt.Errorf("%s/%s: %w", report.Provider, report.Model, err)
			}
			span.SetStatus(codes.Ok, "")

			logger.Debug("dispatch complete",
				zap.String("provider", report.Provider),
				zap.String("model", report.Model),
				zap.Int("retries", report.Retries),
				zap.Int("total_tokens", report.Usage.TotalTokens),
			)

			fmt.Fprintln(cmd.OutOrStdout(), resp.Content)
			return nil
		},
	}

	ctxFlags.bind(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the routing decision without sending the prompt")
	cmd.Flags().BoolVar(&mockFlag, "mock", false, "answer with a local mock adapter")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "cap on reply tokens (default 4096)")

	return cmd
}

// selectAdapter returns the adapter for provider, or a mock standing in for it.
func selectAdapter(cmd *cobra.Command, cfg *config.Config, provider string, mock bool) (adapter.Adapter, error) {
	if mock {
		return adapter.NewMockAdapter().As(provider), nil
	}

	adapters, err := createAdapters(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapters: %w", err)
	}
	a, err := adapters.Get(provider)
	if err != nil {
		return nil, fmt.Errorf("%w (set the provider's API key or use --mock)", err)
	}
	return a, nil
}
