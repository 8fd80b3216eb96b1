package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/zen-systems/tiergate/pkg/adapter"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/router"
	"github.com/zen-systems/tiergate/pkg/telemetry"
)

var (
	configFile string
	verbose    bool

	logger         *zap.Logger
	tracerProvider *sdktrace.TracerProvider
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tiergate",
		Short: "Route requests to a model tier by estimated complexity",
		Long: `Tiergate scores each request with weighted lexical signals and a small
session snapshot, picks a simple, medium or complex tier, and maps the tier
to a concrete model for the chosen provider. Routing is local and takes
well under 5ms.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			tp, err := telemetry.InitTracer(cmd.Context(), telemetry.DefaultConfig("tiergate"))
			switch {
			case err == nil:
				tracerProvider = tp
			case !errors.Is(err, telemetry.ErrNoEndpoint):
				logger.Warn("tracing disabled", zap.Error(err))
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := telemetry.Shutdown(context.Background(), tracerProvider); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
			_ = logger.Sync()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every routing decision")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(benchCmd())

	return rootCmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithRoutingFile(configFile)
	}
	return config.Load()
}

// buildRouter loads config and constructs a router. Invalid config fails here,
// before any request is routed.
func buildRouter(opts ...router.Option) (*config.Config, *router.Router, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	base := []router.Option{
		router.WithAliases(cfg.Aliases),
		router.WithLogger(logger),
		router.WithTracer(telemetry.Tracer(tracerProvider)),
	}
	r, err := router.New(cfg.RoutingConfig, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, r, nil
}

func createAdapters(ctx context.Context, cfg *config.Config) (adapter.Registry, error) {
	adapters := adapter.Registry{}

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[a.Name()] = a
	}

	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[a.Name()] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(ctx, cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[a.Name()] = a
	}

	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, err
		}
		adapters[a.Name()] = a
	}

	return adapters, nil
}
