package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zen-systems/tiergate/pkg/adapter"
	"github.com/zen-systems/tiergate/pkg/metrics"
	"github.com/zen-systems/tiergate/pkg/router"
	"github.com/zen-systems/tiergate/pkg/session"
)

const defaultThinkingBudget = 4096

func chatCmd() *cobra.Command {
	var ctxFlags contextFlags
	var send bool
	var mockFlag bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Route a conversation line by line",
		Long: `Reads one message per line and routes each with the conversation's running
context: turn count, recent scores and the model already in use. By default
only the decision is printed; --send dispatches each message.

Commands:
  /thinking on|off [budget]   toggle extended thinking
  /provider NAME              switch provider
  /reset                      forget the conversation
  /quit                       exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctxFlags.build(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			rec := metrics.NewRecorder(reg)
			cfg, r, err := buildRouter(router.WithObserver(rec))
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, reg)
				defer stop()
			}

			var a adapter.Adapter
			out := cmd.OutOrStdout()
			tracker := session.NewTracker(base, cfg.RoutingConfig.HistoryWindow)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, "/") {
					quit, err := chatCommand(out, tracker, line)
					if err != nil {
						fmt.Fprintf(out, "error: %v\n", err)
					}
					if quit {
						return nil
					}
					continue
				}

				res := tracker.Route(cmd.Context(), r, line)
				fmt.Fprintf(out, "[%s] %s/%s score=%d", res.Tier, res.Provider, res.SelectedModel, res.FinalScore)
				for _, o := range res.Overrides {
					fmt.Fprintf(out, " %s", o.Type)
				}
				fmt.Fprintln(out)

				if !send {
					continue
				}
				if a == nil || a.Name() != res.Provider {
					if a, err = selectAdapter(cmd, cfg, res.Provider, mockFlag); err != nil {
						return err
					}
				}
				rc := tracker.Context()
				req := adapter.Request{Model: res.SelectedModel, Prompt: line}
				if rc.ThinkingEnabled {
					req.ThinkingBudget = rc.ThinkingBudgetTokens
				}
				resp, _, err := adapter.Call(cmd.Context(), a, req, cfg.RoutingConfig.Retry)
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				fmt.Fprintln(out, resp.Content)
			}
			return scanner.Err()
		},
	}

	ctxFlags.bind(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "send each message to the routed model")
	cmd.Flags().BoolVar(&mockFlag, "mock", false, "answer with a local mock adapter")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

// chatCommand applies a slash command. It reports whether the chat should end.
func chatCommand(out io.Writer, tracker *session.Tracker, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/reset":
		tracker.Reset()
		fmt.Fprintln(out, "conversation reset")
	case "/provider":
		if len(fields) != 2 {
			return false, errors.New("usage: /provider NAME")
		}
		tracker.SetProvider(fields[1])
		fmt.Fprintf(out, "provider set to %s\n", fields[1])
	case "/thinking":
		if len(fields) < 2 {
			return false, errors.New("usage: /thinking on|off [budget]")
		}
		switch fields[1] {
		case "on":
			budget := defaultThinkingBudget
			if len(fields) == 3 {
				n, err := strconv.Atoi(fields[2])
				if err != nil || n <= 0 {
					return false, fmt.Errorf("invalid budget %q", fields[2])
				}
				budget = n
			}
			tracker.SetThinking(true, budget)
			fmt.Fprintf(out, "thinking on (budget %d)\n", budget)
		case "off":
			tracker.SetThinking(false, 0)
			fmt.Fprintln(out, "thinking off")
		default:
			return false, errors.New("usage: /thinking on|off [budget]")
		}
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
	return false, nil
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
