// Package router combines query analysis and context adjustment into a
// final tier, applies override rules and selects a concrete model.
package router

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/zen-systems/tiergate/pkg/analyzer"
	"github.com/zen-systems/tiergate/pkg/config"
	"github.com/zen-systems/tiergate/pkg/tier"
)

// Observer receives every decision after it is final. Observers must not block.
type Observer interface {
	ObserveDecision(res *Result)
}

// Router is the decision engine. It is immutable after New and safe for concurrent use.
type Router struct {
	cfg       *config.RoutingConfig
	aliases   *config.ModelAliases
	query     *analyzer.QueryAnalyzer
	context   *analyzer.ContextAnalyzer
	logger    *zap.Logger
	tracer    trace.Tracer
	observers []Observer
}

// Option configures a Router.
type Option func(*Router)

// WithAliases sets the model aliases used to resolve table entries and the current model.
func WithAliases(aliases *config.ModelAliases) Option {
	return func(r *Router) {
		r.aliases = aliases
	}
}

// WithLogger enables debug logging of each decision.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer wraps each decision in a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithObserver registers an observer, e.g. a metrics recorder.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// New validates cfg and builds a router. The config is copied, so later
// changes to cfg do not affect routing.
func New(cfg *config.RoutingConfig, opts ...Option) (*Router, error) {
	if cfg == nil {
		return nil, fmt.Errorf("router: nil routing config")
	}

	r := &Router{
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer("tiergate/router"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.cfg = snapshot(cfg)
	r.cfg.ResolveModels(r.aliases)
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("router: invalid routing config: %w", err)
	}

	r.query = analyzer.NewQueryAnalyzer(r.cfg)
	r.context = analyzer.NewContextAnalyzer(r.cfg)
	return r, nil
}

func snapshot(cfg *config.RoutingConfig) *config.RoutingConfig {
	c := *cfg
	c.Models = make(map[string]config.TierModels, len(cfg.Models))
	for p, m := range cfg.Models {
		c.Models[p] = m
	}
	c.SpaceTypeWeights = make(map[string]int, len(cfg.SpaceTypeWeights))
	for k, v := range cfg.SpaceTypeWeights {
		c.SpaceTypeWeights[k] = v
	}
	return &c
}

// Config returns the router's validated configuration. Callers must not modify it.
func (r *Router) Config() *config.RoutingConfig {
	return r.cfg
}

// Route decides the tier and model for text. It never fails.
func (r *Router) Route(text string, rc analyzer.RoutingContext) *Result {
	return r.RouteContext(context.Background(), text, rc)
}

// RouteContext is Route with a parent context for tracing.
func (r *Router) RouteContext(ctx context.Context, text string, rc analyzer.RoutingContext) *Result {
	start := time.Now()
	_, span := r.tracer.Start(ctx, "router.Route")
	defer span.End()

	complexity := r.query.Analyze(text)
	adj := r.context.Analyze(rc)
	final := tier.ClampScore(complexity.Score + adj.Adjustment)

	res := &Result{
		Complexity:        complexity,
		ContextAdjustment: adj.Adjustment,
		ContextSignals:    adj.Signals,
		FinalScore:        final,
		Tier:              r.cfg.Thresholds.Of(final),
	}

	r.applyThinking(res, rc)
	r.applyCoherence(res, rc)
	res.Provider = r.resolveProvider(res, rc)
	res.SelectedModel = r.cfg.ModelFor(res.Provider, res.Tier)

	res.RoutingTime = time.Since(start)
	res.RoutingTimeMs = float64(res.RoutingTime.Nanoseconds()) / 1e6

	r.record(span, res)
	return res
}

func (r *Router) record(span trace.Span, res *Result) {
	overrides := make([]string, len(res.Overrides))
	for i, o := range res.Overrides {
		overrides[i] = string(o.Type)
	}

	span.SetAttributes(
		attribute.String("tiergate.tier", res.Tier.String()),
		attribute.Int("tiergate.score", res.Complexity.Score),
		attribute.Int("tiergate.final_score", res.FinalScore),
		attribute.Float64("tiergate.confidence", res.Complexity.Confidence),
		attribute.String("tiergate.provider", res.Provider),
		attribute.String("tiergate.model", res.SelectedModel),
		attribute.StringSlice("tiergate.overrides", overrides),
	)
	span.SetStatus(codes.Ok, "")

	if ce := r.logger.Check(zap.DebugLevel, "routing decision"); ce != nil {
		ce.Write(
			zap.Stringer("tier", res.Tier),
			zap.Int("score", res.Complexity.Score),
			zap.Int("final_score", res.FinalScore),
			zap.Float64("confidence", res.Complexity.Confidence),
			zap.String("model", res.SelectedModel),
			zap.String("provider", res.Provider),
			zap.Strings("overrides", overrides),
			zap.Float64("routing_ms", res.RoutingTimeMs),
		)
	}

	for _, o := range r.observers {
		o.ObserveDecision(res)
	}
}
