// Package metrics exports routing decisions as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zen-systems/tiergate/pkg/router"
)

// Recorder implements router.Observer.
type Recorder struct {
	Decisions *prometheus.CounterVec
	Overrides *prometheus.CounterVec
	Duration  prometheus.Histogram
	Score     prometheus.Histogram
}

var _ router.Observer = (*Recorder)(nil)

// NewRecorder registers the routing collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiergate_routing_decisions_total",
				Help: "Routing decisions by final tier and provider",
			},
			[]string{"tier", "provider"},
		),
		Overrides: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiergate_routing_overrides_total",
				Help: "Override rules applied during routing",
			},
			[]string{"type"}, // thinking, cache_coherence, provider_fallback
		),
		Duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name: "tiergate_routing_duration_seconds",
				Help: "Wall-clock time of a routing decision",
				// 5ms is the budget; most decisions land well under 1ms.
				Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
			},
		),
		Score: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tiergate_complexity_score",
				Help:    "Final complexity score after context adjustment",
				Buckets: prometheus.LinearBuckets(10, 10, 9),
			},
		),
	}
}

// ObserveDecision records one routing result.
func (r *Recorder) ObserveDecision(res *router.Result) {
	if res == nil {
		return
	}
	r.Decisions.WithLabelValues(res.Tier.String(), res.Provider).Inc()
	for _, o := range res.Overrides {
		r.Overrides.WithLabelValues(string(o.Type)).Inc()
	}
	r.Duration.Observe(res.RoutingTime.Seconds())
	r.Score.Observe(float64(res.FinalScore))
}
