// Package metrics exposes the Prometheus instrumentation for the
// recommendation pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the recommendations counter.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds all collectors for the sommelier service.
type Metrics struct {
	Recommendations   *prometheus.CounterVec
	ReasoningFallback prometheus.Counter
	Duration          *prometheus.HistogramVec
	WinesAdded        prometheus.Counter
	SessionsCreated   prometheus.Counter
}

// New creates the collector set. Call Register before serving.
func New() *Metrics {
	return &Metrics{
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sommia",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		ReasoningFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sommia",
			Name:      "llm_reasoning_fallback_total",
			Help:      "Times LLM reasoning failed and the template fallback was used.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sommia",
			Name:      "recommendation_duration_seconds",
			Help:      "End-to-end recommendation latency by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		WinesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sommia",
			Name:      "cellar_wines_added_total",
			Help:      "Wines added to the cellar catalog.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sommia",
			Name:      "carte_sessions_created_total",
			Help:      "Restaurant carte sessions created.",
		}),
	}
}

// Register attaches every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Recommendations,
		m.ReasoningFallback,
		m.Duration,
		m.WinesAdded,
		m.SessionsCreated,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRecommendation records one finished recommendation request.
func (m *Metrics) ObserveRecommendation(mode, outcome string, elapsed time.Duration) {
	m.Recommendations.WithLabelValues(mode, outcome).Inc()
	m.Duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
