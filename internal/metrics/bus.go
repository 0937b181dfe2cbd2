package metrics

import (
	"context"
	"time"

	"github.com/sommia/sommelier/pkg/plugin"
)

// Event topics observed by the metrics layer. Publishing plugins import
// these constants so topic names stay in one place.
const (
	// TopicRecommendationServed is published after every recommendation
	// request, successful or not, with a RecommendationEvent payload.
	TopicRecommendationServed = "sommelier.recommended"

	// TopicReasoningFallback is published when LLM reasoning failed and the
	// template fallback was used.
	TopicReasoningFallback = "sommelier.reasoning.fallback"

	// TopicWineAdded and TopicSessionCreated mirror the publishing plugins'
	// own constants; subscribed here for counters.
	TopicWineAdded      = "cellar.wine.added"
	TopicSessionCreated = "carte.session.created"
)

// RecommendationEvent is the payload for TopicRecommendationServed.
type RecommendationEvent struct {
	Mode    string
	Outcome string
	Elapsed time.Duration
}

// BindBus subscribes the collectors to the event topics. Returns an
// unsubscribe function.
func (m *Metrics) BindBus(bus plugin.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(TopicRecommendationServed, func(_ context.Context, ev plugin.Event) {
			if rec, ok := ev.Payload.(RecommendationEvent); ok {
				m.ObserveRecommendation(rec.Mode, rec.Outcome, rec.Elapsed)
			}
		}),
		bus.Subscribe(TopicReasoningFallback, func(_ context.Context, _ plugin.Event) {
			m.ReasoningFallback.Inc()
		}),
		bus.Subscribe(TopicWineAdded, func(_ context.Context, _ plugin.Event) {
			m.WinesAdded.Inc()
		}),
		bus.Subscribe(TopicSessionCreated, func(_ context.Context, _ plugin.Event) {
			m.SessionsCreated.Inc()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
