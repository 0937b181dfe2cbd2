package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/event"
	"github.com/sommia/sommelier/pkg/plugin"
)

func TestRegisterAndCount(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m.ObserveRecommendation("catalog", OutcomeOK, 50*time.Millisecond)
	m.ObserveRecommendation("carte", OutcomeError, 10*time.Millisecond)
	m.ReasoningFallback.Inc()
	m.WinesAdded.Inc()
	m.SessionsCreated.Inc()

	if got := testutil.ToFloat64(m.Recommendations.WithLabelValues("catalog", OutcomeOK)); got != 1 {
		t.Errorf("catalog/ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Recommendations.WithLabelValues("carte", OutcomeError)); got != 1 {
		t.Errorf("carte/error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ReasoningFallback); got != 1 {
		t.Errorf("fallback count = %v, want 1", got)
	}
}

func TestBindBus(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	bus := event.NewBus(zap.NewNop())
	unsub := m.BindBus(bus)
	defer unsub()

	ctx := context.Background()
	_ = bus.Publish(ctx, plugin.Event{Topic: TopicRecommendationServed, Payload: RecommendationEvent{
		Mode: "catalog", Outcome: OutcomeOK, Elapsed: 20 * time.Millisecond,
	}})
	_ = bus.Publish(ctx, plugin.Event{Topic: TopicReasoningFallback})
	_ = bus.Publish(ctx, plugin.Event{Topic: TopicWineAdded})
	_ = bus.Publish(ctx, plugin.Event{Topic: TopicSessionCreated})

	if got := testutil.ToFloat64(m.Recommendations.WithLabelValues("catalog", OutcomeOK)); got != 1 {
		t.Errorf("recommendations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ReasoningFallback); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WinesAdded); got != 1 {
		t.Errorf("wines added = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionsCreated); got != 1 {
		t.Errorf("sessions = %v, want 1", got)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := m.Register(reg); err == nil {
		t.Error("second Register should fail with duplicate collectors")
	}
}
