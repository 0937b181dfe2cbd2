// Package carte serves fixed-list recommendations: a diner sends (or has
// saved) a restaurant's wine list and asks what fits a dish. Lists can be
// stored as sessions and referenced by id.
package carte

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/pairing"
	"github.com/sommia/sommelier/pkg/plugin"
)

// TopicSessionCreated is published after a wine list session is stored.
const TopicSessionCreated = "carte.session.created"

// Compile-time interface guards.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ plugin.HTTPProvider     = (*Plugin)(nil)
	_ plugin.StoreConsumer    = (*Plugin)(nil)
	_ plugin.BusConsumer      = (*Plugin)(nil)
	_ plugin.ResolverConsumer = (*Plugin)(nil)
)

// Plugin is the carte module.
type Plugin struct {
	store    plugin.Store
	bus      plugin.EventBus
	resolver plugin.Resolver
	repo     *SessionRepository
	engine   *pairing.Engine
	tuning   pairing.Tuning
	logger   *zap.Logger
}

// NewPlugin returns an uninitialized carte plugin.
func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string    { return "carte" }
func (p *Plugin) Version() string { return "0.3.0" }

// AttachStore receives the shared SQLite store.
func (p *Plugin) AttachStore(store plugin.Store) { p.store = store }

// AttachBus receives the shared event bus.
func (p *Plugin) AttachBus(bus plugin.EventBus) { p.bus = bus }

// AttachResolver receives the registry for role lookups.
func (p *Plugin) AttachResolver(resolver plugin.Resolver) { p.resolver = resolver }

// Init applies migrations and reads the pairing tuning overrides.
func (p *Plugin) Init(config plugin.Config, logger *zap.Logger) error {
	p.logger = logger

	if p.store == nil {
		return fmt.Errorf("carte requires a store")
	}
	if err := p.store.Migrate(context.Background(), p.Name(), migrations); err != nil {
		return fmt.Errorf("carte migrations: %w", err)
	}

	p.repo = NewSessionRepository(p.store, nil)
	p.tuning = pairing.TuningFromConfig(config)
	return nil
}

// Start builds the engine, enhancing reasoning with an LLM provider when one
// is registered and enabled.
func (p *Plugin) Start(_ context.Context) error {
	opts := []pairing.Option{
		pairing.WithReasoningFallbackHook(p.publishReasoningFallback),
	}
	if enhancer := pairing.ResolveEnhancer(p.resolver, p.logger); enhancer != nil {
		opts = append(opts, pairing.WithEnhancer(enhancer))
	}
	p.engine = pairing.NewEngine(p.tuning, p.logger, opts...)
	return nil
}

// Stop is a no-op.
func (p *Plugin) Stop() error { return nil }

func (p *Plugin) publishReasoningFallback() {
	if p.bus == nil {
		return
	}
	p.bus.PublishAsync(context.Background(), plugin.Event{
		Topic:  metrics.TopicReasoningFallback,
		Source: p.Name(),
	})
}
