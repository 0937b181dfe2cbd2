// Package sommelier serves catalog-mode recommendations: the dish and
// budget come from the user, the candidate pool comes from whichever plugin
// declares the cellar role.
package sommelier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/metrics"
	"github.com/sommia/sommelier/internal/pairing"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin           = (*Plugin)(nil)
	_ plugin.HTTPProvider     = (*Plugin)(nil)
	_ plugin.BusConsumer      = (*Plugin)(nil)
	_ plugin.ResolverConsumer = (*Plugin)(nil)
)

// Plugin is the sommelier module.
type Plugin struct {
	bus      plugin.EventBus
	resolver plugin.Resolver
	source   roles.CandidateSource
	engine   *pairing.Engine
	tuning   pairing.Tuning
	logger   *zap.Logger
}

// NewPlugin returns an uninitialized sommelier plugin.
func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string    { return "sommelier" }
func (p *Plugin) Version() string { return "0.3.0" }

// AttachBus receives the shared event bus.
func (p *Plugin) AttachBus(bus plugin.EventBus) { p.bus = bus }

// AttachResolver receives the registry for role lookups.
func (p *Plugin) AttachResolver(resolver plugin.Resolver) { p.resolver = resolver }

// Init reads the pairing tuning overrides.
func (p *Plugin) Init(config plugin.Config, logger *zap.Logger) error {
	p.logger = logger
	p.tuning = pairing.TuningFromConfig(config)
	return nil
}

// Start resolves the candidate source and builds the engine. A cellar-role
// plugin is required; an LLM-role plugin is optional.
func (p *Plugin) Start(_ context.Context) error {
	if p.resolver == nil {
		return fmt.Errorf("sommelier requires a resolver")
	}

	for _, peer := range p.resolver.ResolveByRole(roles.RoleCellar) {
		if src, ok := peer.(roles.CandidateSource); ok {
			p.source = src
			break
		}
	}
	if p.source == nil {
		return fmt.Errorf("no cellar-role plugin available")
	}

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
