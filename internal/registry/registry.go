// Package registry manages the lifecycle of all compiled-in plugins:
// registration, dependency binding, init/start/stop ordering, and
// role-based resolution between plugins.
package registry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/plugin"
)

// Compile-time interface guard.
var _ plugin.Resolver = (*Registry)(nil)

// Registry holds all registered plugins in registration order.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]plugin.Plugin
	order   []string
	skipped map[string]bool // disabled via config, excluded from Start/Stop
	logger  *zap.Logger
}

// New creates an empty plugin registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		plugins: make(map[string]plugin.Plugin),
		skipped: make(map[string]bool),
		logger:  logger,
	}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q already registered", name)
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	r.logger.Info("plugin registered", zap.String("name", name), zap.String("version", p.Version()))
	return nil
}

// Bind attaches shared infrastructure (store, event bus) to plugins that
// consume it, and hands the registry itself to plugins that resolve peers.
// Call before InitAll.
func (r *Registry) Bind(store plugin.Store, bus plugin.EventBus) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		p := r.plugins[name]
		if sc, ok := p.(plugin.StoreConsumer); ok && store != nil {
			sc.AttachStore(store)
		}
		if bc, ok := p.(plugin.BusConsumer); ok && bus != nil {
			bc.AttachBus(bus)
		}
		if rc, ok := p.(plugin.ResolverConsumer); ok {
			rc.AttachResolver(r)
		}
	}
}

// InitAll initializes all registered plugins with their config sections.
// Plugins with plugins.<name>.enabled = false are skipped entirely.
func (r *Registry) InitAll(config plugin.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		p := r.plugins[name]

		if enabled := config.GetBool("plugins." + name + ".enabled"); !enabled {
			r.logger.Info("plugin disabled, skipping", zap.String("name", name))
			r.skipped[name] = true
			continue
		}

		pluginConfig := config.Sub("plugins." + name)

		r.logger.Info("initializing plugin", zap.String("name", name))
		if err := p.Init(pluginConfig, r.logger.Named(name)); err != nil {
			return fmt.Errorf("failed to initialize plugin %q: %w", name, err)
		}
	}
	return nil
}

// StartAll starts all initialized plugins.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.skipped[name] {
			continue
		}
		p := r.plugins[name]
		r.logger.Info("starting plugin", zap.String("name", name))
		if err := p.Start(ctx); err != nil {
			return fmt.Errorf("failed to start plugin %q: %w", name, err)
		}
	}
	return nil
}

// StopAll stops all started plugins in reverse registration order.
func (r *Registry) StopAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if r.skipped[name] {
			continue
		}
		p := r.plugins[name]
		r.logger.Info("stopping plugin", zap.String("name", name))
		if err := p.Stop(); err != nil {
			r.logger.Error("failed to stop plugin", zap.String("name", name), zap.Error(err))
		}
	}
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) (plugin.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// All returns all registered plugins in registration order.
func (r *Registry) All() []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.plugins[name])
	}
	return result
}

// Enabled reports whether the named plugin was initialized (registered and
// not disabled by config).
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.plugins[name]
	return ok && !r.skipped[name]
}

// ResolveByRole returns enabled plugins declaring the given role, in
// registration order.
func (r *Registry) ResolveByRole(role string) []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []plugin.Plugin
	for _, name := range r.order {
		if r.skipped[name] {
			continue
		}
		p := r.plugins[name]
		rp, ok := p.(plugin.RoleProvider)
		if !ok {
			continue
		}
		for _, declared := range rp.Roles() {
			if declared == role {
				result = append(result, p)
				break
			}
		}
	}
	return result
}

// AllRoutes returns the HTTP routes of all enabled plugins, keyed by plugin
// name.
func (r *Registry) AllRoutes() map[string][]plugin.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make(map[string][]plugin.Route)
	for _, name := range r.order {
		if r.skipped[name] {
			continue
		}
		hp, ok := r.plugins[name].(plugin.HTTPProvider)
		if !ok {
			continue
		}
		if pr := hp.Routes(); len(pr) > 0 {
			routes[name] = pr
		}
	}
	return routes
}
