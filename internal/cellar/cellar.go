// Package cellar manages the wine catalog: CRUD over the cellar_wines
// table, CSV import/export, and the candidate source consumed by the
// sommelier plugin in catalog mode.
package cellar

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
	"github.com/sommia/sommelier/pkg/wine"
)

// TopicWineAdded is published after a wine is stored.
const TopicWineAdded = "cellar.wine.added"

// Compile-time interface guards.
var (
	_ plugin.Plugin         = (*Plugin)(nil)
	_ plugin.HTTPProvider   = (*Plugin)(nil)
	_ plugin.StoreConsumer  = (*Plugin)(nil)
	_ plugin.BusConsumer    = (*Plugin)(nil)
	_ plugin.RoleProvider   = (*Plugin)(nil)
	_ roles.CandidateSource = (*Plugin)(nil)
)

// Plugin is the cellar module.
type Plugin struct {
	store  plugin.Store
	bus    plugin.EventBus
	repo   *Repository
	logger *zap.Logger
}

// NewPlugin returns an uninitialized cellar plugin.
func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string    { return "cellar" }
func (p *Plugin) Version() string { return "0.3.0" }

// Roles declares this plugin as the catalog candidate source.
func (p *Plugin) Roles() []string { return []string{roles.RoleCellar} }

// AttachStore receives the shared SQLite store.
func (p *Plugin) AttachStore(store plugin.Store) { p.store = store }

// AttachBus receives the shared event bus.
func (p *Plugin) AttachBus(bus plugin.EventBus) { p.bus = bus }

// Init applies migrations and builds the repository.
func (p *Plugin) Init(_ plugin.Config, logger *zap.Logger) error {
	p.logger = logger

	if p.store == nil {
		return fmt.Errorf("cellar requires a store")
	}
	if err := p.store.Migrate(context.Background(), p.Name(), migrations); err != nil {
		return fmt.Errorf("cellar migrations: %w", err)
	}

	p.repo = NewRepository(p.store.DB())
	return nil
}

// Start logs the catalog size; the plugin has no background work.
func (p *Plugin) Start(ctx context.Context) error {
	n, err := p.repo.Count(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("cellar ready", zap.Int("wines", n))
	return nil
}

// Stop is a no-op.
func (p *Plugin) Stop() error { return nil }

// Candidates implements roles.CandidateSource for catalog-mode
// recommendations.
func (p *Plugin) Candidates(ctx context.Context, q roles.CatalogQuery) ([]wine.Candidate, error) {
	return p.repo.Candidates(ctx, q)
}

// publishWineAdded notifies subscribers about a new wine. Best effort.
func (p *Plugin) publishWineAdded(ctx context.Context, c wine.Candidate) {
	if p.bus == nil {
		return
	}
	p.bus.PublishAsync(ctx, plugin.Event{
		Topic:   TopicWineAdded,
		Source:  p.Name(),
		Payload: c,
	})
}
