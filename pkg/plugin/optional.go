package plugin

// HTTPProvider is implemented by plugins that expose REST API routes.
type HTTPProvider interface {
	Routes() []Route
}

// StoreConsumer is implemented by plugins that persist data. The registry
// attaches the shared store before Init.
type StoreConsumer interface {
	AttachStore(store Store)
}

// BusConsumer is implemented by plugins that publish or subscribe to events.
// The registry attaches the shared bus before Init.
type BusConsumer interface {
	AttachBus(bus EventBus)
}

// RoleProvider is implemented by plugins that offer a capability role
// (see pkg/roles) to other plugins.
type RoleProvider interface {
	Roles() []string
}

// ResolverConsumer is implemented by plugins that look up peers by role.
// The registry attaches itself before Start, once all plugins are registered.
type ResolverConsumer interface {
	AttachResolver(resolver Resolver)
}
