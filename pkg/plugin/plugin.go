// Package plugin defines the contract between the sommelier server core and
// its modules. Plugins are composed at compile time and managed by the
// registry; optional capabilities (HTTP routes, storage, events, roles) are
// declared through the narrow interfaces in optional.go.
package plugin

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Route is one HTTP route exposed by a plugin. Routes are mounted under
// /api/v1/{plugin-name}{Path} with Go 1.22 method patterns.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Config is the read-only configuration view handed to a plugin at Init.
// It mirrors the viper accessors the plugins actually use.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	Sub(key string) Config
}

// Plugin is the lifecycle interface every sommelier module implements.
type Plugin interface {
	// Name returns the plugin's unique identifier (e.g. "cellar", "carte").
	Name() string

	// Version returns the plugin's semantic version.
	Version() string

	// Init prepares the plugin with its config section and a named logger.
	Init(config Config, logger *zap.Logger) error

	// Start begins background operations. ctx is cancelled on shutdown.
	Start(ctx context.Context) error

	// Stop gracefully shuts the plugin down.
	Stop() error
}

// Resolver lets a plugin locate peers by declared role without importing
// their packages.
type Resolver interface {
	// ResolveByRole returns registered plugins declaring the given role,
	// in registration order.
	ResolveByRole(role string) []Plugin
}
