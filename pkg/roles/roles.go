// Package roles names the cross-plugin capabilities resolvable through the
// registry, and the interfaces a plugin offering a role must satisfy.
package roles

import (
	"context"

	"github.com/sommia/sommelier/pkg/llm"
	"github.com/sommia/sommelier/pkg/wine"
)

// Role identifiers declared via plugin.RoleProvider.
const (
	// RoleCellar marks a plugin that supplies catalog-mode candidates.
	RoleCellar = "cellar"
	// RoleLLM marks a plugin that exposes a text-generation provider.
	RoleLLM = "llm"
)

// CatalogQuery narrows a candidate fetch. Zero values mean "no constraint".
type CatalogQuery struct {
	// MinPrice and MaxPrice bound the retail price (budget window
	// prefilter). Both zero disables price filtering.
	MinPrice float64
	MaxPrice float64
	// Color restricts candidates to one canonical color.
	Color wine.Color
	// Limit caps the number of candidates returned (0 = repository default).
	Limit int
}

// CandidateSource is offered by RoleCellar plugins.
type CandidateSource interface {
	// Candidates fetches catalog wines matching the query.
	Candidates(ctx context.Context, q CatalogQuery) ([]wine.Candidate, error)
}

// LLMProvider is offered by RoleLLM plugins.
type LLMProvider interface {
	// Provider returns the configured text-generation backend.
	Provider() llm.Provider
}
