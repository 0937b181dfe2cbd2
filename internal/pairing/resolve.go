package pairing

import (
	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
)

// ResolveEnhancer looks up an LLM-role plugin through the resolver and wraps
// its provider as a reasoning enhancer. Returns nil when no provider is
// registered, which callers treat as template-only reasoning.
func ResolveEnhancer(resolver plugin.Resolver, logger *zap.Logger) ReasoningProvider {
	if resolver == nil {
		return nil
	}
	for _, peer := range resolver.ResolveByRole(roles.RoleLLM) {
		lp, ok := peer.(roles.LLMProvider)
		if !ok || lp.Provider() == nil {
			continue
		}
		logger.Info("LLM reasoning enabled", zap.String("provider", lp.Provider().Name()))
		return NewLLMReasoner(lp.Provider(), 0)
	}
	return nil
}
