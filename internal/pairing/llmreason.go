package pairing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sommia/sommelier/pkg/llm"
)

// reasoningPrompt instructs the model to answer with a single plain sentence.
// Output is validated structurally below; anything that fails validation is
// discarded in favor of the deterministic template.
const reasoningPrompt = `Tu es un sommelier. En une seule phrase en français, sans guillemets, sans liste et sans code, explique pourquoi ce vin accompagne ce plat. La phrase doit citer le plat tel quel.

Plat : %s
Vin : %s (%s%s)`

// llmReasonMaxLen caps accepted LLM output. Longer answers are almost always
// runaway generations and are rejected.
const llmReasonMaxLen = 400

// Compile-time interface guard.
var _ ReasoningProvider = (*LLMReasoner)(nil)

// LLMReasoner asks a text-generation provider for richer reasoning, with a
// bounded per-call timeout and strict output validation. It is an
// enhancement only: callers fall back to the TemplateReasoner on any error.
type LLMReasoner struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewLLMReasoner wraps provider with the given per-call timeout.
func NewLLMReasoner(provider llm.Provider, timeout time.Duration) *LLMReasoner {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &LLMReasoner{provider: provider, timeout: timeout}
}

// Reason generates and validates one reasoning sentence.
func (r *LLMReasoner) Reason(ctx context.Context, req ReasonRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	region := req.Wine.Region
	if region == "" {
		region = "origine inconnue"
	}
	vintage := ""
	if req.Wine.Vintage > 0 {
		vintage = fmt.Sprintf(", %d", req.Wine.Vintage)
	}
	prompt := fmt.Sprintf(reasoningPrompt, req.Dish, req.Wine.Name, region, vintage)

	resp, err := r.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(160),
	)
	if err != nil {
		return "", err
	}

	return validateReasoning(resp.Content, req.Dish)
}

// validateReasoning enforces the response contract: non-empty plain text of
// bounded length that references the dish verbatim. Fenced or quoted model
// output is rejected rather than repaired.
func validateReasoning(content, dish string) (string, error) {
	text := strings.TrimSpace(content)

	switch {
	case text == "":
		return "", fmt.Errorf("empty reasoning")
	case len(text) > llmReasonMaxLen:
		return "", fmt.Errorf("reasoning too long (%d bytes)", len(text))
	case strings.HasPrefix(text, "```"):
		return "", fmt.Errorf("reasoning contains a code fence")
	case !strings.Contains(strings.ToLower(text), strings.ToLower(strings.TrimSpace(dish))):
		return "", fmt.Errorf("reasoning does not reference the dish")
	}

	return text, nil
}
