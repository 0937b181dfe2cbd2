package ollama

import (
	"context"

	"go.uber.org/zap"

	"github.com/sommia/sommelier/pkg/llm"
	"github.com/sommia/sommelier/pkg/plugin"
	"github.com/sommia/sommelier/pkg/roles"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin       = (*Plugin)(nil)
	_ plugin.RoleProvider = (*Plugin)(nil)
	_ roles.LLMProvider   = (*Plugin)(nil)
)

// Plugin wraps the Ollama client as an optional sommelier module. It is
// disabled by default; when enabled it declares the llm role so the
// sommelier plugin can pick it up for reasoning enhancement.
type Plugin struct {
	client *Client
	logger *zap.Logger
}

// NewPlugin returns an uninitialized Ollama plugin.
func NewPlugin() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string    { return "ollama" }
func (p *Plugin) Version() string { return "0.3.0" }

// Roles declares this plugin as an LLM backend.
func (p *Plugin) Roles() []string { return []string{roles.RoleLLM} }

// Provider exposes the underlying llm.Provider for role consumers.
func (p *Plugin) Provider() llm.Provider { return p.client }

// Init builds the HTTP client from config.
func (p *Plugin) Init(config plugin.Config, logger *zap.Logger) error {
	p.logger = logger

	var opts []ClientOption
	if model := config.GetString("model"); model != "" {
		opts = append(opts, WithModel(model))
	}
	if d := config.GetDuration("timeout"); d > 0 {
		opts = append(opts, WithTimeout(d))
	}
	if rps := config.GetFloat64("requests_per_second"); rps > 0 {
		opts = append(opts, WithRateLimit(rps))
	}

	p.client = NewClient(config.GetString("base_url"), opts...)
	logger.Info("ollama provider configured",
		zap.String("model", p.client.Model()),
	)
	return nil
}

// Start is a no-op; the client is stateless between calls.
func (p *Plugin) Start(_ context.Context) error { return nil }

// Stop is a no-op.
func (p *Plugin) Stop() error { return nil }
