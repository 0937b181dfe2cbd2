// Package llm defines the provider abstraction for text-generation backends.
// Providers are best-effort collaborators: callers must treat every call as
// fallible and keep a deterministic fallback path.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Response is the provider's answer to a Generate or Chat call.
type Response struct {
	Content string `json:"content"`
	// Model is the backend model that produced the content.
	Model string `json:"model"`
}

// Options holds per-call generation parameters.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Option mutates call Options.
type Option func(*Options)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// ApplyOptions folds opts over a default Options value.
func ApplyOptions(opts []Option) Options {
	o := Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provider is a text-generation backend.
type Provider interface {
	// Generate completes a single prompt.
	Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error)

	// Chat completes a multi-turn conversation.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// Name returns the provider identifier (e.g. "ollama").
	Name() string
}
