// Package ollama implements the llm.Provider contract against a local or
// remote Ollama server. Calls are rate limited and every failure is mapped
// to a typed llm.ProviderError so the reasoning layer can fall back cleanly.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sommia/sommelier/pkg/llm"
)

// DefaultBaseURL is the standard local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3.2"

// Compile-time interface guard.
var _ llm.Provider = (*Client)(nil)

// Client talks to the Ollama HTTP API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or negative
// disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient creates an Ollama client for baseURL. Empty baseURL uses the
// local default.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		model:   DefaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "ollama" }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []llm.Message          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
}

// Generate completes a single prompt via /api/generate.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Response, error) {
	o := llm.ApplyOptions(opts)

	var out generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: modelOptions(o),
	}, &out)
	if err != nil {
		return nil, err
	}

	return &llm.Response{Content: out.Response, Model: out.Model}, nil
}

// Chat completes a conversation via /api/chat.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (*llm.Response, error) {
	o := llm.ApplyOptions(opts)

	var out chatResponse
	err := c.post(ctx, "/api/chat", chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  modelOptions(o),
	}, &out)
	if err != nil {
		return nil, err
	}

	return &llm.Response{Content: out.Message.Content, Model: out.Model}, nil
}

// modelOptions translates the generic call options to Ollama's option keys.
func modelOptions(o llm.Options) map[string]interface{} {
	opts := map[string]interface{}{
		"temperature": o.Temperature,
	}
	if o.MaxTokens > 0 {
		opts["num_predict"] = o.MaxTokens
	}
	return opts
}

// post sends one JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return mapError(err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return mapError(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return mapError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := readErrorMessage(resp.Body)
		return mapError(&statusError{StatusCode: resp.StatusCode, Message: msg})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return mapError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// readErrorMessage extracts Ollama's {"error": "..."} body, falling back to
// the raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no response body"
	}
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(raw)
}
