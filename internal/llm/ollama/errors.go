package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sommia/sommelier/pkg/llm"
)

// statusError carries a non-200 response from the Ollama API.
type statusError struct {
	StatusCode int
	Message    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama: %d %s", e.StatusCode, e.Message)
}

// mapError classifies transport and API failures into llm.ProviderError
// codes. The reasoning layer falls back to templates on any of them, so the
// code only needs to be right enough for logs and metrics.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// A cancelled or expired context means the reasoning deadline passed.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return llm.NewProviderError(llm.ErrCodeTimeout, "request timed out or cancelled", err)
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == 401:
			return llm.NewProviderError(llm.ErrCodeAuthentication, se.Message, err)
		case se.StatusCode == 404 && strings.Contains(strings.ToLower(se.Message), "model"):
			// The configured reasoning model is not pulled on this server.
			return llm.NewProviderError(llm.ErrCodeModelNotFound, se.Message, err)
		case se.StatusCode >= 500:
			return llm.NewProviderError(llm.ErrCodeServerError, se.Message, err)
		case se.StatusCode >= 400:
			return llm.NewProviderError(llm.ErrCodeInvalidRequest, se.Message, err)
		}
	}

	// Dial and DNS failures surface as plain *url.Error strings; an
	// unreachable Ollama is the common case when the plugin is enabled but
	// the server is not running.
	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return llm.NewProviderError(llm.ErrCodeServerError, "ollama server unreachable", err)
	}

	return llm.NewProviderError(llm.ErrCodeServerError, "ollama error", err)
}
