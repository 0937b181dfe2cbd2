package llm

import (
	"errors"
	"fmt"
)

// ErrorCode classifies provider failures so callers can decide between
// retrying, reconfiguring, and falling back.
type ErrorCode string

const (
	ErrCodeTimeout        ErrorCode = "timeout"
	ErrCodeAuthentication ErrorCode = "authentication"
	ErrCodeModelNotFound  ErrorCode = "model_not_found"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	ErrCodeServerError    ErrorCode = "server_error"
)

// ProviderError is a typed provider failure.
type ProviderError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("llm: %s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err with a code and human-readable message.
func NewProviderError(code ErrorCode, message string, err error) *ProviderError {
	return &ProviderError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the ErrorCode from err, or ErrCodeServerError when err is
// not a ProviderError.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeServerError
}

// IsTimeout reports whether err is a timeout-classified provider error.
func IsTimeout(err error) bool {
	return CodeOf(err) == ErrCodeTimeout
}
