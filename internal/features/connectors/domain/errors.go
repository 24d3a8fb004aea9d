package domain

import (
	"errors"
	"fmt"
)

// maxUpstreamBody bounds the provider response text kept on an UpstreamError.
const maxUpstreamBody = 2048

// ErrUnknownProvider is returned by the dispatcher for tags outside the supported enumerations.
var ErrUnknownProvider = errors.New("unknown provider")

// ConfigurationError reports a missing credential, detected before any network call.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %s", e.Provider, e.Message)
}

// NewConfigurationError builds a ConfigurationError for provider.
func NewConfigurationError(provider, message string) *ConfigurationError {
	return &ConfigurationError{Provider: provider, Message: message}
}

// UpstreamError reports a provider failure: non-success status, malformed body, transport error or timeout.
type UpstreamError struct {
	// Provider is the canonical provider name.
	Provider string
	// Operation is the step that failed (e.g., "auth", "track", "lookup").
	Operation string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Body is the raw response text, truncated.
	Body string
	// Err is the underlying cause, if any.
	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Operation, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewStatusError builds an UpstreamError for a non-success HTTP response.
func NewStatusError(provider, operation string, status int, body []byte) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		Operation:  operation,
		StatusCode: status,
		Body:       truncate(string(body)),
	}
}

// NewTransportError builds an UpstreamError for a request that produced no usable response.
func NewTransportError(provider, operation string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Operation: operation, Err: err}
}

// NewMalformedError builds an UpstreamError for a response body that could not be decoded.
func NewMalformedError(provider, operation string, body []byte, err error) *UpstreamError {
	return &UpstreamError{
		Provider:  provider,
		Operation: operation,
		Body:      truncate(string(body)),
		Err:       fmt.Errorf("malformed response: %w", err),
	}
}

// ValidationError is the only error kind the ingestion and lookup entry points return for
// requests that cannot be fulfilled as given. It wraps the connector-level cause.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps cause, keeping its message.
func NewValidationError(cause error) *ValidationError {
	return &ValidationError{Message: cause.Error(), Err: cause}
}

// IsConnectorError reports whether err is one of the connector-level kinds that
// must be normalized into a ValidationError.
func IsConnectorError(err error) bool {
	var cfgErr *ConfigurationError
	var upErr *UpstreamError
	return errors.As(err, &cfgErr) || errors.As(err, &upErr) || errors.Is(err, ErrUnknownProvider)
}

func truncate(s string) string {
	if len(s) > maxUpstreamBody {
		return s[:maxUpstreamBody]
	}
	return s
}
