package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before dispatch when no API key is configured.
	ErrMissingAPIKey = errors.New("llm: API key not configured")
	// ErrTimeout wraps failures caused by the request deadline.
	ErrTimeout = errors.New("llm: request timed out")
	// ErrConnection wraps failures to reach the provider at all.
	ErrConnection = errors.New("llm: connection failed")
	// ErrMalformedResponse wraps a 2xx body that is not a chat completion.
	ErrMalformedResponse = errors.New("llm: malformed response")
	// ErrNoChoices is returned when the provider answers without any completion.
	ErrNoChoices = errors.New("llm: response has no choices")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	// Message is the provider's error.message when the body was JSON, otherwise "API Error".
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm API error (status %d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
