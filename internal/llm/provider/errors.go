package provider

import "fmt"

// ProviderError wraps an error from a generation API with enough context for
// the caller to present it directly to the user.
type ProviderError struct {
	// Provider is the provider name.
	Provider string
	// Message is the human-readable error from the API.
	Message string
	// StatusCode is the HTTP status, when the error came from a response.
	StatusCode int
	// IsRetryable reports whether a retry could plausibly succeed.
	IsRetryable bool
	// Err is the underlying error, if any.
	Err error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
