package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
)

// Failure taxonomy for LLM calls. Every failure is fatal for the call but
// never for the dialogue session; callers convert these into user-visible
// apologies at the turn boundary.
var (
	// ErrMissingCredential means no API key is configured. Detected before
	// any network call is attempted.
	ErrMissingCredential = errors.New("llm: missing credential")
	// ErrAuth is an upstream HTTP 401.
	ErrAuth = errors.New("llm: authentication failed")
	// ErrRateLimited is an upstream HTTP 429. The interactive path does not
	// retry it; the batch describer does.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrNetwork covers every other transport or HTTP failure.
	ErrNetwork = errors.New("llm: network failure")
)

// classify maps an openai-go error onto the taxonomy, preserving the
// original error for logs.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
