package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when the request carries no capability token
	ErrMissingToken = errors.New("missing capability token")

	// ErrUpstreamFailure matches every *UpstreamError
	ErrUpstreamFailure = errors.New("upstream failure")

	// ErrInvalidRequest is returned for generation requests that are never sent
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrUnsupportedProvider is returned by the default factory for unknown providers
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// UpstreamError wraps a failed call to the host's LLM service
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}
