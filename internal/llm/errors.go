package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the response parsed but the completion
// text field is absent or empty.
var ErrEmptyCompletion = errors.New("completion text missing from response")

// NetworkError wraps a transport-level failure (connection refused, DNS,
// timeout) where no HTTP response was obtained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("llm request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamError reports a response with a non-success status code.
// Body holds the raw error payload for logging; Error deliberately exposes
// only the status code.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm request failed with status %d", e.StatusCode)
}

// MalformedResponseError reports a response body that could not be parsed as
// the expected chat-completion JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse llm response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
