// Package llm defines the outbound completion boundary: one synchronous
// request to a user-configured OpenAI-compatible endpoint, returning a
// single text completion or a *CompletionError. No streaming, no retries;
// the orchestrator records failures in the interaction log instead of
// retrying them.
package llm

import (
	"context"
	"fmt"
)

// Request carries everything a single completion call needs. BaseURL and
// APIKey come from the chat's resolved provider, Model from its registered
// model, SystemPrompt from the optional prompt reference.
type Request struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	Prompt       string
}

// Client performs one completion round trip. Implementations must treat
// every transport, authentication, or provider-side failure uniformly by
// returning a *CompletionError.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompletionError wraps any failure of a completion attempt with a
// human-readable reason. The orchestrator converts it into an error-status
// interaction log entry rather than propagating it to the caller.
type CompletionError struct {
	Reason string
	Err    error
}

// Error returns the reason, annotated with the underlying cause if any.
func (e *CompletionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *CompletionError) Unwrap() error { return e.Err }

// completionErrf builds a *CompletionError with a formatted reason.
func completionErrf(err error, format string, args ...any) *CompletionError {
	return &CompletionError{Reason: fmt.Sprintf(format, args...), Err: err}
}
