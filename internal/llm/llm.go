// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the language-model boundary of the survey pipeline.
//
// A Backend performs one completion against a provider API. A Client wraps a
// Backend with bounded retries, request throttling, a global in-flight cap,
// token accounting, and the batch worker pool used by every generation stage.
// Failures are reported per item through Result instead of being folded into
// the generated text.
package llm

import (
	"context"
	"errors"
)

// NoResponse is the text the survey stages substitute for a failed draft
// under the best-effort policy.
const NoResponse = "No response"

var (
	// ErrNoResponse reports that a chat call exhausted its attempts.
	ErrNoResponse = errors.New("no response from model")

	// ErrEmptyResponse reports a completion without any text.
	ErrEmptyResponse = errors.New("model returned empty content")

	// ErrWorkerPanic reports a batch worker that panicked.
	ErrWorkerPanic = errors.New("batch worker panicked")
)

// Backend abstracts the provider API so tests can supply a fake.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Complete sends one user prompt and returns the model's reply.
	Complete(ctx context.Context, prompt string, temperature float64) (Completion, error)
}

// Completion is the reply of one backend call. Token counts are zero when
// the provider does not report usage.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Result is the outcome of one item of a batch call.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the item succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Usage is the accumulated token count of a Client.
type Usage struct {
	Calls        int64
	InputTokens  int64
	OutputTokens int64
}
