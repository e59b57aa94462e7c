package ports

import (
	"context"
	"errors"
	"fmt"
)

// ChatMessage is one entry in the message list exchanged with the
// language-model API. ToolCalls is set on assistant turns that request
// tool execution; ToolCallID ties a tool-result turn back to the call
// that produced it.
type ChatMessage struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a structured request from the model naming one registered
// operation. Arguments is the raw JSON argument bag as supplied by the
// model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolSpec describes one callable operation exposed to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ModelReply is the model's answer to one completion call.
type ModelReply struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatClient is the upstream language-model API.
type ChatClient interface {
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolSpec) (ModelReply, error)
}

// UpstreamError classifies a failed model call. Status 0 means the
// request never reached the API (connection failure, timeout).
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("model api unreachable: %v", e.Err)
	}
	return fmt.Sprintf("model api error (status %d): %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient: rate limiting,
// server-side errors and connection failures are retried, other client
// errors are surfaced immediately.
func (e *UpstreamError) Retryable() bool {
	return e.Status == 0 || e.Status == 429 || e.Status >= 500
}

// RetryableUpstream reports whether err is a transient upstream-model error.
func RetryableUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Retryable()
}

// RateLimited reports whether err is an upstream rate-limit rejection.
func RateLimited(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status == 429
}
