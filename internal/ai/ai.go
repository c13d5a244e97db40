package ai

import (
	"context"
	"errors"
	"fmt"
)

// JSONInstruction is appended to every prompt that expects a structured reply.
const JSONInstruction = "IMPORTANT: Respond with valid JSON only. No markdown, no code fences, no explanation."

// ErrEmptyResult marks a reply that parsed fine but carried nothing usable.
var ErrEmptyResult = errors.New("empty result")

// Generator produces text for a prompt under a system instruction.
type Generator interface {
	GenerateContent(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ResponseError reports a reply that could not be turned into a value.
type ResponseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ResponseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid response: %s", e.Reason)
	}
	return fmt.Sprintf("invalid response: %s: %v", e.Reason, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
