package ai

import (
	"context"
	"fmt"
)

// Conversation roles as stored in the transcript. Providers translate them
// into their own role vocabulary.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged turn of the conversation transcript.
type Message struct {
	Role    string
	Content string
}

// Request describes one call to the text-generation backend.
type Request struct {
	// System is the system instruction for the call.
	System string
	// History is the conversation so far, oldest first.
	History []Message
	// Message is the new user turn the backend should respond to.
	Message string
	// Temperature controls sampling randomness.
	Temperature float32
}

// Generator produces text from a structured prompt context. Implementations
// must treat the call as blocking with no guaranteed upper bound and return
// an error on network failure, timeout or an empty response.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError reports a failed call to the text-generation backend. Op
// names the operation that needed the text (e.g. "follow-up decision").
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed during %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
