package interfaces

import "context"

// Guardrails represents a local filter applied around the managed moderation
// call: input before submission, output before it reaches the operator.
type Guardrails interface {
	// ProcessInput processes user input before sending to the chat model
	ProcessInput(ctx context.Context, input string) (string, error)

	// ProcessOutput processes model output before returning to the user
	ProcessOutput(ctx context.Context, output string) (string, error)
}
