package interfaces

import "context"

// Turn roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn represents one utterance in a conversation
type Turn struct {
	// Role is the role of the speaker ("system", "user", "assistant", "tool")
	Role string

	// Content is the text of the utterance
	Content string
}

// GuardContent is the moderation envelope carried by a guarded turn. The
// provider evaluates its Text against the configured policy.
type GuardContent struct {
	Text string
}

// GuardedTurn is a user turn whose content is wrapped for policy evaluation.
// Only the newest turn of a submission is ever guarded; prior history stays
// in plain Turn form.
type GuardedTurn struct {
	Role  string
	Guard GuardContent
}

// GuardTurn wraps a plain turn for policy evaluation
func GuardTurn(t Turn) GuardedTurn {
	return GuardedTurn{
		Role:  t.Role,
		Guard: GuardContent{Text: t.Content},
	}
}

// Plain converts a guarded turn back to its plain form
func (g GuardedTurn) Plain() Turn {
	return Turn{
		Role:    g.Role,
		Content: g.Guard.Text,
	}
}

// ModeratedChatModel represents a managed chat service that evaluates the
// guarded turn against a moderation policy before generating a response.
// The guarded turn is always the final element of the submitted sequence.
type ModeratedChatModel interface {
	// Chat submits the conversation history plus one guarded turn and
	// returns the generated assistant turn, or an error when the provider
	// blocks or fails. See ModerationError, TransportError, ValidationError.
	Chat(ctx context.Context, history []Turn, guarded GuardedTurn, options ...ChatOption) (Turn, error)

	// Name returns the name of the provider
	Name() string
}

// ChatModelWithTools represents a chat model that can request tool invocations
type ChatModelWithTools interface {
	// ChatWithTools submits a conversation and a set of invocable tools.
	// Tool invocations requested by the model are executed by the caller.
	ChatWithTools(ctx context.Context, turns []Turn, tools []Tool, options ...ChatOption) (Turn, error)
}

// ChatOption represents an option for a chat submission
type ChatOption func(*ChatOptions)

// ChatOptions contains per-submission configuration
type ChatOptions struct {
	Temperature   float64  // Sampling temperature
	TopP          float64  // Nucleus sampling
	StopSequences []string // Stop generation at these sequences
	MaxTokens     int      // Cap on generated tokens (0 = provider default)
}

// WithTemperature sets the sampling temperature for a submission
func WithTemperature(temperature float64) ChatOption {
	return func(o *ChatOptions) {
		o.Temperature = temperature
	}
}

// WithTopP sets the nucleus sampling parameter for a submission
func WithTopP(topP float64) ChatOption {
	return func(o *ChatOptions) {
		o.TopP = topP
	}
}

// WithStopSequences sets the stop sequences for a submission
func WithStopSequences(sequences ...string) ChatOption {
	return func(o *ChatOptions) {
		o.StopSequences = sequences
	}
}

// WithMaxTokens caps the number of generated tokens for a submission
func WithMaxTokens(maxTokens int) ChatOption {
	return func(o *ChatOptions) {
		o.MaxTokens = maxTokens
	}
}
