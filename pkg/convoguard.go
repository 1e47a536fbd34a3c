// Package convoguard re-exports the main entry points so most callers only
// import this package and pkg/interfaces.
package convoguard

import (
	"github.com/convoguard/convoguard/pkg/agent"
	"github.com/convoguard/convoguard/pkg/conversation"
	"github.com/convoguard/convoguard/pkg/interfaces"
	"github.com/convoguard/convoguard/pkg/logging"
)

// NewSession creates a guarded conversation session
func NewSession(model interfaces.ModeratedChatModel, options ...conversation.Option) *conversation.Session {
	return conversation.New(model, options...)
}

// WithSessionLogger sets the logger for a session
func WithSessionLogger(logger logging.Logger) conversation.Option {
	return conversation.WithLogger(logger)
}

// WithSessionGuardrails sets local guardrails for a session
func WithSessionGuardrails(guardrails interfaces.Guardrails) conversation.Option {
	return conversation.WithGuardrails(guardrails)
}

// NewAgent creates a tool-calling agent
func NewAgent(options ...agent.Option) (*agent.Agent, error) {
	return agent.NewAgent(options...)
}
