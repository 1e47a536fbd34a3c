package guardrails

import (
	"context"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// Action is what happens when a guardrail is triggered
type Action string

const (
	// ActionBlock refuses the content outright
	ActionBlock Action = "block"

	// ActionModify passes the guardrail's modified content through
	ActionModify Action = "modify"

	// ActionWarn passes the original content through unchanged
	ActionWarn Action = "warn"
)

// GuardrailType identifies a guardrail implementation
type GuardrailType string

const (
	ContentFilterGuardrail GuardrailType = "content_filter"
	PiiFilterGuardrail     GuardrailType = "pii_filter"
	TokenLimitGuardrail    GuardrailType = "token_limit"
)

// Guardrail is one local check applied to request or response text
type Guardrail interface {
	// Type returns the type of guardrail
	Type() GuardrailType

	// CheckRequest checks request text; reports whether it triggered and
	// returns the (possibly modified) text
	CheckRequest(ctx context.Context, request string) (bool, string, error)

	// CheckResponse checks response text
	CheckResponse(ctx context.Context, response string) (bool, string, error)

	// Action returns the action to take when the guardrail is triggered
	Action() Action
}

// Chain runs guardrails in order and implements interfaces.Guardrails. A
// triggered Block surfaces as a ModerationError so callers treat local blocks
// exactly like a managed policy refusal.
type Chain struct {
	guardrails []Guardrail
}

// NewChain creates a chain over the given guardrails
func NewChain(guardrails ...Guardrail) *Chain {
	return &Chain{guardrails: guardrails}
}

// ProcessInput applies every guardrail to user input
func (c *Chain) ProcessInput(ctx context.Context, input string) (string, error) {
	return c.process(ctx, input, func(g Guardrail, text string) (bool, string, error) {
		return g.CheckRequest(ctx, text)
	})
}

// ProcessOutput applies every guardrail to model output
func (c *Chain) ProcessOutput(ctx context.Context, output string) (string, error) {
	return c.process(ctx, output, func(g Guardrail, text string) (bool, string, error) {
		return g.CheckResponse(ctx, text)
	})
}

func (c *Chain) process(ctx context.Context, text string, check func(Guardrail, string) (bool, string, error)) (string, error) {
	for _, g := range c.guardrails {
		triggered, modified, err := check(g, text)
		if err != nil {
			return "", err
		}
		if !triggered {
			continue
		}

		switch g.Action() {
		case ActionBlock:
			return "", &interfaces.ModerationError{Categories: []string{string(g.Type())}}
		case ActionModify:
			text = modified
		case ActionWarn:
			// Triggered but allowed through unchanged
		}
	}
	return text, nil
}
