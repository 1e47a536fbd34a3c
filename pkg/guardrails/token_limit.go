package guardrails

import (
	"context"
	"fmt"
	"strings"
)

// TokenCounter is an interface for counting tokens in text
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// SimpleTokenCounter approximates token count by whitespace-separated fields
type SimpleTokenCounter struct{}

// CountTokens counts tokens in text
func (s *SimpleTokenCounter) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// TokenLimit implements a guardrail that limits the number of tokens
type TokenLimit struct {
	maxTokens int
	counter   TokenCounter
	action    Action
}

// NewTokenLimit creates a new token limit guardrail
func NewTokenLimit(maxTokens int, counter TokenCounter, action Action) *TokenLimit {
	if counter == nil {
		counter = &SimpleTokenCounter{}
	}

	return &TokenLimit{
		maxTokens: maxTokens,
		counter:   counter,
		action:    action,
	}
}

// Type returns the type of guardrail
func (t *TokenLimit) Type() GuardrailType {
	return TokenLimitGuardrail
}

// CheckRequest checks if a request exceeds the token limit
func (t *TokenLimit) CheckRequest(ctx context.Context, request string) (bool, string, error) {
	return t.check(request)
}

// CheckResponse checks if a response exceeds the token limit
func (t *TokenLimit) CheckResponse(ctx context.Context, response string) (bool, string, error) {
	return t.check(response)
}

func (t *TokenLimit) check(text string) (bool, string, error) {
	tokens, err := t.counter.CountTokens(text)
	if err != nil {
		return false, text, fmt.Errorf("failed to count tokens: %w", err)
	}

	if tokens <= t.maxTokens {
		return false, text, nil
	}

	// A custom counter may count more tokens than there are fields; never
	// slice past what the text actually holds.
	words := strings.Fields(text)
	if len(words) <= t.maxTokens {
		return true, text, nil
	}
	return true, strings.Join(words[:t.maxTokens], " ") + " ...", nil
}

// Action returns the action to take when the guardrail is triggered
func (t *TokenLimit) Action() Action {
	return t.action
}
