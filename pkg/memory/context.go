package memory

import (
	"context"
	"errors"
)

type contextKey string

// ConversationIDKey is the key used to store the conversation ID in context
const ConversationIDKey contextKey = "conversation_id"

// ErrNoConversationID is returned when no conversation ID is found in the context
var ErrNoConversationID = errors.New("no conversation ID found in context")

// WithConversationID adds a conversation ID to the context
func WithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, ConversationIDKey, conversationID)
}

// GetConversationID retrieves the conversation ID from the context
func GetConversationID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ConversationIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoConversationID
	}
	return id, nil
}
