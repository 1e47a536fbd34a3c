package memory

import (
	"context"
	"sync"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// ConversationBuffer implements a simple in-memory turn store keyed by the
// conversation ID carried in the context
type ConversationBuffer struct {
	turns   map[string][]interfaces.Turn
	maxSize int
	mu      sync.RWMutex
}

// Option represents an option for configuring the conversation buffer
type Option func(*ConversationBuffer)

// WithMaxSize sets the maximum number of turns to keep per conversation
func WithMaxSize(size int) Option {
	return func(c *ConversationBuffer) {
		c.maxSize = size
	}
}

// NewConversationBuffer creates a new conversation buffer
func NewConversationBuffer(options ...Option) *ConversationBuffer {
	buffer := &ConversationBuffer{
		turns:   make(map[string][]interfaces.Turn),
		maxSize: 100,
	}

	for _, option := range options {
		option(buffer)
	}

	return buffer
}

// AddTurn appends a turn for the conversation in the context
func (c *ConversationBuffer) AddTurn(ctx context.Context, turn interfaces.Turn) error {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns[conversationID] = append(c.turns[conversationID], turn)

	// Oldest turns are dropped once the buffer exceeds its cap
	if c.maxSize > 0 && len(c.turns[conversationID]) > c.maxSize {
		c.turns[conversationID] = c.turns[conversationID][len(c.turns[conversationID])-c.maxSize:]
	}

	return nil
}

// GetTurns retrieves turns for the conversation in the context
func (c *ConversationBuffer) GetTurns(ctx context.Context, options ...interfaces.GetTurnsOption) ([]interfaces.Turn, error) {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	turns, ok := c.turns[conversationID]
	if !ok {
		return []interfaces.Turn{}, nil
	}

	opts := &interfaces.GetTurnsOptions{}
	for _, option := range options {
		option(opts)
	}

	if len(opts.Roles) > 0 {
		var filtered []interfaces.Turn
		for _, turn := range turns {
			for _, role := range opts.Roles {
				if turn.Role == role {
					filtered = append(filtered, turn)
					break
				}
			}
		}
		turns = filtered
	}

	if opts.Limit > 0 && opts.Limit < len(turns) {
		turns = turns[len(turns)-opts.Limit:]
	}

	out := make([]interfaces.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear clears the buffer for the conversation in the context
func (c *ConversationBuffer) Clear(ctx context.Context) error {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.turns, conversationID)

	return nil
}
