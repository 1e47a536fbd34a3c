package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// RedisMemory implements a Redis-backed turn store. Turns are kept in a list
// per conversation, JSON-encoded, with a TTL refreshed on every write.
type RedisMemory struct {
	client      *redis.Client
	ttl         time.Duration
	keyPrefix   string
	maxTurnSize int
}

// RedisOption represents an option for configuring the Redis memory
type RedisOption func(*RedisMemory)

// WithTTL sets the TTL for conversation keys
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *RedisMemory) {
		r.ttl = ttl
	}
}

// WithKeyPrefix sets a custom prefix for Redis keys
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisMemory) {
		r.keyPrefix = prefix
	}
}

// WithMaxTurnSize sets the maximum encoded size for a stored turn
func WithMaxTurnSize(size int) RedisOption {
	return func(r *RedisMemory) {
		r.maxTurnSize = size
	}
}

// NewRedisMemory creates a new Redis-backed turn store
func NewRedisMemory(client *redis.Client, options ...RedisOption) *RedisMemory {
	memory := &RedisMemory{
		client:      client,
		ttl:         24 * time.Hour,
		keyPrefix:   "convoguard:memory:",
		maxTurnSize: 1024 * 1024,
	}

	for _, option := range options {
		option(memory)
	}

	return memory
}

func (r *RedisMemory) key(conversationID string) string {
	return r.keyPrefix + conversationID
}

// AddTurn appends a turn for the conversation in the context
func (r *RedisMemory) AddTurn(ctx context.Context, turn interfaces.Turn) error {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	if r.maxTurnSize > 0 && len(encoded) > r.maxTurnSize {
		return fmt.Errorf("turn size %d exceeds maximum of %d bytes", len(encoded), r.maxTurnSize)
	}

	key := r.key(conversationID)
	if err := r.client.RPush(ctx, key, encoded).Err(); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh TTL: %w", err)
		}
	}

	return nil
}

// GetTurns retrieves turns for the conversation in the context
func (r *RedisMemory) GetTurns(ctx context.Context, options ...interfaces.GetTurnsOption) ([]interfaces.Turn, error) {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := r.client.LRange(ctx, r.key(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}

	turns := make([]interfaces.Turn, 0, len(encoded))
	for _, item := range encoded {
		var turn interfaces.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
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

	return turns, nil
}

// Clear removes all turns for the conversation in the context
func (r *RedisMemory) Clear(ctx context.Context) error {
	conversationID, err := GetConversationID(ctx)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}

	return nil
}
