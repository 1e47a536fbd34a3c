package interfaces

import (
	"context"
)

// Memory represents a turn store for multi-turn conversations
type Memory interface {
	// AddTurn appends a turn to memory
	AddTurn(ctx context.Context, turn Turn) error

	// GetTurns retrieves turns from memory in insertion order
	GetTurns(ctx context.Context, options ...GetTurnsOption) ([]Turn, error)

	// Clear clears the memory
	Clear(ctx context.Context) error
}

// GetTurnsOptions contains options for retrieving turns
type GetTurnsOptions struct {
	// Limit is the maximum number of turns to retrieve (newest kept)
	Limit int

	// Roles filters turns by role
	Roles []string
}

// GetTurnsOption represents an option for retrieving turns
type GetTurnsOption func(*GetTurnsOptions)

// WithLimit sets the maximum number of turns to retrieve
func WithLimit(limit int) GetTurnsOption {
	return func(o *GetTurnsOptions) {
		o.Limit = limit
	}
}

// WithRoles filters turns by role
func WithRoles(roles ...string) GetTurnsOption {
	return func(o *GetTurnsOptions) {
		o.Roles = roles
	}
}
