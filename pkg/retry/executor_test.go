package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

func fastPolicy(attempts int) *Policy {
	return NewPolicy(
		WithInitialInterval(time.Millisecond),
		WithMaximumInterval(2*time.Millisecond),
		WithMaxAttempts(attempts),
	)
}

func TestExecuteRetriesTransientFailures(t *testing.T) {
	executor := NewExecutor(fastPolicy(3))

	attempts := 0
	err := executor.Execute(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &interfaces.TransportError{Err: errors.New("flaky")}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteStopsAtAttemptBudget(t *testing.T) {
	executor := NewExecutor(fastPolicy(2))

	attempts := 0
	err := executor.Execute(context.Background(), func() error {
		attempts++
		return &interfaces.TransportError{Err: errors.New("still down")}
	})

	assert.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestExecuteNeverRetriesModerationBlocks(t *testing.T) {
	executor := NewExecutor(fastPolicy(5))

	attempts := 0
	err := executor.Execute(context.Background(), func() error {
		attempts++
		return &interfaces.ModerationError{Categories: []string{"violence"}}
	})

	assert.True(t, interfaces.IsModerationBlocked(err))
	assert.Equal(t, 1, attempts)
}

func TestExecuteNeverRetriesValidationErrors(t *testing.T) {
	executor := NewExecutor(fastPolicy(5))

	attempts := 0
	err := executor.Execute(context.Background(), func() error {
		attempts++
		return &interfaces.ValidationError{Reason: "bad request"}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
