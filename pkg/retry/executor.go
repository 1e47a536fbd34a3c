package retry

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// Executor runs operations under a retry policy. Moderation blocks and
// validation rejections are permanent and are never retried; only transport
// failures are candidates for another attempt.
type Executor struct {
	policy *Policy
}

// NewExecutor creates an executor for the given policy
func NewExecutor(policy *Policy) *Executor {
	if policy == nil {
		policy = NewPolicy()
	}
	return &Executor{policy: policy}
}

// Execute runs the operation until it succeeds, returns a permanent error, or
// the policy's attempt budget is exhausted.
func (e *Executor) Execute(ctx context.Context, operation func() error) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = e.policy.InitialInterval
	expo.Multiplier = e.policy.BackoffCoefficient
	expo.MaxInterval = e.policy.MaximumInterval

	var b backoff.BackOff = expo
	if e.policy.MaximumAttempts > 0 {
		b = backoff.WithMaxRetries(expo, uint64(e.policy.MaximumAttempts-1))
	}
	b = backoff.WithContext(b, ctx)

	wrapped := func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, b)
}

func isPermanent(err error) bool {
	var me *interfaces.ModerationError
	var ve *interfaces.ValidationError
	return errors.As(err, &me) || errors.As(err, &ve)
}
