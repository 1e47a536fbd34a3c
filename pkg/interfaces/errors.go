package interfaces

import (
	"errors"
	"fmt"
	"strings"
)

// ModerationError is returned when the moderation policy refuses the guarded
// content. It is permanent: retrying the same content cannot succeed.
type ModerationError struct {
	// Categories lists the policy categories that flagged the content
	Categories []string
}

func (e *ModerationError) Error() string {
	if len(e.Categories) == 0 {
		return "content blocked by moderation policy"
	}
	return fmt.Sprintf("content blocked by moderation policy: %s", strings.Join(e.Categories, ", "))
}

// TransportError is returned when the provider is unreachable or the call
// fails before a decision is made.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat provider transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when the provider rejects the request as
// malformed or returns an unusable response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("chat provider validation error: %s", e.Reason)
}

// IsModerationBlocked reports whether err is a moderation block
func IsModerationBlocked(err error) bool {
	var me *ModerationError
	return errors.As(err, &me)
}
