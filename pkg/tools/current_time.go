package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

// CurrentTime is a sample tool that reports the current time in a requested
// IANA timezone
type CurrentTime struct {
	now func() time.Time
}

// NewCurrentTime creates the current-time tool
func NewCurrentTime() *CurrentTime {
	return &CurrentTime{now: time.Now}
}

// Name returns the name of the tool
func (t *CurrentTime) Name() string {
	return "current_time"
}

// Description returns a description of what the tool does
func (t *CurrentTime) Description() string {
	return "Returns the current date and time, optionally in a specific IANA timezone"
}

// Parameters returns the parameters that the tool accepts
func (t *CurrentTime) Parameters() map[string]interfaces.ParameterSpec {
	return map[string]interfaces.ParameterSpec{
		"timezone": {
			Type:        "string",
			Description: "IANA timezone name, e.g. America/New_York; defaults to UTC",
			Required:    false,
			Default:     "UTC",
		},
	}
}

// Execute executes the tool with JSON-encoded arguments
func (t *CurrentTime) Execute(ctx context.Context, args string) (string, error) {
	params := struct {
		Timezone string `json:"timezone"`
	}{Timezone: "UTC"}

	if args != "" {
		if err := json.Unmarshal([]byte(args), &params); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}

	loc, err := time.LoadLocation(params.Timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", params.Timezone, err)
	}

	return t.now().In(loc).Format(time.RFC1123), nil
}
