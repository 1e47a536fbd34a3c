package guardrails

import (
	"context"
	"regexp"
	"strings"
)

// ContentFilter implements a guardrail that matches blocked terms
type ContentFilter struct {
	blockedWords []string
	action       Action
	regex        *regexp.Regexp
}

// NewContentFilter creates a new content filter guardrail. An empty word
// list matches nothing.
func NewContentFilter(blockedWords []string, action Action) *ContentFilter {
	var regex *regexp.Regexp
	if len(blockedWords) > 0 {
		escaped := make([]string, len(blockedWords))
		for i, word := range blockedWords {
			escaped[i] = regexp.QuoteMeta(word)
		}
		regex = regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	}

	return &ContentFilter{
		blockedWords: blockedWords,
		action:       action,
		regex:        regex,
	}
}

// Type returns the type of guardrail
func (c *ContentFilter) Type() GuardrailType {
	return ContentFilterGuardrail
}

// CheckRequest checks if a request matches a blocked term
func (c *ContentFilter) CheckRequest(ctx context.Context, request string) (bool, string, error) {
	return c.check(request)
}

// CheckResponse checks if a response matches a blocked term
func (c *ContentFilter) CheckResponse(ctx context.Context, response string) (bool, string, error) {
	return c.check(response)
}

func (c *ContentFilter) check(text string) (bool, string, error) {
	if c.regex == nil || !c.regex.MatchString(text) {
		return false, text, nil
	}
	return true, c.regex.ReplaceAllString(text, "****"), nil
}

// Action returns the action to take when the guardrail is triggered
func (c *ContentFilter) Action() Action {
	return c.action
}
