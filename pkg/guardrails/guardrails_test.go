package guardrails

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

func TestContentFilterBlocks(t *testing.T) {
	chain := NewChain(NewContentFilter([]string{"forbidden"}, ActionBlock))

	_, err := chain.ProcessInput(context.Background(), "this is forbidden content")
	require.Error(t, err)
	assert.True(t, interfaces.IsModerationBlocked(err))
}

func TestContentFilterModifies(t *testing.T) {
	chain := NewChain(NewContentFilter([]string{"secret"}, ActionModify))

	out, err := chain.ProcessInput(context.Background(), "the secret word")
	require.NoError(t, err)
	assert.Equal(t, "the **** word", out)
}

func TestContentFilterPassesCleanText(t *testing.T) {
	chain := NewChain(NewContentFilter([]string{"forbidden"}, ActionBlock))

	out, err := chain.ProcessInput(context.Background(), "a perfectly fine question")
	require.NoError(t, err)
	assert.Equal(t, "a perfectly fine question", out)
}

func TestContentFilterEmptyListMatchesNothing(t *testing.T) {
	chain := NewChain(NewContentFilter(nil, ActionBlock))

	out, err := chain.ProcessInput(context.Background(), "any text at all")
	require.NoError(t, err)
	assert.Equal(t, "any text at all", out)
}

func TestContentFilterIgnoresCase(t *testing.T) {
	chain := NewChain(NewContentFilter([]string{"forbidden"}, ActionBlock))

	_, err := chain.ProcessInput(context.Background(), "FORBIDDEN topic")
	assert.Error(t, err)
}

func TestPiiFilterRedacts(t *testing.T) {
	chain := NewChain(NewPiiFilter(ActionModify))

	out, err := chain.ProcessOutput(context.Background(), "write to alice@example.com about it")
	require.NoError(t, err)
	assert.NotContains(t, out, "alice@example.com")
	assert.Contains(t, out, "[REDACTED email]")
}

func TestTokenLimitTruncates(t *testing.T) {
	chain := NewChain(NewTokenLimit(3, nil, ActionModify))

	out, err := chain.ProcessInput(context.Background(), "one two three four five")
	require.NoError(t, err)
	assert.Equal(t, "one two three ...", out)
}

// runeCounter counts every rune, so short multi-byte or few-word text can
// exceed the limit while holding fewer whitespace fields than maxTokens
type runeCounter struct{}

func (runeCounter) CountTokens(text string) (int, error) {
	return len([]rune(text)), nil
}

func TestTokenLimitCustomCounterWithFewerFields(t *testing.T) {
	chain := NewChain(NewTokenLimit(5, runeCounter{}, ActionModify))

	out, err := chain.ProcessInput(context.Background(), "word word")
	require.NoError(t, err)
	assert.Equal(t, "word word", out)
}

func TestWarnActionPassesThrough(t *testing.T) {
	chain := NewChain(NewContentFilter([]string{"flagged"}, ActionWarn))

	out, err := chain.ProcessInput(context.Background(), "a flagged word")
	require.NoError(t, err)
	assert.Equal(t, "a flagged word", out)
}

func TestChainAppliesGuardrailsInOrder(t *testing.T) {
	chain := NewChain(
		NewPiiFilter(ActionModify),
		NewTokenLimit(4, nil, ActionModify),
	)

	input := "mail bob@example.com " + strings.Repeat("word ", 10)
	out, err := chain.ProcessInput(context.Background(), input)
	require.NoError(t, err)
	assert.NotContains(t, out, "bob@example.com")
	assert.LessOrEqual(t, len(strings.Fields(out)), 5)
}
