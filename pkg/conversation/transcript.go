package conversation

import (
	"github.com/convoguard/convoguard/pkg/interfaces"
)

// Transcript is the ordered turn history of one conversation session. It
// always begins with exactly one system turn and stores every turn in plain
// form; the guard envelope is applied transiently at submission time.
type Transcript struct {
	turns []interfaces.Turn
}

// NewTranscript creates a transcript seeded with a single system turn
func NewTranscript(systemPrompt string) *Transcript {
	return &Transcript{
		turns: []interfaces.Turn{
			{Role: interfaces.RoleSystem, Content: systemPrompt},
		},
	}
}

// Append appends a turn to the end of the transcript
func (t *Transcript) Append(turn interfaces.Turn) {
	t.turns = append(t.turns, turn)
}

// RemoveLast removes and returns the most recently appended turn. The system
// turn at index 0 is never removed.
func (t *Transcript) RemoveLast() (interfaces.Turn, bool) {
	if len(t.turns) <= 1 {
		return interfaces.Turn{}, false
	}
	last := t.turns[len(t.turns)-1]
	t.turns = t.turns[:len(t.turns)-1]
	return last, true
}

// Turns returns a copy of the transcript in insertion order
func (t *Transcript) Turns() []interfaces.Turn {
	out := make([]interfaces.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Last returns the most recent turn
func (t *Transcript) Last() (interfaces.Turn, bool) {
	if len(t.turns) == 0 {
		return interfaces.Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Len returns the number of turns in the transcript
func (t *Transcript) Len() int {
	return len(t.turns)
}
