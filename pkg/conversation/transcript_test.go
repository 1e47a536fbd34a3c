package conversation

import (
	"testing"

	"github.com/convoguard/convoguard/pkg/interfaces"
)

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript("helper")

	if tr.Len() != 1 {
		t.Fatalf("expected 1 turn, got %d", tr.Len())
	}

	turns := tr.Turns()
	if turns[0].Role != interfaces.RoleSystem {
		t.Errorf("expected system role, got %s", turns[0].Role)
	}
	if turns[0].Content != "helper" {
		t.Errorf("expected content 'helper', got %q", turns[0].Content)
	}
}

func TestTranscriptAppendAndRemoveLast(t *testing.T) {
	tr := NewTranscript("helper")
	tr.Append(interfaces.Turn{Role: interfaces.RoleUser, Content: "hello"})
	tr.Append(interfaces.Turn{Role: interfaces.RoleAssistant, Content: "hi"})

	removed, ok := tr.RemoveLast()
	if !ok {
		t.Fatal("expected RemoveLast to succeed")
	}
	if removed.Role != interfaces.RoleAssistant {
		t.Errorf("expected assistant turn removed, got %s", removed.Role)
	}
	if tr.Len() != 2 {
		t.Errorf("expected 2 turns after removal, got %d", tr.Len())
	}

	// The preceding turn must survive a removal
	last, _ := tr.Last()
	if last.Content != "hello" {
		t.Errorf("expected 'hello' as last turn, got %q", last.Content)
	}
}

func TestTranscriptNeverRemovesSystemTurn(t *testing.T) {
	tr := NewTranscript("helper")

	if _, ok := tr.RemoveLast(); ok {
		t.Fatal("expected RemoveLast to refuse removing the system turn")
	}
	if tr.Len() != 1 {
		t.Errorf("expected 1 turn, got %d", tr.Len())
	}
}

func TestTranscriptTurnsReturnsCopy(t *testing.T) {
	tr := NewTranscript("helper")
	turns := tr.Turns()
	turns[0].Content = "mutated"

	if got := tr.Turns()[0].Content; got != "helper" {
		t.Errorf("transcript mutated through Turns copy: %q", got)
	}
}
