package orchestration

import (
	"testing"

	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/messages"
)

func TestMapHistoryDropsBootstrapEntry(t *testing.T) {
	history := mapHistory([]backend.HistoryEntry{
		{Role: "system", Content: "Objective set"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "[TARGET] hola"},
		{Role: "system", Content: "note"},
		{Role: "tool", Content: "other"},
	})

	expected := []messages.Message{
		{Kind: messages.KindUser, Text: "hello"},
		{Kind: messages.KindTarget, Text: "hola"},
		{Kind: messages.KindSystem, Text: "note"},
		{Kind: messages.KindAssistant, Text: "other"},
	}
	if len(history) != len(expected) {
		t.Fatalf("expected %d entries, got %+v", len(expected), history)
	}
	for i := range expected {
		if history[i] != expected[i] {
			t.Fatalf("expected entry %d to be %+v, got %+v", i, expected[i], history[i])
		}
	}
}

func TestMapHistoryOfBootstrapOnlyIsEmpty(t *testing.T) {
	if history := mapHistory([]backend.HistoryEntry{{Role: "system", Content: "init"}}); len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
	if history := mapHistory(nil); len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func TestConversationTracksVersion(t *testing.T) {
	c := conversation{}
	version := c.version

	c.append()
	if c.version != version {
		t.Fatalf("expected empty append not to change the version")
	}

	c.append(messages.New(messages.KindUser, "hi"))
	if c.version == version {
		t.Fatalf("expected append to change the version")
	}
	if !c.endsWith(messages.New(messages.KindUser, "hi")) {
		t.Fatalf("expected conversation to end with the appended message")
	}
}
