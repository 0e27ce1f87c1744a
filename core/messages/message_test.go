package messages

import "testing"

func TestKindLabels(t *testing.T) {
	want := map[Kind]string{
		KindUser:      "You",
		KindTarget:    "Target",
		KindCaution:   "Caution",
		KindSummary:   "Summary",
		KindSystem:    "System",
		KindAssistant: "Assistant",
		Kind("OTHER"): "Assistant",
	}

	for kind, label := range want {
		if got := kind.Label(); got != label {
			t.Fatalf("expected label %q for %q, got %q", label, kind, got)
		}
	}
}

func TestNewFoldsUnknownKinds(t *testing.T) {
	msg := New(Kind("WHISPER"), "psst")
	if msg.Kind != KindAssistant {
		t.Fatalf("expected unknown kind to fold into %q, got %q", KindAssistant, msg.Kind)
	}
	if msg.Label() != "Assistant" {
		t.Fatalf("expected assistant label, got %q", msg.Label())
	}
}

func TestFromRole(t *testing.T) {
	tests := []struct {
		role    Role
		content string
		want    Message
	}{
		{role: RoleAssistant, content: "[TARGET] Hola", want: Message{Kind: KindTarget, Text: "Hola"}},
		{role: RoleAssistant, content: "untagged", want: Message{Kind: KindAssistant, Text: "untagged"}},
		{role: RoleUser, content: "[TARGET] not parsed", want: Message{Kind: KindUser, Text: "[TARGET] not parsed"}},
		{role: RoleSystem, content: "init", want: Message{Kind: KindSystem, Text: "init"}},
		{role: Role("tool"), content: "result", want: Message{Kind: KindAssistant, Text: "result"}},
	}

	for _, tt := range tests {
		if got := FromRole(tt.role, tt.content); got != tt.want {
			t.Fatalf("expected %+v for role %q, got %+v", tt.want, tt.role, got)
		}
	}
}

func TestVisibleHidesBlankAssistantEntries(t *testing.T) {
	history := []Message{
		{Kind: KindUser, Text: ""},
		{Kind: KindAssistant, Text: "  "},
		{Kind: KindAssistant, Text: "hi"},
		{Kind: KindTarget, Text: "Hola"},
	}

	visible := Visible(history)
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible entries, got %d", len(visible))
	}
	if visible[1].Text != "hi" {
		t.Fatalf("expected the non-blank assistant entry to stay, got %+v", visible[1])
	}

	visible[0].Text = "changed"
	if history[0].Text != "" {
		t.Fatalf("expected Visible to return a copy")
	}
}
