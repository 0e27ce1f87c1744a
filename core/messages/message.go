package messages

import "strings"

// Message is a single rendered entry of the conversation history.
type Message struct {
	Kind Kind
	Text string
}

// New builds a message, folding kinds outside the vocabulary into
// [KindAssistant].
func New(kind Kind, text string) Message {
	if !kind.IsValid() {
		kind = KindAssistant
	}
	return Message{Kind: kind, Text: text}
}

// Label is the display label derived from the message kind.
func (m Message) Label() string { return m.Kind.Label() }

// IsBlank reports whether the message has no visible text.
func (m Message) IsBlank() bool { return strings.TrimSpace(m.Text) == "" }

// Visible filters out entries that are never displayed: assistant entries
// without text. The returned slice is a fresh copy.
func Visible(history []Message) []Message {
	visible := make([]Message, 0, len(history))
	for _, msg := range history {
		if msg.Kind == KindAssistant && msg.IsBlank() {
			continue
		}
		visible = append(visible, msg)
	}
	return visible
}
