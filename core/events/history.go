package events

import "github.com/koscakluka/ema-translate/core/messages"

// KindHistoryUpdated identifies a history change.
const KindHistoryUpdated Kind = "history.updated"

// HistoryUpdated carries a copy of the full history after a change. Receivers
// own the slice.
type HistoryUpdated struct {
	Base
	History []messages.Message
}

// NewHistoryUpdated creates a history updated event.
func NewHistoryUpdated(history []messages.Message) HistoryUpdated {
	return HistoryUpdated{Base: NewBase(KindHistoryUpdated), History: history}
}
