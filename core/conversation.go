package orchestration

import (
	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/messages"
)

// conversation is the rendered history. It is guarded by the orchestrator's
// mutex.
type conversation struct {
	history    []messages.Message
	lastSpoken string
	// version is bumped on every mutation.
	version uint64
}

func (c *conversation) replace(history []messages.Message) {
	c.history = history
	c.version++
}

func (c *conversation) append(entries ...messages.Message) {
	if len(entries) == 0 {
		return
	}
	c.history = append(c.history, entries...)
	c.version++
}

func (c *conversation) endsWith(message messages.Message) bool {
	if len(c.history) == 0 {
		return false
	}
	return c.history[len(c.history)-1] == message
}

func (c *conversation) reset() {
	c.history = nil
	c.lastSpoken = ""
	c.version++
}

// snapshot returns a copy the caller is free to keep and mutate.
func (c *conversation) snapshot() []messages.Message {
	history := make([]messages.Message, 0, len(c.history))
	if err := copier.CopyWithOption(&history, c.history, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to deep copy history, falling back to shallow copy", "error", err)
		history = append(history[:0], c.history...)
	}
	return history
}

// mapHistory converts an authoritative backend history, dropping the
// bootstrap entry at index 0.
func mapHistory(entries []backend.HistoryEntry) []messages.Message {
	if len(entries) <= 1 {
		return []messages.Message{}
	}

	history := make([]messages.Message, 0, len(entries)-1)
	for _, entry := range entries[1:] {
		history = append(history, messages.FromRole(messages.Role(entry.Role), entry.Content))
	}
	return history
}
