package events

import (
	"strings"
	"time"
)

// Kind names an event as "<namespace>.<name>".
type Kind string

// Namespace is the part of k before the first dot.
func (k Kind) Namespace() string {
	namespace, _, _ := strings.Cut(string(k), ".")
	return namespace
}

// Event is a side effect queued for the presentation surface.
type Event interface {
	Kind() Kind
	// OccurredAt is when the orchestrator decided on the effect.
	OccurredAt() time.Time
}

// Base is embedded by every event to implement [Event].
type Base struct {
	kind       Kind
	occurredAt time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, occurredAt: time.Now()}
}

func (b Base) Kind() Kind { return b.kind }

func (b Base) OccurredAt() time.Time { return b.occurredAt }
