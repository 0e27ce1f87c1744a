package messages

// Kind is the semantic kind of a rendered message.
//
// The vocabulary is closed: every message produced by this package carries
// one of the kinds below, anything else is folded into [KindAssistant].
type Kind string

const (
	// KindUser is addressed to the user, in the user's language.
	KindUser Kind = "USER"
	// KindTarget is addressed to the conversation partner, in the target
	// language.
	KindTarget Kind = "TARGET"
	// KindCaution is a moderation warning for the user.
	KindCaution Kind = "CAUTION"
	// KindSummary summarises the conversation so far.
	KindSummary Kind = "SUMMARY"
	// KindSystem is backend bookkeeping, e.g. the objective line.
	KindSystem Kind = "SYSTEM"
	// KindAssistant is any assistant reply without a recognised tag.
	KindAssistant Kind = "ASSISTANT"
)

// Kinds lists the full vocabulary in display order.
func Kinds() []Kind {
	return []Kind{KindUser, KindTarget, KindCaution, KindSummary, KindSystem, KindAssistant}
}

// IsValid reports whether k belongs to the vocabulary.
func (k Kind) IsValid() bool {
	switch k {
	case KindUser, KindTarget, KindCaution, KindSummary, KindSystem, KindAssistant:
		return true
	}
	return false
}

// Label is the display label for k. Unknown kinds render as the assistant.
func (k Kind) Label() string {
	switch k {
	case KindUser:
		return "You"
	case KindTarget:
		return "Target"
	case KindCaution:
		return "Caution"
	case KindSummary:
		return "Summary"
	case KindSystem:
		return "System"
	default:
		return "Assistant"
	}
}

func (k Kind) String() string { return string(k) }

// taggable reports whether k can appear as a leading reply tag.
func (k Kind) taggable() bool {
	switch k {
	case KindUser, KindTarget, KindCaution, KindSummary:
		return true
	}
	return false
}
