package events

const (
	// KindCautionRequested identifies a moderation popup request.
	KindCautionRequested Kind = "dialog.caution_requested"
	// KindSummaryRequested identifies a summary popup request.
	KindSummaryRequested Kind = "dialog.summary_requested"
)

// CautionRequested asks the presentation surface to show a caution popup.
type CautionRequested struct {
	Base
	Text string
}

// NewCautionRequested creates a caution popup event.
func NewCautionRequested(text string) CautionRequested {
	return CautionRequested{Base: NewBase(KindCautionRequested), Text: text}
}

// SummaryRequested asks the presentation surface to show a summary popup.
type SummaryRequested struct {
	Base
	Text string
}

// NewSummaryRequested creates a summary popup event.
func NewSummaryRequested(text string) SummaryRequested {
	return SummaryRequested{Base: NewBase(KindSummaryRequested), Text: text}
}
