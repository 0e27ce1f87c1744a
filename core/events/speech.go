package events

// KindSpeechRequested identifies a request to read text out loud.
const KindSpeechRequested Kind = "speech.requested"

// SpeechRequested asks the presentation surface to speak Text.
type SpeechRequested struct {
	Base
	Text string
	// Language is a BCP 47 tag, e.g. "en-US". Empty when unknown.
	Language string
}

// NewSpeechRequested creates a speech request event.
func NewSpeechRequested(text, language string) SpeechRequested {
	return SpeechRequested{Base: NewBase(KindSpeechRequested), Text: text, Language: language}
}
