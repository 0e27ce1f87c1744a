package orchestration

import (
	"github.com/google/uuid"
	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/messages"
)

type SessionRequest = backend.SessionRequest

// Session is created once per objective and only discarded by Reset.
type Session struct {
	ID             string
	Objective      string
	UserLanguage   string
	TargetLanguage string
	Country        string
}

func newSession(id string, request SessionRequest) Session {
	return Session{
		ID:             id,
		Objective:      request.Objective,
		UserLanguage:   request.UserLanguage,
		TargetLanguage: request.TargetLanguage,
		Country:        request.Country,
	}
}

type TurnKind string

const (
	TurnKindBootstrap TurnKind = "bootstrap"
	TurnKindText      TurnKind = "text"
	TurnKindAudio     TurnKind = "audio"
	TurnKindResync    TurnKind = "resync"
)

// Turn is one user action and the messages it produced.
type Turn struct {
	ID   string
	Kind TurnKind
	// Text is set for text turns, Clip for audio turns.
	Text string
	Clip *backend.Clip

	Messages []messages.Message
}

func newTurn(kind TurnKind, text string, clip *backend.Clip) Turn {
	return Turn{
		ID:   uuid.NewString(),
		Kind: kind,
		Text: text,
		Clip: clip,
	}
}

func (t Turn) withMessages(result []messages.Message) Turn {
	t.Messages = result
	return t
}
