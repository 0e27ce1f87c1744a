package events

const (
	// KindSessionStarted identifies a primed session.
	KindSessionStarted Kind = "session.started"
	// KindSessionReset identifies a discarded session.
	KindSessionReset Kind = "session.reset"
)

// SessionStarted marks that a session was created and its opening turn
// completed.
type SessionStarted struct {
	Base
	SessionID string
}

// NewSessionStarted creates a session started event.
func NewSessionStarted(sessionID string) SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted), SessionID: sessionID}
}

// SessionReset marks that the session, its history and any in-flight turn
// were discarded.
type SessionReset struct{ Base }

// NewSessionReset creates a session reset event.
func NewSessionReset() SessionReset {
	return SessionReset{Base: NewBase(KindSessionReset)}
}
