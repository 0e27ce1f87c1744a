package events

// KindNotification identifies a transient notification.
const KindNotification Kind = "notification.raised"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification carries a user-facing message. Err holds the underlying error,
// if any, so receivers can inspect it with errors.Is/As.
type Notification struct {
	Base
	Severity Severity
	Text     string
	Err      error
}

// NewNotification creates a notification event.
func NewNotification(severity Severity, text string, err error) Notification {
	return Notification{Base: NewBase(KindNotification), Severity: severity, Text: text, Err: err}
}
