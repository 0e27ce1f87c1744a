package orchestration

import (
	"strings"

	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
)

const (
	emptyReplyNotice = "Received an empty response from the Assistant."
	fulfilledNotice  = "Objective fulfilled."
)

type reply struct {
	raw     string
	summary string
	// echo is appended ahead of the reply, in the same batch, unless the
	// reply turns out to be blank.
	echo *messages.Message
	// fromSnapshot marks replies that came with an authoritative history,
	// which may already end with the reply itself.
	fromSnapshot bool
}

// handleReplyLocked classifies a raw reply, appends what it produced to the
// history and returns the effects it triggers along with the appended
// messages.
func (o *Orchestrator) handleReplyLocked(session Session, r reply) ([]messages.Message, []events.Event) {
	message := messages.ClassifyMessage(r.raw)
	if message.IsBlank() {
		logger.Warn("empty assistant reply", "session.id", session.ID)
		return nil, []events.Event{
			events.NewNotification(events.SeverityWarning, emptyReplyNotice, ErrEmptyReply),
		}
	}

	var appended []messages.Message
	if r.echo != nil && !r.echo.IsBlank() {
		appended = append(appended, *r.echo)
	}
	if !r.fromSnapshot || !o.conversation.endsWith(message) {
		appended = append(appended, message)
	}
	o.conversation.append(appended...)

	speech := events.NewSpeechRequested(message.Text, speechLanguage(session, message.Kind))
	var effects []events.Event
	switch message.Kind {
	case messages.KindUser, messages.KindTarget:
		effects = append(effects, speech)
	case messages.KindCaution:
		effects = append(effects, speech, events.NewCautionRequested(message.Text))
	case messages.KindSummary:
		effects = append(effects, speech, events.NewSummaryRequested(message.Text))
	case messages.KindAssistant, messages.KindSystem:
		logger.Debug("reply without a recognized tag", "session.id", session.ID)
		effects = append(effects, speech)
	}
	o.conversation.lastSpoken = message.Text

	if summary := strings.TrimSpace(r.summary); summary != "" {
		effects = append(effects,
			events.NewSummaryRequested(summary),
			events.NewSpeechRequested(summary, speechLanguage(session, messages.KindSummary)),
		)
		o.conversation.lastSpoken = summary
	}

	return appended, effects
}
