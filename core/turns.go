package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	noSessionNotice      = "Please set your objective first."
	emptyObjectiveNotice = "Objective cannot be empty."
	emptyMessageNotice   = "Message cannot be empty."
	sessionStartedNotice = "Objective set successfully."
	sessionFailedNotice  = "Failed to initialize chat with objective."
	textFailedNotice     = "Failed to send message."
	audioFailedNotice    = "Failed to process audio. Please try again."
	summaryFailedNotice  = "Failed to fetch summary."
	resyncFailedNotice   = "Failed to refresh conversation history."
)

// StartSession creates a session and primes it with an empty turn so the
// assistant produces its opening reply.
func (o *Orchestrator) StartSession(ctx context.Context, request SessionRequest) error {
	ctx, span := tracer.Start(ctx, "start session")
	defer span.End()

	if strings.TrimSpace(request.Objective) == "" {
		o.effects.push(events.NewNotification(events.SeverityError, emptyObjectiveNotice, ErrEmptyObjective))
		return recordError(span, ErrEmptyObjective)
	}
	if o.gateway == nil {
		return recordError(span, ErrGatewayMissing)
	}

	o.mu.Lock()
	if o.state != StateUninitialized {
		o.mu.Unlock()
		return recordError(span, ErrSessionActive)
	}
	turn := newTurn(TurnKindBootstrap, "", nil)
	o.activeTurn = &turn
	generation, sessionCtx := o.generation, o.sessionCtx
	o.effects.push(o.setStateLocked(StateBootstrapping, turn.ID))
	o.mu.Unlock()
	span.SetAttributes(attribute.String("turn.id", turn.ID))

	ctx, done := withSessionContext(ctx, sessionCtx)
	defer done()

	created, err := o.gateway.StartSession(ctx, request)
	if err != nil {
		return o.failBootstrap(span, generation, err)
	}
	session := newSession(created.SessionID, request)
	span.SetAttributes(attribute.String("session.id", session.ID))

	response, err := o.gateway.SubmitText(ctx, session.ID, "")
	if err != nil {
		return o.failBootstrap(span, generation, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != generation {
		return o.discardLocked(span, turn)
	}

	o.session = &session
	o.conversation.replace(mapHistory(response.History))
	appended, replyEffects := o.handleReplyLocked(session, reply{
		raw:          response.AssistantResponse,
		summary:      response.Summary,
		fromSnapshot: true,
	})

	effects := []events.Event{
		events.NewHistoryUpdated(o.conversation.snapshot()),
		events.NewSessionStarted(session.ID),
		events.NewNotification(events.SeveritySuccess, sessionStartedNotice, nil),
	}
	effects = append(effects, replyEffects...)
	o.finishTurnLocked(turn.withMessages(appended))
	effects = append(effects, o.setStateLocked(StateReady, ""))
	o.effects.push(effects...)

	return nil
}

func (o *Orchestrator) failBootstrap(span trace.Span, generation uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != generation {
		logger.Debug("dropping failure of a reset session", "error", err)
		return recordError(span, ErrSessionReset)
	}

	logger.Error("failed to start session", "error", err)
	o.activeTurn = nil
	o.effects.push(
		events.NewNotification(events.SeverityError, sessionFailedNotice, err),
		o.setStateLocked(StateUninitialized, ""),
	)
	return recordError(span, fmt.Errorf("failed to start session: %w", err))
}

// SubmitText sends one typed turn. On success the history is replaced by
// the backend's authoritative version. A response without any history is
// appended locally like an audio turn.
func (o *Orchestrator) SubmitText(ctx context.Context, text string) error {
	ctx, span := tracer.Start(ctx, "submit text turn")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		o.effects.push(events.NewNotification(events.SeverityError, emptyMessageNotice, ErrEmptyMessage))
		return recordError(span, ErrEmptyMessage)
	}

	turn, session, generation, sessionCtx, err := o.beginTurn(TurnKindText, text, nil, true)
	if err != nil {
		return recordError(span, err)
	}
	span.SetAttributes(attribute.String("session.id", session.ID), attribute.String("turn.id", turn.ID))

	ctx, done := withSessionContext(ctx, sessionCtx)
	defer done()

	response, err := o.gateway.SubmitText(ctx, session.ID, text)
	if err != nil {
		return o.failTurn(span, turn, generation, textFailedNotice, err)
	}

	return o.completeTurn(span, turn, generation, func() ([]messages.Message, []events.Event) {
		echo := messages.New(messages.KindUser, text)
		if len(response.History) == 0 {
			logger.Warn("text reply without history, appending locally", "session.id", session.ID)
			return o.handleReplyLocked(session, reply{
				raw:     response.AssistantResponse,
				summary: response.Summary,
				echo:    &echo,
			})
		}
		o.conversation.replace(mapHistory(response.History))
		appended, effects := o.handleReplyLocked(session, reply{
			raw:          response.AssistantResponse,
			summary:      response.Summary,
			fromSnapshot: true,
		})
		return append([]messages.Message{echo}, appended...), effects
	})
}

// SubmitAudio sends one recorded clip as a turn. The backend returns no
// history for audio turns, so the transcription and the reply are appended
// locally.
func (o *Orchestrator) SubmitAudio(ctx context.Context, clip backend.Clip) error {
	return o.submitAudio(ctx, clip, true)
}

func (o *Orchestrator) submitRecordedAudio(ctx context.Context, clip backend.Clip) error {
	return o.submitAudio(ctx, clip, false)
}

func (o *Orchestrator) submitAudio(ctx context.Context, clip backend.Clip, gateRecorder bool) error {
	ctx, span := tracer.Start(ctx, "submit audio turn")
	defer span.End()

	turn, session, generation, sessionCtx, err := o.beginTurn(TurnKindAudio, "", &clip, gateRecorder)
	if err != nil {
		return recordError(span, err)
	}
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("turn.id", turn.ID),
		attribute.Int("audio.bytes", len(clip.Data)),
	)

	ctx, done := withSessionContext(ctx, sessionCtx)
	defer done()

	response, err := o.gateway.SubmitAudio(ctx, session.ID, clip)
	if err != nil {
		return o.failTurn(span, turn, generation, audioFailedNotice, err)
	}

	return o.completeTurn(span, turn, generation, func() ([]messages.Message, []events.Event) {
		echo := messages.New(messages.KindUser, strings.TrimSpace(response.UserText))
		appended, effects := o.handleReplyLocked(session, reply{
			raw:     response.AssistantResponse,
			summary: response.Summary,
			echo:    &echo,
		})
		if response.Fulfilled {
			effects = append(effects, events.NewNotification(events.SeveritySuccess, fulfilledNotice, nil))
		}
		return appended, effects
	})
}

// FetchSummary returns the backend's summary of the conversation so far. It
// does not touch the turn state.
func (o *Orchestrator) FetchSummary(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "fetch summary")
	defer span.End()

	o.mu.Lock()
	session, sessionCtx := o.session, o.sessionCtx
	o.mu.Unlock()
	if session == nil {
		o.effects.push(events.NewNotification(events.SeverityError, noSessionNotice, ErrNoSession))
		return "", recordError(span, ErrNoSession)
	}
	if o.gateway == nil {
		return "", recordError(span, ErrGatewayMissing)
	}
	span.SetAttributes(attribute.String("session.id", session.ID))

	ctx, done := withSessionContext(ctx, sessionCtx)
	defer done()

	response, err := o.gateway.FetchSummary(ctx, session.ID)
	if err != nil {
		logger.Error("failed to fetch summary", "session.id", session.ID, "error", err)
		o.effects.push(events.NewNotification(events.SeverityError, summaryFailedNotice, err))
		return "", recordError(span, fmt.Errorf("failed to fetch summary: %w", err))
	}

	return response.Summary, nil
}

// Resync replaces the local history with the backend's authoritative one.
func (o *Orchestrator) Resync(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "resync history")
	defer span.End()

	fetcher, ok := o.gateway.(HistoryFetcher)
	if !ok {
		return recordError(span, ErrResyncUnsupported)
	}

	turn, session, generation, sessionCtx, err := o.beginTurn(TurnKindResync, "", nil, true)
	if err != nil {
		return recordError(span, err)
	}
	span.SetAttributes(attribute.String("session.id", session.ID))

	ctx, done := withSessionContext(ctx, sessionCtx)
	defer done()

	history, err := fetcher.FetchHistory(ctx, session.ID)
	if err != nil {
		return o.failTurn(span, turn, generation, resyncFailedNotice, err)
	}

	return o.completeTurn(span, turn, generation, func() ([]messages.Message, []events.Event) {
		o.conversation.replace(mapHistory(history))
		return nil, nil
	})
}

func (o *Orchestrator) beginTurn(kind TurnKind, text string, clip *backend.Clip, gateRecorder bool) (Turn, Session, uint64, context.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gateRecorder && o.recording == RecordingProcessing {
		return Turn{}, Session{}, 0, nil, ErrTurnInFlight
	}

	switch o.state {
	case StateUninitialized:
		o.effects.push(events.NewNotification(events.SeverityError, noSessionNotice, ErrNoSession))
		return Turn{}, Session{}, 0, nil, ErrNoSession
	case StateBootstrapping, StateTurnInFlight:
		return Turn{}, Session{}, 0, nil, ErrTurnInFlight
	}
	if o.gateway == nil {
		return Turn{}, Session{}, 0, nil, ErrGatewayMissing
	}

	turn := newTurn(kind, text, clip)
	o.activeTurn = &turn
	o.effects.push(o.setStateLocked(StateTurnInFlight, turn.ID))

	return turn, *o.session, o.generation, o.sessionCtx, nil
}

func (o *Orchestrator) failTurn(span trace.Span, turn Turn, generation uint64, notice string, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != generation {
		logger.Debug("dropping failure of a reset session", "turn.id", turn.ID, "error", err)
		return recordError(span, ErrSessionReset)
	}

	logger.Error("turn failed", "turn.id", turn.ID, "turn.kind", string(turn.Kind), "error", err)
	o.activeTurn = nil
	o.effects.push(
		events.NewNotification(events.SeverityError, notice, err),
		o.setStateLocked(StateReady, ""),
	)
	return recordError(span, fmt.Errorf("%s turn failed: %w", turn.Kind, err))
}

// completeTurn applies a successful response as one batch: history changes
// and every effect they trigger are queued under a single lock acquisition.
func (o *Orchestrator) completeTurn(span trace.Span, turn Turn, generation uint64, apply func() ([]messages.Message, []events.Event)) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != generation {
		return o.discardLocked(span, turn)
	}

	version := o.conversation.version
	result, replyEffects := apply()

	var effects []events.Event
	if o.conversation.version != version {
		effects = append(effects, events.NewHistoryUpdated(o.conversation.snapshot()))
	}
	effects = append(effects, replyEffects...)
	if turn.Kind != TurnKindResync {
		o.finishTurnLocked(turn.withMessages(result))
	} else {
		o.activeTurn = nil
	}
	effects = append(effects, o.setStateLocked(StateReady, ""))
	o.effects.push(effects...)

	return nil
}

func (o *Orchestrator) finishTurnLocked(turn Turn) {
	o.turns = append(o.turns, turn)
	o.activeTurn = nil
}

func (o *Orchestrator) discardLocked(span trace.Span, turn Turn) error {
	logger.Debug("discarding response for a reset session", "turn.id", turn.ID, "turn.kind", string(turn.Kind))
	return recordError(span, ErrSessionReset)
}

// IsRefusal reports whether err means a submission was refused without
// contacting the backend.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrTurnInFlight)
}
