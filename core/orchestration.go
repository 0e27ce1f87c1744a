package orchestration

import (
	"context"
	"sync"

	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
)

// Orchestrator drives one conversation at a time. Methods block on network
// and device I/O; side effects are queued and drained with NextEffect or
// DrainEffects.
type Orchestrator struct {
	mu sync.Mutex

	gateway Gateway
	state   TurnState
	session *Session
	// generation changes on every Reset so responses issued against an older
	// session can be recognized and dropped.
	generation    uint64
	sessionCtx    context.Context
	cancelSession context.CancelFunc
	activeTurn    *Turn
	conversation  conversation
	turns         []Turn

	recorder *recorder
	// recording mirrors the recorder state as reported through its callback.
	recording        RecordingState
	recordingSeq     uint64
	onRecordingState func(RecordingState)
	effects          *effectQueue
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		state:   StateUninitialized,
		effects: newEffectQueue(),
	}
	o.sessionCtx, o.cancelSession = context.WithCancel(context.Background())
	o.recorder = newRecorder(o.effects.push, o.recordingAllowed, o.submitRecordedAudio, o.recordingStateChanged)

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Close cancels anything in flight and stops an active capture. The
// orchestrator must not be used afterwards.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	o.generation++
	o.cancelSession()
	o.mu.Unlock()

	return o.recorder.reset()
}

// Reset discards the session, its history and any turn in flight. A response
// that arrives afterwards is dropped.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.generation++
	o.cancelSession()
	o.sessionCtx, o.cancelSession = context.WithCancel(context.Background())

	o.session = nil
	o.activeTurn = nil
	o.turns = nil
	o.conversation.reset()
	o.effects.push(
		events.NewSessionReset(),
		events.NewHistoryUpdated(o.conversation.snapshot()),
		o.setStateLocked(StateUninitialized, ""),
	)
	o.mu.Unlock()

	if err := o.recorder.reset(); err != nil {
		logger.Warn("failed to stop capture on reset", "error", err)
	}
}

func (o *Orchestrator) setStateLocked(state TurnState, turnID string) events.Event {
	o.state = state
	return events.NewTurnStateChanged(state.String(), turnID)
}

func (o *Orchestrator) State() TurnState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) HasSession() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session != nil
}

func (o *Orchestrator) Session() (Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return Session{}, false
	}
	return *o.session, true
}

// History returns a copy of the full conversation history.
func (o *Orchestrator) History() []messages.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conversation.snapshot()
}

// VisibleHistory returns the history as it should be rendered.
func (o *Orchestrator) VisibleHistory() []messages.Message {
	return messages.Visible(o.History())
}

// LastSpoken is the text of the most recent speech request.
func (o *Orchestrator) LastSpoken() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conversation.lastSpoken
}

// Turns returns the completed turns of the current session.
func (o *Orchestrator) Turns() []Turn {
	o.mu.Lock()
	defer o.mu.Unlock()

	turns := make([]Turn, len(o.turns))
	copy(turns, o.turns)
	return turns
}

// ActiveTurn returns the turn in flight, if any.
func (o *Orchestrator) ActiveTurn() (Turn, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.activeTurn == nil {
		return Turn{}, false
	}
	return *o.activeTurn, true
}

func (o *Orchestrator) RecordingState() RecordingState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recording
}

// CanRecord reports whether StartRecording would be accepted right now.
func (o *Orchestrator) CanRecord() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recordingAllowedLocked() == nil && o.recording == RecordingIdle
}

func (o *Orchestrator) recordingAllowed() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recordingAllowedLocked()
}

// recordingAllowedLocked refuses recordings without a session or while a turn
// is in flight.
func (o *Orchestrator) recordingAllowedLocked() error {
	switch {
	case o.session == nil:
		return ErrNoSession
	case o.state != StateReady:
		return ErrTurnInFlight
	}
	return nil
}

func (o *Orchestrator) StartRecording(ctx context.Context) error {
	return o.recorder.start(ctx)
}

// StopRecording stops the capture and submits the recording as one audio
// turn. It returns once that turn completed.
func (o *Orchestrator) StopRecording(ctx context.Context) error {
	return o.recorder.stop(ctx)
}

func (o *Orchestrator) recordingStateChanged(state RecordingState, seq uint64) {
	o.mu.Lock()
	if seq < o.recordingSeq {
		o.mu.Unlock()
		return
	}
	o.recordingSeq = seq
	o.recording = state
	o.effects.push(events.NewRecordingStateChanged(state.String()))
	o.mu.Unlock()

	if o.onRecordingState != nil {
		o.onRecordingState(state)
	}
}
