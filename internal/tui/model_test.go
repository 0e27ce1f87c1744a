package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/koscakluka/ema-translate/core"
	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
	"github.com/koscakluka/ema-translate/internal/speaker"
)

type fakePort struct {
	session   *orchestration.Session
	state     orchestration.TurnState
	recording orchestration.RecordingState
	canRecord bool
	history   []messages.Message
	summary   string

	started        []orchestration.SessionRequest
	submitted      []string
	startRecCalls  int
	stopRecCalls   int
	resyncCalls    int
	resets         int
	summaryFetches int
}

func (f *fakePort) StartSession(_ context.Context, request orchestration.SessionRequest) error {
	f.started = append(f.started, request)
	return nil
}

func (f *fakePort) SubmitText(_ context.Context, text string) error {
	f.submitted = append(f.submitted, text)
	return nil
}

func (f *fakePort) StartRecording(context.Context) error {
	f.startRecCalls++
	return nil
}

func (f *fakePort) StopRecording(context.Context) error {
	f.stopRecCalls++
	return nil
}

func (f *fakePort) FetchSummary(context.Context) (string, error) {
	f.summaryFetches++
	return f.summary, nil
}

func (f *fakePort) Resync(context.Context) error {
	f.resyncCalls++
	return nil
}

func (f *fakePort) Reset() {
	f.resets++
	f.session = nil
	f.state = orchestration.StateUninitialized
}

func (f *fakePort) NextEffect(ctx context.Context) (events.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakePort) VisibleHistory() []messages.Message { return messages.Visible(f.history) }

func (f *fakePort) Session() (orchestration.Session, bool) {
	if f.session == nil {
		return orchestration.Session{}, false
	}
	return *f.session, true
}

func (f *fakePort) State() orchestration.TurnState { return f.state }

func (f *fakePort) RecordingState() orchestration.RecordingState { return f.recording }

func (f *fakePort) CanRecord() bool { return f.canRecord }

type fakeSpeech struct {
	requests []events.SpeechRequested
	result   speaker.Result
}

func (f *fakeSpeech) Speak(_ context.Context, request events.SpeechRequested) (speaker.Result, error) {
	f.requests = append(f.requests, request)
	return f.result, nil
}

func readyPort() *fakePort {
	return &fakePort{
		session: &orchestration.Session{
			ID:             "s1",
			Objective:      "order a coffee",
			UserLanguage:   "en",
			TargetLanguage: "es",
			Country:        "ES",
		},
		state:     orchestration.StateReady,
		canRecord: true,
	}
}

var defaults = orchestration.SessionRequest{
	Objective:      "order a coffee",
	UserLanguage:   "en",
	TargetLanguage: "es",
	Country:        "ES",
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return model, cmd
}

func TestEnterWithoutSessionStartsSession(t *testing.T) {
	port := &fakePort{}
	m := New(context.Background(), port, nil, defaults)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(sessionStartedMsg); !ok {
		t.Fatal("expected sessionStartedMsg")
	}
	if len(port.started) != 1 {
		t.Fatalf("expected one session start, got %d", len(port.started))
	}
	got := port.started[0]
	if got.Objective != "order a coffee" || got.TargetLanguage != "es" || got.Country != "ES" {
		t.Fatalf("expected the defaults to be sent, got %+v", got)
	}
	if len(port.submitted) != 0 {
		t.Fatalf("expected no text submission, got %v", port.submitted)
	}
}

func TestEnterWhileBootstrappingShowsNotice(t *testing.T) {
	port := &fakePort{state: orchestration.StateBootstrapping}
	m := New(context.Background(), port, nil, defaults)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.notice == nil || m.notice.Text != turnInFlightNotice {
		t.Fatalf("expected the in-flight notice, got %+v", m.notice)
	}
	if len(port.started) != 0 || len(port.submitted) != 0 {
		t.Fatal("expected no calls while bootstrapping")
	}
}

func TestEnterWithSessionSubmitsText(t *testing.T) {
	port := readyPort()
	m := New(context.Background(), port, nil, defaults)
	m.input.SetValue("dos cafés, por favor")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := cmd().(turnDoneMsg); !ok {
		t.Fatal("expected turnDoneMsg")
	}
	if len(port.submitted) != 1 || port.submitted[0] != "dos cafés, por favor" {
		t.Fatalf("expected the message to be submitted, got %v", port.submitted)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected the input to be cleared, got %q", m.input.Value())
	}
}

func TestEnterWhileTurnInFlightKeepsInput(t *testing.T) {
	for _, port := range []*fakePort{
		{session: readyPort().session, state: orchestration.StateTurnInFlight},
		{session: readyPort().session, state: orchestration.StateReady, recording: orchestration.RecordingProcessing},
	} {
		m := New(context.Background(), port, nil, defaults)
		m.input.SetValue("la cuenta, por favor")

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.input.Value() != "la cuenta, por favor" {
			t.Fatalf("expected the input to be kept, got %q", m.input.Value())
		}
		if m.notice == nil || m.notice.Text != turnInFlightNotice {
			t.Fatalf("expected the in-flight notice, got %+v", m.notice)
		}
		if len(port.submitted) != 0 {
			t.Fatalf("expected nothing submitted, got %v", port.submitted)
		}
	}
}

func TestRefusedSubmissionRestoresInput(t *testing.T) {
	m := New(context.Background(), readyPort(), nil, defaults)

	m, _ = update(t, m, turnDoneMsg{text: "otra vez", err: orchestration.ErrTurnInFlight})
	if m.input.Value() != "otra vez" {
		t.Fatalf("expected the refused text back in the input, got %q", m.input.Value())
	}

	m.input.SetValue("nuevo")
	m, _ = update(t, m, turnDoneMsg{text: "otra vez", err: orchestration.ErrTurnInFlight})
	if m.input.Value() != "nuevo" {
		t.Fatalf("expected newer input to win, got %q", m.input.Value())
	}
}

func TestRecordToggle(t *testing.T) {
	port := readyPort()
	m := New(context.Background(), port, nil, defaults)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	cmd()
	if port.startRecCalls != 1 {
		t.Fatalf("expected recording to start, got %d calls", port.startRecCalls)
	}

	port.recording = orchestration.RecordingCapturing
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	cmd()
	if port.stopRecCalls != 1 {
		t.Fatalf("expected recording to stop, got %d calls", port.stopRecCalls)
	}
}

func TestRecordRefusedWhenUnavailable(t *testing.T) {
	port := readyPort()
	port.canRecord = false
	m := New(context.Background(), port, nil, defaults)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if port.startRecCalls != 0 {
		t.Fatal("expected no recording attempt")
	}
	if m.notice == nil || m.notice.Text != cannotRecordNotice {
		t.Fatalf("expected the unavailable notice, got %+v", m.notice)
	}
}

func TestPopupsQueueAndDismiss(t *testing.T) {
	m := New(context.Background(), readyPort(), nil, defaults)

	m, _ = update(t, m, effectMsg{event: events.NewCautionRequested("Mind your language.")})
	m, _ = update(t, m, effectMsg{event: events.NewSummaryRequested("You ordered coffee.")})
	if len(m.popups) != 2 || m.popups[0].kind != popupCaution {
		t.Fatalf("expected caution then summary, got %+v", m.popups)
	}
	if !strings.Contains(m.View(), "Mind your language.") {
		t.Fatal("expected the caution to be rendered")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.popups) != 1 || m.popups[0].kind != popupSummary {
		t.Fatalf("expected the summary to remain, got %+v", m.popups)
	}
}

func TestFetchedSummaryOpensPopup(t *testing.T) {
	port := readyPort()
	port.summary = "You ordered coffee."
	m := New(context.Background(), port, nil, defaults)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	msg := cmd()
	m, _ = update(t, m, msg)
	if len(m.popups) != 1 || m.popups[0].text != "You ordered coffee." {
		t.Fatalf("expected the summary popup, got %+v", m.popups)
	}

	m, _ = update(t, m, summaryMsg{text: "  "})
	if len(m.popups) != 1 {
		t.Fatalf("expected a blank summary to be ignored, got %d popups", len(m.popups))
	}
}

func TestSpeechPlaysOneAtATime(t *testing.T) {
	m := New(context.Background(), readyPort(), &fakeSpeech{}, defaults)

	m, _ = update(t, m, effectMsg{event: events.NewSpeechRequested("hola", "es-ES")})
	m, _ = update(t, m, effectMsg{event: events.NewSpeechRequested("hello", "en-ES")})
	if !m.speaking || len(m.speechQueue) != 1 {
		t.Fatalf("expected one playing and one queued, got speaking=%v queued=%d", m.speaking, len(m.speechQueue))
	}

	m, _ = update(t, m, spokenMsg{result: speaker.Result{Played: true}})
	if !m.speaking || len(m.speechQueue) != 0 {
		t.Fatalf("expected the queued request to start, got speaking=%v queued=%d", m.speaking, len(m.speechQueue))
	}

	m, _ = update(t, m, spokenMsg{result: speaker.Result{Played: true}})
	if m.speaking {
		t.Fatal("expected playback to be idle")
	}
}

func TestSpeakNextRunsOldestRequest(t *testing.T) {
	speech := &fakeSpeech{result: speaker.Result{AudioURL: "http://backend/audio.mp3"}}
	m := New(context.Background(), readyPort(), speech, defaults)
	m.speechQueue = []events.SpeechRequested{
		events.NewSpeechRequested("first", "en"),
		events.NewSpeechRequested("second", "en"),
	}

	msg := m.speakNext()()
	if len(speech.requests) != 1 || speech.requests[0].Text != "first" {
		t.Fatalf("expected the first request to be spoken, got %+v", speech.requests)
	}

	m, _ = update(t, m, msg)
	if m.notice == nil || !strings.Contains(m.notice.Text, "http://backend/audio.mp3") {
		t.Fatalf("expected the audio link to be reported, got %+v", m.notice)
	}
}

func TestSpeechWithoutSpeakerIsDropped(t *testing.T) {
	m := New(context.Background(), readyPort(), nil, defaults)

	m, _ = update(t, m, effectMsg{event: events.NewSpeechRequested("hola", "es-ES")})
	if m.speaking || len(m.speechQueue) != 0 {
		t.Fatalf("expected nothing to play, got speaking=%v queued=%d", m.speaking, len(m.speechQueue))
	}
}

func TestStaleNoticeExpiryIsIgnored(t *testing.T) {
	m := New(context.Background(), readyPort(), nil, defaults)

	m, _ = update(t, m, effectMsg{event: events.NewNotification(events.SeverityInfo, "first", nil)})
	m, _ = update(t, m, effectMsg{event: events.NewNotification(events.SeverityError, "second", nil)})

	m, _ = update(t, m, noticeExpiredMsg{id: 1})
	if m.notice == nil || m.notice.Text != "second" {
		t.Fatalf("expected the second notice to stay, got %+v", m.notice)
	}
	m, _ = update(t, m, noticeExpiredMsg{id: 2})
	if m.notice != nil {
		t.Fatalf("expected the notice to expire, got %+v", m.notice)
	}
}

func TestHistoryUpdateRendersVisibleMessages(t *testing.T) {
	m := New(context.Background(), readyPort(), nil, defaults)

	history := []messages.Message{
		messages.New(messages.KindUser, "I want a coffee"),
		messages.New(messages.KindAssistant, " "),
		messages.New(messages.KindTarget, "Quiero un café"),
	}
	m, _ = update(t, m, effectMsg{event: events.NewHistoryUpdated(history)})
	if len(m.history) != 2 {
		t.Fatalf("expected blank assistant entries to be hidden, got %d", len(m.history))
	}

	rendered := renderHistory(m.history, 80)
	if !strings.Contains(rendered, "Quiero un café") || !strings.Contains(rendered, messages.KindTarget.Label()) {
		t.Fatalf("expected labelled history, got %q", rendered)
	}
}

func TestResetClearsPendingSpeech(t *testing.T) {
	port := readyPort()
	m := New(context.Background(), port, &fakeSpeech{}, defaults)
	m.speechQueue = []events.SpeechRequested{events.NewSpeechRequested("hola", "es")}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if port.resets != 1 {
		t.Fatalf("expected one reset, got %d", port.resets)
	}
	if len(m.speechQueue) != 0 {
		t.Fatal("expected the speech queue to be cleared")
	}
	if m.input.Value() != defaults.Objective {
		t.Fatalf("expected the objective to be pre-filled, got %q", m.input.Value())
	}
}

func TestLanguageName(t *testing.T) {
	if got := languageName("es"); got != "Spanish" {
		t.Fatalf("expected Spanish, got %q", got)
	}
	if got := languageName("not a tag"); got != "not a tag" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
