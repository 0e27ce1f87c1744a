// Package tui is the terminal presentation surface of a conversation. It
// forwards user input to the orchestrator and drains its side effects.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/koscakluka/ema-translate/core"
	"github.com/koscakluka/ema-translate/core/events"
	"github.com/koscakluka/ema-translate/core/messages"
	"github.com/koscakluka/ema-translate/internal/speaker"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// Port is the part of the orchestrator the surface drives.
type Port interface {
	StartSession(ctx context.Context, request orchestration.SessionRequest) error
	SubmitText(ctx context.Context, text string) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	FetchSummary(ctx context.Context) (string, error)
	Resync(ctx context.Context) error
	Reset()

	NextEffect(ctx context.Context) (events.Event, error)
	VisibleHistory() []messages.Message
	Session() (orchestration.Session, bool)
	State() orchestration.TurnState
	RecordingState() orchestration.RecordingState
	CanRecord() bool
}

// SpeechPort reads speech requests out loud. It may be nil.
type SpeechPort interface {
	Speak(ctx context.Context, request events.SpeechRequested) (speaker.Result, error)
}

// ─── async messages ──────────────────────────────────────────────────────────

type effectMsg struct{ event events.Event }

type sessionStartedMsg struct{ err error }

type turnDoneMsg struct {
	text string
	err  error
}

type recordingMsg struct{ err error }

type summaryMsg struct {
	text string
	err  error
}

type resyncedMsg struct{ err error }

type spokenMsg struct {
	result speaker.Result
	err    error
}

type noticeExpiredMsg struct{ id int }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Send    key.Binding
	Record  key.Binding
	Summary key.Binding
	Refresh key.Binding
	Reset   key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Record, k.Summary, k.Refresh, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Dismiss}}
}

func defaultKeys() keyMap {
	return keyMap{
		Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Record:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record")),
		Summary: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "summary")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "refresh")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new objective")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

const noticeTimeout = 4 * time.Second

const (
	turnInFlightNotice  = "Please wait for the current reply."
	cannotRecordNotice  = "Recording is not available right now."
	audioLinkNotice     = "Speech audio is available at "
	speechFailureNotice = "Could not play the reply."
)

type popupKind int

const (
	popupCaution popupKind = iota
	popupSummary
)

type popup struct {
	kind popupKind
	text string
}

type Model struct {
	ctx    context.Context
	port   Port
	speech SpeechPort
	keys   keyMap

	// request holds the languages used for the next session.
	request orchestration.SessionRequest

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	width  int
	height int

	history []messages.Message
	popups  []popup
	notice  *events.Notification

	// noticeID invalidates expiry timers of replaced notices.
	noticeID int

	speechQueue []events.SpeechRequested
	speaking    bool
}

// New returns the model. defaults pre-fills the objective and carries the
// languages of every session started from the surface.
func New(ctx context.Context, port Port, speech SpeechPort, defaults orchestration.SessionRequest) Model {
	input := textinput.New()
	input.CharLimit = 2000
	input.Focus()
	input.SetValue(defaults.Objective)

	vp := viewport.New(80, 20)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(hotStyle))

	m := Model{
		ctx:      ctx,
		port:     port,
		speech:   speech,
		keys:     defaultKeys(),
		request:  defaults,
		input:    input,
		viewport: vp,
		spinner:  sp,
		help:     help.New(),
	}
	m.updatePrompt()
	m.refreshHistory(port.VisibleHistory())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEffect(m.ctx, m.port))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case effectMsg:
		cmd := m.handleEffect(msg.event)
		return m, tea.Batch(cmd, waitForEffect(m.ctx, m.port))

	case sessionStartedMsg:
		m.updatePrompt()
		return m, nil

	case turnDoneMsg:
		if errors.Is(msg.err, orchestration.ErrTurnInFlight) {
			// Refused turns hand the typed text back unless something new was typed.
			if m.input.Value() == "" {
				m.input.SetValue(msg.text)
			}
			return m.notify(events.NewNotification(events.SeverityInfo, turnInFlightNotice, msg.err))
		}
		return m, nil

	case recordingMsg:
		if errors.Is(msg.err, orchestration.ErrTurnInFlight) || errors.Is(msg.err, orchestration.ErrRecorderBusy) {
			return m.notify(events.NewNotification(events.SeverityInfo, turnInFlightNotice, msg.err))
		}
		return m, nil

	case summaryMsg:
		if msg.err == nil && strings.TrimSpace(msg.text) != "" {
			m.popups = append(m.popups, popup{kind: popupSummary, text: msg.text})
		}
		return m, nil

	case resyncedMsg:
		if errors.Is(msg.err, orchestration.ErrTurnInFlight) {
			return m.notify(events.NewNotification(events.SeverityInfo, turnInFlightNotice, msg.err))
		}
		return m, nil

	case spokenMsg:
		m.speaking = false
		var cmd tea.Cmd
		switch {
		case msg.err != nil && !errors.Is(msg.err, context.Canceled):
			logger.Warn("speech playback failed", "error", msg.err)
			cmd = m.setNotice(events.NewNotification(events.SeverityWarning, speechFailureNotice, msg.err))
		case msg.result.AudioURL != "" && !msg.result.Played:
			cmd = m.setNotice(events.NewNotification(events.SeverityInfo, audioLinkNotice+msg.result.AudioURL, nil))
		}
		next := m.speakNext()
		return m, tea.Batch(cmd, next)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if len(m.popups) > 0 {
		if key.Matches(msg, m.keys.Dismiss) || key.Matches(msg, m.keys.Send) {
			m.popups = m.popups[1:]
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		switch m.port.State() {
		case orchestration.StateUninitialized:
			request := m.request
			request.Objective = text
			return m, startSession(m.ctx, m.port, request)
		case orchestration.StateBootstrapping, orchestration.StateTurnInFlight:
			return m.notify(events.NewNotification(events.SeverityInfo, turnInFlightNotice, nil))
		}
		if m.port.RecordingState() == orchestration.RecordingProcessing {
			return m.notify(events.NewNotification(events.SeverityInfo, turnInFlightNotice, nil))
		}
		m.input.Reset()
		return m, submitText(m.ctx, m.port, text)

	case key.Matches(msg, m.keys.Record):
		if m.port.RecordingState() == orchestration.RecordingCapturing {
			return m, stopRecording(m.ctx, m.port)
		}
		if !m.port.CanRecord() {
			return m.notify(events.NewNotification(events.SeverityInfo, cannotRecordNotice, nil))
		}
		return m, startRecording(m.ctx, m.port)

	case key.Matches(msg, m.keys.Summary):
		return m, fetchSummary(m.ctx, m.port)

	case key.Matches(msg, m.keys.Refresh):
		return m, resync(m.ctx, m.port)

	case key.Matches(msg, m.keys.Reset):
		m.port.Reset()
		m.speechQueue = nil
		m.popups = nil
		m.input.SetValue(m.request.Objective)
		m.updatePrompt()
		return m, nil

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleEffect(event events.Event) tea.Cmd {
	switch e := event.(type) {
	case events.SpeechRequested:
		m.speechQueue = append(m.speechQueue, e)
		if !m.speaking {
			return m.speakNext()
		}
	case events.CautionRequested:
		m.popups = append(m.popups, popup{kind: popupCaution, text: e.Text})
	case events.SummaryRequested:
		m.popups = append(m.popups, popup{kind: popupSummary, text: e.Text})
	case events.Notification:
		return m.setNotice(e)
	case events.HistoryUpdated:
		m.refreshHistory(e.History)
	case events.SessionStarted:
		m.input.Reset()
		m.updatePrompt()
	case events.SessionReset:
		m.speechQueue = nil
		m.updatePrompt()
	}
	return nil
}

// notify shows notice and returns the updated model.
func (m Model) notify(notice events.Notification) (tea.Model, tea.Cmd) {
	cmd := m.setNotice(notice)
	return m, cmd
}

// speakNext starts the oldest queued speech request, if nothing is playing.
func (m *Model) speakNext() tea.Cmd {
	if m.speaking || len(m.speechQueue) == 0 {
		return nil
	}
	request := m.speechQueue[0]
	m.speechQueue = m.speechQueue[1:]
	if m.speech == nil {
		m.speechQueue = nil
		return nil
	}
	m.speaking = true
	return speak(m.ctx, m.speech, request)
}

func (m *Model) setNotice(notice events.Notification) tea.Cmd {
	m.noticeID++
	m.notice = &notice
	id := m.noticeID
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

func (m *Model) refreshHistory(history []messages.Message) {
	m.history = messages.Visible(history)
	m.viewport.SetContent(renderHistory(m.history, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m *Model) updatePrompt() {
	if _, ok := m.port.Session(); ok {
		m.input.Prompt = "› "
		m.input.Placeholder = "Type a message"
		return
	}
	m.input.Prompt = "objective › "
	m.input.Placeholder = "What do you want to say?"
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	// header, status, notice, input and help lines plus the pane border
	const chrome = 9
	m.viewport.Width = max(width-6, 10)
	m.viewport.Height = max(height-chrome, 3)
	m.input.Width = max(width-16, 10)
	m.refreshHistory(m.history)
}

// Run shows the surface until the user quits or ctx is done.
func Run(ctx context.Context, port Port, speech SpeechPort, defaults orchestration.SessionRequest) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(New(ctx, port, speech, defaults), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
