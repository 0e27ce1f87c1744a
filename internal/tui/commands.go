package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/koscakluka/ema-translate/core"
	"github.com/koscakluka/ema-translate/core/events"
)

// waitForEffect blocks until the orchestrator queues the next side effect.
// It yields no message once ctx is done.
func waitForEffect(ctx context.Context, port Port) tea.Cmd {
	return func() tea.Msg {
		event, err := port.NextEffect(ctx)
		if err != nil {
			return nil
		}
		return effectMsg{event: event}
	}
}

func startSession(ctx context.Context, port Port, request orchestration.SessionRequest) tea.Cmd {
	return func() tea.Msg {
		return sessionStartedMsg{err: port.StartSession(ctx, request)}
	}
}

func submitText(ctx context.Context, port Port, text string) tea.Cmd {
	return func() tea.Msg {
		return turnDoneMsg{text: text, err: port.SubmitText(ctx, text)}
	}
}

func startRecording(ctx context.Context, port Port) tea.Cmd {
	return func() tea.Msg {
		return recordingMsg{err: port.StartRecording(ctx)}
	}
}

// stopRecording returns once the recorded turn was answered.
func stopRecording(ctx context.Context, port Port) tea.Cmd {
	return func() tea.Msg {
		return recordingMsg{err: port.StopRecording(ctx)}
	}
}

func fetchSummary(ctx context.Context, port Port) tea.Cmd {
	return func() tea.Msg {
		text, err := port.FetchSummary(ctx)
		return summaryMsg{text: text, err: err}
	}
}

func resync(ctx context.Context, port Port) tea.Cmd {
	return func() tea.Msg {
		return resyncedMsg{err: port.Resync(ctx)}
	}
}

func speak(ctx context.Context, speech SpeechPort, request events.SpeechRequested) tea.Cmd {
	return func() tea.Msg {
		result, err := speech.Speak(ctx, request)
		return spokenMsg{result: result, err: err}
	}
}
