package orchestration

import (
	"context"

	"github.com/koscakluka/ema-translate/core/audio"
	"github.com/koscakluka/ema-translate/core/backend"
)

type OrchestratorOption func(*Orchestrator)

// Gateway is the backend the orchestrator dispatches turns to.
type Gateway interface {
	StartSession(ctx context.Context, request backend.SessionRequest) (backend.SessionResponse, error)
	SubmitText(ctx context.Context, sessionID, text string) (backend.TextTurnResponse, error)
	SubmitAudio(ctx context.Context, sessionID string, clip backend.Clip) (backend.AudioTurnResponse, error)
	FetchSummary(ctx context.Context, sessionID string) (backend.SummaryResponse, error)
}

// HistoryFetcher is implemented by gateways that can return the
// authoritative history on demand.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, sessionID string) ([]backend.HistoryEntry, error)
}

func WithGateway(gateway Gateway) OrchestratorOption {
	return func(o *Orchestrator) {
		o.gateway = gateway
	}
}

type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

// AudioInputWithEncoding is implemented by inputs that report the format of
// the audio they capture.
type AudioInputWithEncoding interface {
	AudioInput
	EncodingInfo() audio.EncodingInfo
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.recorder.set(client) }
}

// WithRecordingStateCallback registers a callback invoked on every recording
// state transition, in addition to the queued RecordingStateChanged effect.
func WithRecordingStateCallback(callback func(RecordingState)) OrchestratorOption {
	return func(o *Orchestrator) { o.onRecordingState = callback }
}
