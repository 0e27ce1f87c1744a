package orchestration

import (
	"context"
	"sync"
	"testing"

	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/events"
)

type fakeGateway struct {
	mu sync.Mutex

	startSession func(context.Context, backend.SessionRequest) (backend.SessionResponse, error)
	submitText   func(context.Context, string, string) (backend.TextTurnResponse, error)
	submitAudio  func(context.Context, string, backend.Clip) (backend.AudioTurnResponse, error)
	fetchSummary func(context.Context, string) (backend.SummaryResponse, error)

	textCalls  []string
	audioCalls []backend.Clip
}

func (g *fakeGateway) StartSession(ctx context.Context, request backend.SessionRequest) (backend.SessionResponse, error) {
	if g.startSession != nil {
		return g.startSession(ctx, request)
	}
	return backend.SessionResponse{SessionID: "session-1"}, nil
}

func (g *fakeGateway) SubmitText(ctx context.Context, sessionID, text string) (backend.TextTurnResponse, error) {
	g.mu.Lock()
	g.textCalls = append(g.textCalls, text)
	g.mu.Unlock()

	if g.submitText != nil {
		return g.submitText(ctx, sessionID, text)
	}
	return backend.TextTurnResponse{
		AssistantResponse: "[TARGET] Hola",
		History: []backend.HistoryEntry{
			{Role: "system", Content: "init"},
			{Role: "assistant", Content: "[TARGET] Hola"},
		},
	}, nil
}

func (g *fakeGateway) SubmitAudio(ctx context.Context, sessionID string, clip backend.Clip) (backend.AudioTurnResponse, error) {
	g.mu.Lock()
	g.audioCalls = append(g.audioCalls, clip)
	g.mu.Unlock()

	if g.submitAudio != nil {
		return g.submitAudio(ctx, sessionID, clip)
	}
	return backend.AudioTurnResponse{UserText: "hello", AssistantResponse: "[TARGET] hola"}, nil
}

func (g *fakeGateway) FetchSummary(ctx context.Context, sessionID string) (backend.SummaryResponse, error) {
	if g.fetchSummary != nil {
		return g.fetchSummary(ctx, sessionID)
	}
	return backend.SummaryResponse{Summary: "summary"}, nil
}

func (g *fakeGateway) TextCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.textCalls...)
}

func (g *fakeGateway) AudioCalls() []backend.Clip {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]backend.Clip(nil), g.audioCalls...)
}

type historyGateway struct {
	*fakeGateway
	history []backend.HistoryEntry
	err     error
}

func (g *historyGateway) FetchHistory(context.Context, string) ([]backend.HistoryEntry, error) {
	return g.history, g.err
}

type fakeAudioInput struct {
	mu sync.Mutex

	onAudio  func([]byte)
	startErr error
	starts   int
	stops    int
}

func (f *fakeAudioInput) StartCapture(_ context.Context, onAudio func([]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.onAudio = onAudio
	return nil
}

func (f *fakeAudioInput) StopCapture() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.onAudio = nil
	return nil
}

func (f *fakeAudioInput) feed(chunk []byte) {
	f.mu.Lock()
	onAudio := f.onAudio
	f.mu.Unlock()
	if onAudio != nil {
		onAudio(chunk)
	}
}

func (f *fakeAudioInput) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops
}

func gatewayFailure(op string) error {
	return &backend.Error{Op: op, StatusCode: 500, Detail: "boom"}
}

func startedOrchestrator(t testing.TB, gateway Gateway, opts ...OrchestratorOption) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(append([]OrchestratorOption{WithGateway(gateway)}, opts...)...)
	if err := o.StartSession(context.Background(), SessionRequest{
		Objective:      "order a coffee",
		TargetLanguage: "es",
		UserLanguage:   "en",
		Country:        "ES",
	}); err != nil {
		t.Fatalf("expected session to start, got %v", err)
	}
	o.DrainEffects()
	return o
}

func effectsOf[T events.Event](effects []events.Event) []T {
	var matched []T
	for _, effect := range effects {
		if typed, ok := effect.(T); ok {
			matched = append(matched, typed)
		}
	}
	return matched
}

func effectKinds(effects []events.Event) []events.Kind {
	kinds := make([]events.Kind, 0, len(effects))
	for _, effect := range effects {
		kinds = append(kinds, effect.Kind())
	}
	return kinds
}
