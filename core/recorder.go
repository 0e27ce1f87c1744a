package orchestration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/koscakluka/ema-translate/core/audio"
	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/events"
	"github.com/sourcegraph/conc/panics"
)

const (
	microphoneDeniedNotice = "Microphone access denied. Please allow microphone access to record audio."
	captureStopNotice      = "Failed to stop the microphone cleanly."
	recordingRefusedNotice = "Recording discarded because another turn is in progress."
)

// recorder owns the microphone. It moves Idle -> Capturing -> Processing ->
// Idle and submits exactly one clip per stop.
type recorder struct {
	mu sync.Mutex

	input    AudioInput
	encoding audio.EncodingInfo

	state    RecordingState
	starting bool
	chunks   [][]byte
	// generation changes on reset so stale callbacks and submissions leave
	// the current state alone.
	generation uint64
	// seq numbers state changes. Listeners drop a change older than the
	// last one they saw, since notifications are delivered unlocked.
	seq uint64

	emit eventEmitter
	// canStart returns ErrNoSession or ErrTurnInFlight when the orchestrator
	// cannot take a recorded turn.
	canStart      func() error
	submit        func(context.Context, backend.Clip) error
	onStateChange func(RecordingState, uint64)
}

func newRecorder(
	emit eventEmitter,
	canStart func() error,
	submit func(context.Context, backend.Clip) error,
	onStateChange func(RecordingState, uint64),
) *recorder {
	if emit == nil {
		emit = func(...events.Event) {}
	}
	if canStart == nil {
		canStart = func() error { return ErrNoSession }
	}
	if onStateChange == nil {
		onStateChange = func(RecordingState, uint64) {}
	}

	return &recorder{
		encoding:      audio.GetDefaultEncodingInfo(),
		emit:          emit,
		canStart:      canStart,
		submit:        submit,
		onStateChange: onStateChange,
	}
}

func (r *recorder) set(client AudioInput) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.input = client
	r.encoding = audio.GetDefaultEncodingInfo()
	if withEncoding, ok := client.(AudioInputWithEncoding); ok {
		if info := withEncoding.EncodingInfo(); !info.IsZero() {
			r.encoding = info
		}
	}
}

func (r *recorder) State() RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *recorder) setLocked(state RecordingState) uint64 {
	r.state = state
	r.seq++
	return r.seq
}

func (r *recorder) start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "start recording")
	defer span.End()

	if err := r.canStart(); err != nil {
		if errors.Is(err, ErrNoSession) {
			err = &DeviceAccessError{Op: "start recording", Err: err}
			r.emit(events.NewNotification(events.SeverityError, noSessionNotice, err))
		}
		return recordError(span, err)
	}

	r.mu.Lock()
	if r.state != RecordingIdle || r.starting {
		r.mu.Unlock()
		return recordError(span, ErrRecorderBusy)
	}
	input := r.input
	if input == nil {
		r.mu.Unlock()
		err := &DeviceAccessError{Op: "start recording", Err: ErrNoAudioInput}
		r.emit(events.NewNotification(events.SeverityError, microphoneDeniedNotice, err))
		return recordError(span, err)
	}
	r.starting = true
	r.chunks = nil
	generation := r.generation
	r.mu.Unlock()

	err := input.StartCapture(ctx, func(chunk []byte) { r.onAudio(generation, chunk) })

	r.mu.Lock()
	if r.generation != generation {
		r.mu.Unlock()
		if err == nil {
			_ = input.StopCapture()
		}
		return recordError(span, ErrSessionReset)
	}
	r.starting = false
	if err != nil {
		r.chunks = nil
		r.mu.Unlock()
		deviceErr := &DeviceAccessError{Op: "start recording", Err: err}
		logger.Error("failed to start capture", "error", err)
		r.emit(events.NewNotification(events.SeverityError, microphoneDeniedNotice, deviceErr))
		return recordError(span, deviceErr)
	}
	seq := r.setLocked(RecordingCapturing)
	r.mu.Unlock()

	r.onStateChange(RecordingCapturing, seq)
	return nil
}

func (r *recorder) onAudio(generation uint64, chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != generation || (r.state != RecordingCapturing && !r.starting) {
		return
	}

	r.chunks = append(r.chunks, bytes.Clone(chunk))
}

func (r *recorder) stop(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "stop recording")
	defer span.End()

	r.mu.Lock()
	if r.state != RecordingCapturing {
		r.mu.Unlock()
		return recordError(span, ErrNotCapturing)
	}
	seq := r.setLocked(RecordingProcessing)
	chunks := r.chunks
	r.chunks = nil
	input, encoding, generation := r.input, r.encoding, r.generation
	r.mu.Unlock()
	r.onStateChange(RecordingProcessing, seq)

	// devices wait for their data callback to return, so this runs unlocked
	if err := input.StopCapture(); err != nil {
		logger.Warn("failed to stop capture", "error", err)
		r.emit(events.NewNotification(events.SeverityWarning, captureStopNotice,
			&DeviceAccessError{Op: "stop recording", Err: err}))
	}

	submitErr := r.submitChunks(ctx, encoding, chunks)

	r.mu.Lock()
	current := r.generation == generation
	if current {
		seq = r.setLocked(RecordingIdle)
	}
	r.mu.Unlock()
	if current {
		r.onStateChange(RecordingIdle, seq)
	}

	if submitErr != nil {
		return recordError(span, submitErr)
	}
	return nil
}

func (r *recorder) submitChunks(ctx context.Context, encoding audio.EncodingInfo, chunks [][]byte) error {
	wav, err := audio.EncodeWAV(encoding, bytes.Join(chunks, nil))
	if err != nil {
		err = fmt.Errorf("failed to encode recording: %w", err)
		r.emit(events.NewNotification(events.SeverityError, audioFailedNotice, err))
		return err
	}

	var submitErr error
	if recovered := panics.Try(func() {
		submitErr = r.submit(ctx, backend.Clip{Data: wav})
	}); recovered != nil {
		submitErr = fmt.Errorf("audio submission panicked: %w", recovered.AsError())
		logger.Error("audio submission panicked", "error", submitErr)
		r.emit(events.NewNotification(events.SeverityError, audioFailedNotice, submitErr))
	}
	if errors.Is(submitErr, ErrTurnInFlight) {
		logger.Warn("recorded turn refused", "error", submitErr)
		r.emit(events.NewNotification(events.SeverityError, recordingRefusedNotice, submitErr))
	}
	return submitErr
}

// reset stops an active capture, drops its audio and returns to Idle. A
// submission already in flight keeps running but no longer moves the state.
func (r *recorder) reset() error {
	r.mu.Lock()
	r.generation++
	previous := r.state
	capturing := previous == RecordingCapturing
	input := r.input
	seq := r.setLocked(RecordingIdle)
	r.starting = false
	r.chunks = nil
	r.mu.Unlock()

	var err error
	if capturing && input != nil {
		err = input.StopCapture()
	}
	if previous != RecordingIdle {
		r.onStateChange(RecordingIdle, seq)
	}
	return err
}
