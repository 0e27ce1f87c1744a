// Package speaker turns speech requests into audio played on a local output
// device.
package speaker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/koscakluka/ema-translate/core/audio"
	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrUnsupportedAudio = errors.New("synthesized audio is not a supported wav stream")
	ErrFormatMismatch   = errors.New("synthesized audio does not match the output device")
)

type Synthesizer interface {
	SynthesizeText(ctx context.Context, text, language string) (backend.Speech, error)
}

type Player interface {
	SendAudio(audio []byte) error
	AwaitMark() error
	EncodingInfo() audio.EncodingInfo
}

// Result describes what happened to one speech request.
type Result struct {
	Played bool
	// AudioURL is set when the backend only returned a link to the audio.
	AudioURL string
}

// Speaker plays speech requests one at a time.
type Speaker struct {
	synthesizer Synthesizer
	player      Player

	mu sync.Mutex
}

// New returns a speaker. A nil player makes every request a no-op that only
// reports what the backend returned.
func New(synthesizer Synthesizer, player Player) *Speaker {
	return &Speaker{synthesizer: synthesizer, player: player}
}

// Speak synthesizes the request and blocks until it finished playing.
func (s *Speaker) Speak(ctx context.Context, request events.SpeechRequested) (Result, error) {
	ctx, span := tracer.Start(ctx, "speak")
	defer span.End()
	span.SetAttributes(
		attribute.String("speech.language", request.Language),
		attribute.Int("speech.text_length", len(request.Text)),
	)

	if strings.TrimSpace(request.Text) == "" || s.synthesizer == nil {
		return Result{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	speech, err := s.synthesizer.SynthesizeText(ctx, request.Text, request.Language)
	if err != nil {
		err = fmt.Errorf("failed to synthesize speech: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	if !speech.HasAudio() {
		logger.Info("backend returned a link instead of audio", "audio_url", speech.AudioURL)
		return Result{AudioURL: speech.AudioURL}, nil
	}

	if s.player == nil {
		return Result{}, nil
	}

	pcm, err := s.decode(speech)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	if err := s.player.SendAudio(pcm); err != nil {
		err = fmt.Errorf("failed to send audio to the output device: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	if err := s.player.AwaitMark(); err != nil {
		return Result{}, fmt.Errorf("failed waiting for playback: %w", err)
	}

	return Result{Played: true}, nil
}

func (s *Speaker) decode(speech backend.Speech) ([]byte, error) {
	info, pcm, err := audio.DecodeWAV(speech.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w (content type %q): %v", ErrUnsupportedAudio, speech.ContentType, err)
	}

	output := s.player.EncodingInfo()
	if info.Format != output.Format ||
		info.SampleRate != output.SampleRate ||
		info.ChannelCount() != output.ChannelCount() {
		return nil, fmt.Errorf("%w: got %s %d Hz x%d, want %s %d Hz x%d", ErrFormatMismatch,
			info.Format.Name(), info.SampleRate, info.ChannelCount(),
			output.Format.Name(), output.SampleRate, output.ChannelCount())
	}
	return pcm, nil
}
