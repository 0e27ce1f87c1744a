package speaker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/koscakluka/ema-translate/core/audio"
	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/events"
)

type fakeSynthesizer struct {
	speech backend.Speech
	err    error

	calls    int
	lastText string
	lastLang string
}

func (f *fakeSynthesizer) SynthesizeText(_ context.Context, text, language string) (backend.Speech, error) {
	f.calls++
	f.lastText, f.lastLang = text, language
	return f.speech, f.err
}

type fakePlayer struct {
	info  audio.EncodingInfo
	sent  []byte
	marks int
}

func (f *fakePlayer) SendAudio(audio []byte) error {
	f.sent = append(f.sent, audio...)
	return nil
}

func (f *fakePlayer) AwaitMark() error {
	f.marks++
	return nil
}

func (f *fakePlayer) EncodingInfo() audio.EncodingInfo { return f.info }

func wavOf(t *testing.T, info audio.EncodingInfo, pcm []byte) []byte {
	t.Helper()
	wav, err := audio.EncodeWAV(info, pcm)
	if err != nil {
		t.Fatalf("failed to encode wav: %v", err)
	}
	return wav
}

func TestSpeakPlaysMatchingWav(t *testing.T) {
	info := audio.GetDefaultEncodingInfo()
	synthesizer := &fakeSynthesizer{speech: backend.Speech{Audio: wavOf(t, info, []byte{1, 2, 3, 4}), ContentType: "audio/wav"}}
	player := &fakePlayer{info: info}

	result, err := New(synthesizer, player).Speak(context.Background(), events.NewSpeechRequested("hola", "es-ES"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.Played {
		t.Fatalf("expected audio to be played")
	}
	if !bytes.Equal(player.sent, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected pcm to be sent, got %v", player.sent)
	}
	if player.marks != 1 {
		t.Fatalf("expected speaker to wait for playback, got %d waits", player.marks)
	}
	if synthesizer.lastText != "hola" || synthesizer.lastLang != "es-ES" {
		t.Fatalf("expected request to be forwarded, got %q/%q", synthesizer.lastText, synthesizer.lastLang)
	}
}

func TestSpeakReportsAudioURL(t *testing.T) {
	synthesizer := &fakeSynthesizer{speech: backend.Speech{AudioURL: "http://example.com/audio.mp3"}}
	player := &fakePlayer{info: audio.GetDefaultEncodingInfo()}

	result, err := New(synthesizer, player).Speak(context.Background(), events.NewSpeechRequested("hola", ""))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Played || result.AudioURL != "http://example.com/audio.mp3" {
		t.Fatalf("expected audio url only, got %+v", result)
	}
	if len(player.sent) != 0 {
		t.Fatalf("expected nothing to be played")
	}
}

func TestSpeakRejectsMismatchedAudio(t *testing.T) {
	synthesizer := &fakeSynthesizer{speech: backend.Speech{
		Audio: wavOf(t, audio.EncodingInfo{SampleRate: 44100, Format: audio.EncodingLinear16}, []byte{1, 2}),
	}}
	player := &fakePlayer{info: audio.GetDefaultEncodingInfo()}

	_, err := New(synthesizer, player).Speak(context.Background(), events.NewSpeechRequested("hola", ""))
	if !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("expected ErrFormatMismatch, got %v", err)
	}
}

func TestSpeakRejectsNonWavAudio(t *testing.T) {
	synthesizer := &fakeSynthesizer{speech: backend.Speech{Audio: []byte("ID3 mp3 data"), ContentType: "audio/mpeg"}}
	player := &fakePlayer{info: audio.GetDefaultEncodingInfo()}

	_, err := New(synthesizer, player).Speak(context.Background(), events.NewSpeechRequested("hola", ""))
	if !errors.Is(err, ErrUnsupportedAudio) {
		t.Fatalf("expected ErrUnsupportedAudio, got %v", err)
	}
}

func TestSpeakSkipsBlankText(t *testing.T) {
	synthesizer := &fakeSynthesizer{}

	if _, err := New(synthesizer, nil).Speak(context.Background(), events.NewSpeechRequested("  ", "")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if synthesizer.calls != 0 {
		t.Fatalf("expected backend not to be called")
	}
}

func TestSpeakWrapsSynthesisErrors(t *testing.T) {
	cause := &backend.Error{Op: "synthesize text", StatusCode: 500}
	synthesizer := &fakeSynthesizer{err: cause}

	_, err := New(synthesizer, &fakePlayer{}).Speak(context.Background(), events.NewSpeechRequested("hola", ""))
	var gatewayErr *backend.Error
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}
