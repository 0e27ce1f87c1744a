package miniaudio

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-translate/core/audio"
)

// Client owns one miniaudio context with an optional capture device and an
// optional playback device sharing the same encoding.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackDevice
	captureDevice

	sampleRate      int
	captureEnabled  bool
	playbackEnabled bool
}

type ClientOption func(*Client)

// WithSampleRate sets the sample rate used by both devices.
func WithSampleRate(sampleRate int) ClientOption {
	return func(c *Client) {
		if sampleRate > 0 {
			c.sampleRate = sampleRate
		}
	}
}

// WithoutPlayback skips initializing the playback device.
func WithoutPlayback() ClientOption {
	return func(c *Client) { c.playbackEnabled = false }
}

// WithoutCapture skips initializing the capture device.
func WithoutCapture() ClientOption {
	return func(c *Client) { c.captureEnabled = false }
}

func NewClient(opts ...ClientOption) (*Client, error) {
	client := Client{
		sampleRate:      audio.DefaultSampleRate,
		captureEnabled:  true,
		playbackEnabled: true,
	}
	for _, opt := range opts {
		opt(&client)
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	client.audioContext = audioCtx

	if client.playbackEnabled {
		if err := client.playbackDevice.Init(audioCtx, client.EncodingInfo()); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to initialize playback client: %w", err)
		}
	}

	if client.captureEnabled {
		if err := client.captureDevice.Init(audioCtx, client.EncodingInfo()); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to initialize capture client: %w", err)
		}
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureDevice.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureDevice.Stop()
}

func (c *Client) StartPlayback(_ context.Context) error {
	return c.playbackDevice.Start()
}

func (c *Client) StopPlayback() error {
	return c.playbackDevice.Stop()
}

func (c *Client) Close() error {
	var errs []error
	if c.captureEnabled {
		errs = append(errs, c.captureDevice.Uninit())
	}
	if c.playbackEnabled {
		errs = append(errs, c.playbackDevice.Uninit())
	}
	if c.audioContext != nil {
		errs = append(errs, c.audioContext.Uninit())
		c.audioContext.Free()
		c.audioContext = nil
	}
	return errors.Join(errs...)
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playbackDevice.SendAudio(audio)
}

func (c *Client) ClearBuffer() {
	c.playbackDevice.ClearBuffer()
}

func (c *Client) AwaitMark() error {
	return c.playbackDevice.AwaitMark()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: c.sampleRate,
		Format:     audio.EncodingLinear16,
		Channels:   1,
	}
}
