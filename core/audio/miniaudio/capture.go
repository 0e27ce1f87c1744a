package miniaudio

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-translate/core/audio"
)

// captureDevice hands every microphone period to the callback registered by
// Start.
type captureDevice struct {
	mu            sync.Mutex
	device        *malgo.Device
	bytesPerFrame int
	onAudio       func(audio []byte)
}

func (c *captureDevice) Init(audioContext *malgo.AllocatedContext, info audio.EncodingInfo) error {
	config, bytesPerFrame := deviceConfig(malgo.Capture, info)
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = 480
	config.Periods = 3

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{Data: c.receive})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.bytesPerFrame = bytesPerFrame
	c.mu.Unlock()
	return nil
}

func (c *captureDevice) receive(_, input []byte, frameCount uint32) {
	c.mu.Lock()
	onAudio := c.onAudio
	size := int(frameCount) * c.bytesPerFrame
	c.mu.Unlock()

	if onAudio == nil || size <= 0 || len(input) < size {
		return
	}
	// malgo reuses input for the next period
	onAudio(bytes.Clone(input[:size]))
}

// Start begins delivering audio to onAudio. Starting a running device only
// swaps the callback.
func (c *captureDevice) Start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return ErrDeviceNotInitialized
	}

	c.onAudio = onAudio
	if c.device.IsStarted() {
		return nil
	}
	if err := c.device.Start(); err != nil {
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

func (c *captureDevice) Stop() error {
	c.mu.Lock()
	device := c.device
	c.mu.Unlock()
	if device == nil {
		return ErrDeviceNotInitialized
	}

	// device.Stop waits for receive to return, which takes c.mu
	if device.IsStarted() {
		if err := device.Stop(); err != nil {
			return fmt.Errorf("failed to stop capture device: %w", err)
		}
	}

	c.mu.Lock()
	c.onAudio = nil
	c.mu.Unlock()
	return nil
}

func (c *captureDevice) Uninit() error {
	c.mu.Lock()
	device := c.device
	c.device = nil
	c.onAudio = nil
	c.mu.Unlock()

	if device != nil {
		device.Uninit()
	}
	return nil
}
