package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-translate/core/audio"
)

// playbackDevice plays queued PCM. Callers can block until everything queued
// before them has been handed to the device.
type playbackDevice struct {
	mu      sync.Mutex
	device  *malgo.Device
	silence byte
	pending []byte
	waiters []*drainWaiter
}

// drainWaiter is released once remaining bytes have been played.
type drainWaiter struct {
	remaining int
	done      chan struct{}
}

func (p *playbackDevice) Init(audioContext *malgo.AllocatedContext, info audio.EncodingInfo) error {
	config, bytesPerFrame := deviceConfig(malgo.Playback, info)
	config.PeriodSizeInFrames = uint32(info.SampleRate / 10) // ~100ms
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{Data: p.fill(bytesPerFrame)})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	p.mu.Lock()
	p.device = device
	p.silence = info.SilenceValue()
	p.mu.Unlock()
	return nil
}

func (p *playbackDevice) Start() error {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	if device == nil {
		return ErrDeviceNotInitialized
	}
	if device.IsStarted() {
		return nil
	}

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (p *playbackDevice) Stop() error {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	if device == nil {
		return ErrDeviceNotInitialized
	}

	// device.Stop waits for fill to return, which takes p.mu
	if err := device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}
	p.ClearBuffer()
	return nil
}

func (p *playbackDevice) SendAudio(pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return ErrDeviceNotInitialized
	} else if !p.device.IsStarted() {
		return ErrDeviceNotStarted
	}

	p.pending = append(p.pending, pcm...)
	return nil
}

// ClearBuffer drops queued audio and releases every waiter.
func (p *playbackDevice) ClearBuffer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = nil
	p.releaseLocked()
}

// AwaitMark blocks until everything queued so far has been played.
func (p *playbackDevice) AwaitMark() error {
	p.mu.Lock()
	if p.device == nil {
		p.mu.Unlock()
		return ErrDeviceNotInitialized
	}
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return nil
	}
	waiter := &drainWaiter{remaining: len(p.pending), done: make(chan struct{})}
	p.waiters = append(p.waiters, waiter)
	p.mu.Unlock()

	<-waiter.done
	return nil
}

func (p *playbackDevice) Uninit() error {
	p.mu.Lock()
	device := p.device
	p.device = nil
	p.pending = nil
	p.releaseLocked()
	p.mu.Unlock()

	if device != nil {
		device.Uninit()
	}
	return nil
}

func (p *playbackDevice) fill(bytesPerFrame int) malgo.DataProc {
	return func(output, _ []byte, frameCount uint32) {
		need := min(int(frameCount)*bytesPerFrame, len(output))

		p.mu.Lock()
		defer p.mu.Unlock()

		n := copy(output[:need], p.pending)
		for i := n; i < need; i++ {
			output[i] = p.silence
		}
		p.pending = p.pending[n:]
		if len(p.pending) == 0 {
			p.pending = nil
		}
		p.consumeLocked(n)
	}
}

func (p *playbackDevice) consumeLocked(played int) {
	if played == 0 {
		return
	}
	kept := p.waiters[:0]
	for _, waiter := range p.waiters {
		waiter.remaining -= played
		if waiter.remaining <= 0 {
			close(waiter.done)
			continue
		}
		kept = append(kept, waiter)
	}
	p.waiters = kept
}

func (p *playbackDevice) releaseLocked() {
	for _, waiter := range p.waiters {
		close(waiter.done)
	}
	p.waiters = nil
}
