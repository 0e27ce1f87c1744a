package miniaudio

import (
	"errors"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-translate/core/audio"
)

var (
	ErrDeviceNotInitialized = errors.New("device not initialized")
	ErrDeviceNotStarted     = errors.New("device not started")
)

// deviceConfig builds a signed 16 bit device config for info. It also
// returns the size of one frame in bytes.
func deviceConfig(deviceType malgo.DeviceType, info audio.EncodingInfo) (malgo.DeviceConfig, int) {
	channels := uint32(info.ChannelCount())

	config := malgo.DefaultDeviceConfig(deviceType)
	config.SampleRate = uint32(info.SampleRate)
	config.Alsa.NoMMap = 1
	switch deviceType {
	case malgo.Capture:
		config.Capture.Format = malgo.FormatS16
		config.Capture.Channels = channels
	case malgo.Playback:
		config.Playback.Format = malgo.FormatS16
		config.Playback.Channels = channels
	}

	return config, info.BytesPerFrame()
}
