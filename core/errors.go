package orchestration

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession         = errors.New("no active session")
	ErrTurnInFlight      = errors.New("a turn is already in flight")
	ErrSessionActive     = errors.New("session already started")
	ErrSessionReset      = errors.New("session was reset before the response arrived")
	ErrEmptyObjective    = errors.New("objective cannot be empty")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrEmptyReply        = errors.New("received an empty response from the assistant")
	ErrGatewayMissing    = errors.New("no backend gateway configured")
	ErrResyncUnsupported = errors.New("gateway does not support fetching history")

	ErrNoAudioInput = errors.New("no audio input configured")
	ErrRecorderBusy = errors.New("recorder is not idle")
	ErrNotCapturing = errors.New("recorder is not capturing")
)

// DeviceAccessError reports that recording could not start, either because
// the microphone was unavailable or because there was no session to record
// for.
type DeviceAccessError struct {
	Op  string
	Err error
}

func (e *DeviceAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DeviceAccessError) Unwrap() error {
	return e.Err
}
