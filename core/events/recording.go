package events

// KindRecordingStateChanged identifies a capture lifecycle transition.
const KindRecordingStateChanged Kind = "recording.state_changed"

// RecordingStateChanged carries the new capture lifecycle state.
type RecordingStateChanged struct {
	Base
	State string
}

// NewRecordingStateChanged creates a recording state change event.
func NewRecordingStateChanged(state string) RecordingStateChanged {
	return RecordingStateChanged{Base: NewBase(KindRecordingStateChanged), State: state}
}
