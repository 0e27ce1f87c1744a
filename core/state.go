package orchestration

type TurnState int

const (
	StateUninitialized TurnState = iota
	StateBootstrapping
	StateReady
	StateTurnInFlight
)

func (s TurnState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBootstrapping:
		return "bootstrapping"
	case StateReady:
		return "ready"
	case StateTurnInFlight:
		return "turn_in_flight"
	}
	return "unknown"
}

type RecordingState int

const (
	RecordingIdle RecordingState = iota
	RecordingCapturing
	RecordingProcessing
)

func (s RecordingState) String() string {
	switch s {
	case RecordingIdle:
		return "idle"
	case RecordingCapturing:
		return "capturing"
	case RecordingProcessing:
		return "processing"
	}
	return "unknown"
}
