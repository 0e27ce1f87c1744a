package events

// KindTurnStateChanged identifies an orchestrator state transition.
const KindTurnStateChanged Kind = "turn_state.changed"

// TurnStateChanged carries the new orchestrator state. TurnID is set while a
// turn is in flight.
type TurnStateChanged struct {
	Base
	State  string
	TurnID string
}

// NewTurnStateChanged creates a turn state change event.
func NewTurnStateChanged(state, turnID string) TurnStateChanged {
	return TurnStateChanged{Base: NewBase(KindTurnStateChanged), State: state, TurnID: turnID}
}
