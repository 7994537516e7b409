package analysis

import "fmt"

// State is a step of one analysis action.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateRejected       State = "rejected"
	StateSending        State = "sending"
	StateTransportError State = "transport_error"
	StateServerError    State = "server_error"
	StateFormatError    State = "format_error"
	StateNormalizing    State = "normalizing"
	StateRendered       State = "rendered"
)

var transitions = map[State][]State{
	StateIdle:        {StateValidating},
	StateValidating:  {StateRejected, StateSending},
	StateSending:     {StateTransportError, StateServerError, StateFormatError, StateNormalizing},
	StateNormalizing: {StateRendered},
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransition reports whether to is a legal successor of from.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func newOutcome(requestID string) *Outcome {
	return &Outcome{
		RequestID: requestID,
		State:     StateIdle,
		Trail:     []State{StateIdle},
	}
}

// advance moves the outcome to the next state. An illegal move is a bug in
// the pipeline, not a runtime condition.
func (o *Outcome) advance(to State) {
	if !CanTransition(o.State, to) {
		panic(fmt.Sprintf("analysis: illegal transition %s -> %s", o.State, to))
	}
	o.State = to
	o.Trail = append(o.Trail, to)
}
