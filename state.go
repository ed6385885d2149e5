package arraybench

import "fmt"

// State is a runner state.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateWriting
	StateWritten
	StateReading
	StateValidated
	StateFailed
	StateReporting
)

var stateNames = [...]string{
	StateIdle:      "idle",
	StatePreparing: "preparing",
	StateWriting:   "writing",
	StateWritten:   "written",
	StateReading:   "reading",
	StateValidated: "validated",
	StateFailed:    "failed",
	StateReporting: "reporting",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Transition is a state change. Codec is empty outside the per-codec states.
type Transition struct {
	Codec    string
	From, To State
}

// StateObserver is called synchronously on every transition.
type StateObserver func(Transition)
