package sequencer

// State is the sequencer's position in the capture cycle. Sessions start in
// Idle and end in exactly one of the terminal states.
type State string

const (
	StateIdle         State = "idle"
	StatePreparing    State = "preparing"
	StatePresenting   State = "presenting"
	StateCountingDown State = "counting_down"
	StateCapturing    State = "capturing"
	StatePersisting   State = "persisting"
	StateAdvancing    State = "advancing"
	StateCompleted    State = "completed"
	StateCancelled    State = "cancelled"
	StateFailed       State = "failed"
)

// Terminal reports whether the state ends a session.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCancelled, StateFailed:
		return true
	}
	return false
}
