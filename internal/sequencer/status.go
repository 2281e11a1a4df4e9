package sequencer

// Status is emitted to the listener after every state transition.
type Status struct {
	State       State
	PointIndex  int
	TotalPoints int
	// Remaining is the countdown value while counting down, zero otherwise.
	Remaining int
	Message   string
}

// Listener receives status updates. Called synchronously from the session
// goroutine; listeners must not block.
type Listener func(Status)

// Result summarizes a finished session. No error escapes the runner; failed
// points are reported here and through the status stream.
type Result struct {
	State        State
	SuccessCount int
	TotalCount   int
	Failures     []string
}
