package monitor

import "time"

// Outcome is the result of a single health check attempt.
type Outcome struct {
	Success      bool
	StatusCode   int           // 0 when no HTTP response was received
	ResponseTime time.Duration // 0 when no HTTP response was received
	Error        string        // "" on success
	Timestamp    time.Time
}

// TransitionKind enumerates the debounced availability changes a check can trigger.
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionDown
	TransitionRecovered
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionDown:
		return "DOWN"
	case TransitionRecovered:
		return "RECOVERED"
	default:
		return "NONE"
	}
}

// Transition is emitted by the state machine when the debounced state flips.
// Down transitions carry the fields of the outcome that crossed the failure
// threshold; Recovered transitions carry the total downtime.
type Transition struct {
	Kind         TransitionKind
	StatusCode   int
	Error        string
	ResponseTime time.Duration
	Downtime     time.Duration
}
