package monitor

import "time"

// StateMachine converts raw check outcomes into a debounced availability
// signal. A run of failureThreshold consecutive failures flips the state to
// down; recoveryThreshold consecutive successes flips it back. Single blips
// below the threshold never produce a transition.
//
// The machine is owned by the runner goroutine and is not safe for concurrent
// use.
type StateMachine struct {
	failureThreshold  int
	recoveryThreshold int

	down          bool
	downtimeStart time.Time

	consecutiveFailures  int
	consecutiveSuccesses int

	totalChecks int
	totalFails  int

	now func() time.Time
}

// NewStateMachine returns a machine in the up state with zero counters.
// Thresholds below 1 are clamped to 1 (threshold 1 means immediate alerting).
func NewStateMachine(failureThreshold, recoveryThreshold int) *StateMachine {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if recoveryThreshold < 1 {
		recoveryThreshold = 1
	}
	return &StateMachine{
		failureThreshold:  failureThreshold,
		recoveryThreshold: recoveryThreshold,
		now:               time.Now,
	}
}

// Apply folds one outcome into the state and returns the transition it
// triggered, if any. Each outcome resets the opposite streak counter, so at
// most one of the two is ever nonzero.
func (m *StateMachine) Apply(o Outcome) Transition {
	m.totalChecks++

	if o.Success {
		m.consecutiveFailures = 0
		m.consecutiveSuccesses++

		if m.down && m.consecutiveSuccesses >= m.recoveryThreshold {
			downtime := m.now().Sub(m.downtimeStart)
			m.down = false
			m.downtimeStart = time.Time{}
			m.consecutiveSuccesses = 0
			return Transition{Kind: TransitionRecovered, Downtime: downtime}
		}
		return Transition{Kind: TransitionNone}
	}

	m.totalFails++
	m.consecutiveSuccesses = 0
	m.consecutiveFailures++

	if !m.down && m.consecutiveFailures >= m.failureThreshold {
		// Downtime is measured from the tick that crossed the threshold,
		// not from the first failing check.
		m.down = true
		m.downtimeStart = m.now()
		return Transition{
			Kind:         TransitionDown,
			StatusCode:   o.StatusCode,
			Error:        o.Error,
			ResponseTime: o.ResponseTime,
		}
	}
	return Transition{Kind: TransitionNone}
}

// Down reports the current debounced availability.
func (m *StateMachine) Down() bool { return m.down }

// DowntimeStart is the instant the failure threshold was crossed.
// Zero while the service is up.
func (m *StateMachine) DowntimeStart() time.Time { return m.downtimeStart }

func (m *StateMachine) ConsecutiveFailures() int { return m.consecutiveFailures }
func (m *StateMachine) ConsecutiveSuccesses() int { return m.consecutiveSuccesses }

func (m *StateMachine) FailureThreshold() int { return m.failureThreshold }
func (m *StateMachine) RecoveryThreshold() int { return m.recoveryThreshold }

// TotalChecks and TotalFails are running counters for the status endpoint;
// they have no effect on transitions.
func (m *StateMachine) TotalChecks() int { return m.totalChecks }
func (m *StateMachine) TotalFails() int { return m.totalFails }
