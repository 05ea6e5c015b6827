package domain

import "time"

// Event is one input to the pairing state machine. Events come from artifact
// fetches, status polls, transport failures, the poll-timeout watchdog, and
// explicit refresh requests.
type Event interface {
	event()
}

type ArtifactFetched struct {
	Artifact Artifact
}

type AlreadyLinked struct {
	Identity LinkedIdentity
}

type StatusReported struct {
	Status BridgeStatus
}

type BridgeFailed struct {
	Message string
}

type PollTimedOut struct{}

type RefreshRequested struct{}

func (ArtifactFetched) event()  {}
func (AlreadyLinked) event()    {}
func (StatusReported) event()   {}
func (BridgeFailed) event()     {}
func (PollTimedOut) event()     {}
func (RefreshRequested) event() {}

// Transition applies one event to a session and returns the updated session
// plus whether the phase changed. It is total: every (phase, event) pair has a
// defined outcome, and anything unrecognized leaves the phase untouched.
// Terminal phases ignore all events.
func Transition(s Session, ev Event, now time.Time) (Session, bool) {
	// Refresh is the one event that can leave Failed: it starts a fresh
	// attempt. Everything else bounces off terminal phases.
	if _, ok := ev.(RefreshRequested); ok {
		switch s.Phase {
		case PhaseAwaitingScan, PhaseExpired, PhaseFailed:
			return s.into(PhaseInitiating, func(next *Session) {
				next.AttemptStartedAt = now
			}), true
		default:
			return s, false
		}
	}

	if s.Phase.Terminal() {
		return s, false
	}

	switch ev := ev.(type) {
	case ArtifactFetched:
		if s.Phase != PhaseInitiating {
			return s, false
		}
		artifact := ev.Artifact
		return s.into(PhaseAwaitingScan, func(next *Session) {
			next.Artifact = &artifact
		}), true

	case AlreadyLinked:
		identity := ev.Identity
		return s.into(PhaseLinked, func(next *Session) {
			next.Identity = &identity
		}), true

	case BridgeFailed:
		message := ev.Message
		return s.into(PhaseFailed, func(next *Session) {
			next.LastError = &SessionError{Kind: ErrorKindBridgeUnavailable, Message: message}
		}), true

	case PollTimedOut:
		if s.Phase != PhaseAwaitingScan {
			return s, false
		}
		return s.into(PhaseExpired, nil), true

	case StatusReported:
		s.LastPolledAt = now
		return s.applyStatus(ev.Status)
	}

	return s, false
}

func (s Session) applyStatus(status BridgeStatus) (Session, bool) {
	switch {
	case linkedState(status.State):
		identity := LinkedIdentity{}
		if status.Identity != nil {
			identity = *status.Identity
		}
		return s.into(PhaseLinked, func(next *Session) {
			next.Identity = &identity
		}), true

	case closedState(status.State):
		if s.Phase != PhaseAwaitingScan && s.Phase != PhaseConnecting {
			return s, false
		}
		return s.into(PhaseExpired, nil), true

	case status.State == BridgeStateConnecting:
		if s.Phase == PhaseConnecting {
			return s, false
		}
		return s.into(PhaseConnecting, nil), true

	default:
		// Unknown bridge state: tolerate schema drift, stay put.
		return s, false
	}
}

// into produces the next session with the invariant-bearing fields reset, then
// lets the mutator reinstate whatever the target phase carries.
func (s Session) into(phase Phase, mutate func(*Session)) Session {
	next := s
	next.Phase = phase
	next.Artifact = nil
	next.Identity = nil
	next.LastError = nil
	if mutate != nil {
		mutate(&next)
	}
	return next
}
