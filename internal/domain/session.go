package domain

import "time"

// InstanceID identifies one messaging instance on the bridge. It stays stable
// for the lifetime of a linked account.
type InstanceID string

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInitiating   Phase = "initiating"
	PhaseAwaitingScan Phase = "awaiting_scan"
	PhaseConnecting   Phase = "connecting"
	PhaseLinked       Phase = "linked"
	PhaseExpired      Phase = "expired"
	PhaseFailed       Phase = "failed"
)

// Terminal reports whether the phase is irreversible for this attempt.
func (p Phase) Terminal() bool {
	return p == PhaseLinked || p == PhaseFailed
}

// Active reports whether the attempt is still in flight and worth polling.
// Expired is neither active nor terminal: it sits still until an explicit
// refresh starts a new attempt.
func (p Phase) Active() bool {
	return p == PhaseInitiating || p == PhaseAwaitingScan || p == PhaseConnecting
}

type ArtifactType string

const (
	ArtifactTypeImage ArtifactType = "image"
	ArtifactTypeCode  ArtifactType = "code"
)

// Artifact is the scannable pairing payload handed to the user. Payload holds
// the image bytes (base64) for image artifacts or the pairing code itself for
// code artifacts.
type Artifact struct {
	Type        ArtifactType
	Payload     string
	PairingCode string
}

type LinkedIdentity struct {
	AccountNumber string
	DisplayName   string
}

type ErrorKind string

const (
	ErrorKindBridgeUnavailable ErrorKind = "bridge_unavailable"
)

type SessionError struct {
	Kind    ErrorKind
	Message string
}

// Session is the authoritative record of one pairing attempt.
//
// Invariants maintained by Transition:
//   - Artifact is non-nil iff Phase == PhaseAwaitingScan.
//   - Identity is non-nil iff Phase == PhaseLinked.
//   - Once a terminal phase is reached no event changes the session.
type Session struct {
	InstanceID InstanceID
	Phase      Phase
	Artifact   *Artifact
	Identity   *LinkedIdentity
	LastError  *SessionError

	AttemptStartedAt time.Time
	LastPolledAt     time.Time

	// PollHandle names the poller that owns this attempt. Results carrying a
	// stale handle are discarded, never applied.
	PollHandle string
}
