package domain

// Canonical bridge connection states. The bridge vocabulary drifts across
// deployments; adapters normalize to these where possible and pass unknown
// states through untouched (Transition treats them as no-ops).
const (
	BridgeStateOpen         = "open"
	BridgeStateConnected    = "connected"
	BridgeStateConnecting   = "connecting"
	BridgeStateClose        = "close"
	BridgeStateDisconnected = "disconnected"
)

// BridgeStatus is the single canonical shape a status poll reduces to before
// it reaches the state machine.
type BridgeStatus struct {
	State    string
	Identity *LinkedIdentity
}

// ArtifactResult is the outcome of an artifact fetch: either a fresh pairing
// artifact or the news that the instance is already linked.
type ArtifactResult struct {
	AlreadyLinked bool
	Identity      *LinkedIdentity
	Artifact      *Artifact
}

func linkedState(state string) bool {
	return state == BridgeStateOpen || state == BridgeStateConnected
}

func closedState(state string) bool {
	return state == BridgeStateClose || state == BridgeStateDisconnected
}
