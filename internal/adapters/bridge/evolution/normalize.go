package evolution

import (
	"errors"
	"strings"

	"github.com/walink/whatsapp-link-cli/internal/domain"
)

// responseEnvelope is the union of every response shape the bridge has been
// seen to produce across versions: flat fields, an `instance` wrapper, an
// `evolutionStatus` wrapper, and qr payloads either nested or inlined. All
// fields are optional; normalization reduces whatever is present to the
// canonical domain shapes.
type responseEnvelope struct {
	State  string `json:"state"`
	Status string `json:"status"`

	Instance *instanceEnvelope `json:"instance"`

	EvolutionStatus *struct {
		State  string          `json:"state"`
		Status string          `json:"status"`
		Qrcode *qrcodeEnvelope `json:"qrcode"`
	} `json:"evolutionStatus"`

	Qrcode *qrcodeEnvelope `json:"qrcode"`

	Base64      string `json:"base64"`
	Code        string `json:"code"`
	PairingCode string `json:"pairingCode"`

	Owner       string `json:"owner"`
	ProfileName string `json:"profileName"`
}

type instanceEnvelope struct {
	InstanceName string `json:"instanceName"`
	State        string `json:"state"`
	Status       string `json:"status"`
	Owner        string `json:"owner"`
	ProfileName  string `json:"profileName"`
}

type qrcodeEnvelope struct {
	Base64      string `json:"base64"`
	Code        string `json:"code"`
	PairingCode string `json:"pairingCode"`
}

// normalizeStatus reduces a status response to the canonical
// {state, identity?} shape. An explicit connection state always wins over any
// artifact fields riding along in the same payload; when no state is present
// at all the result carries an empty state, which the state machine treats as
// a no-op.
func normalizeStatus(envelope responseEnvelope) domain.BridgeStatus {
	return domain.BridgeStatus{
		State:    canonicalState(envelope.state()),
		Identity: envelope.identity(),
	}
}

// normalizeArtifact reduces an artifact response. A linked connection state
// outranks a present qr payload: "is the device linked" beats "is a code
// available" when a legacy bridge reports both.
func normalizeArtifact(envelope responseEnvelope) (domain.ArtifactResult, error) {
	if state := canonicalState(envelope.state()); state == domain.BridgeStateOpen {
		return domain.ArtifactResult{
			AlreadyLinked: true,
			Identity:      envelope.identity(),
		}, nil
	}

	if artifact := envelope.artifact(); artifact != nil {
		return domain.ArtifactResult{Artifact: artifact}, nil
	}

	return domain.ArtifactResult{}, errors.New("artifact response carries no pairing payload")
}

func (e responseEnvelope) state() string {
	for _, state := range []string{e.State, e.Status} {
		if state != "" {
			return state
		}
	}
	if e.Instance != nil {
		for _, state := range []string{e.Instance.State, e.Instance.Status} {
			if state != "" {
				return state
			}
		}
	}
	if e.EvolutionStatus != nil {
		for _, state := range []string{e.EvolutionStatus.State, e.EvolutionStatus.Status} {
			if state != "" {
				return state
			}
		}
	}
	return ""
}

func (e responseEnvelope) identity() *domain.LinkedIdentity {
	owner := e.Owner
	profileName := e.ProfileName
	if e.Instance != nil {
		if owner == "" {
			owner = e.Instance.Owner
		}
		if profileName == "" {
			profileName = e.Instance.ProfileName
		}
	}

	if owner == "" && profileName == "" {
		return nil
	}

	return &domain.LinkedIdentity{
		AccountNumber: accountNumber(owner),
		DisplayName:   profileName,
	}
}

func (e responseEnvelope) artifact() *domain.Artifact {
	qr := qrcodeEnvelope{
		Base64:      e.Base64,
		Code:        e.Code,
		PairingCode: e.PairingCode,
	}
	for _, nested := range []*qrcodeEnvelope{e.Qrcode, nestedQrcode(e)} {
		if nested == nil {
			continue
		}
		if qr.Base64 == "" {
			qr.Base64 = nested.Base64
		}
		if qr.Code == "" {
			qr.Code = nested.Code
		}
		if qr.PairingCode == "" {
			qr.PairingCode = nested.PairingCode
		}
	}

	switch {
	case qr.Base64 != "":
		return &domain.Artifact{
			Type:        domain.ArtifactTypeImage,
			Payload:     qr.Base64,
			PairingCode: firstNonEmpty(qr.PairingCode, qr.Code),
		}
	case qr.PairingCode != "" || qr.Code != "":
		code := firstNonEmpty(qr.PairingCode, qr.Code)
		return &domain.Artifact{
			Type:        domain.ArtifactTypeCode,
			Payload:     code,
			PairingCode: code,
		}
	default:
		return nil
	}
}

func nestedQrcode(e responseEnvelope) *qrcodeEnvelope {
	if e.EvolutionStatus == nil {
		return nil
	}
	return e.EvolutionStatus.Qrcode
}

// canonicalState folds the drifting bridge vocabulary onto the canonical
// values; anything unrecognized passes through lowercased so the state
// machine can no-op it.
func canonicalState(state string) string {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case domain.BridgeStateOpen, domain.BridgeStateConnected:
		return domain.BridgeStateOpen
	case domain.BridgeStateClose, domain.BridgeStateDisconnected, "closed":
		return domain.BridgeStateClose
	case domain.BridgeStateConnecting:
		return domain.BridgeStateConnecting
	default:
		return strings.ToLower(strings.TrimSpace(state))
	}
}

// accountNumber strips the server suffix from a bridge owner id such as
// "5215551234567@s.whatsapp.net".
func accountNumber(owner string) string {
	if at := strings.IndexByte(owner, '@'); at >= 0 {
		return owner[:at]
	}
	return owner
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
