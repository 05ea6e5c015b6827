package ports

import (
	"context"
	"time"

	"github.com/walink/whatsapp-link-cli/internal/domain"
)

type StatusUpdate struct {
	InstanceID domain.InstanceID
	Phase      domain.Phase
	Artifact   *domain.Artifact
	Identity   *domain.LinkedIdentity
	Err        *domain.SessionError
	At         time.Time
}

// StatusSink receives one update per phase change. Implementations persist or
// display the record; they are best-effort observers, never the source of
// truth for pairing progress.
type StatusSink interface {
	RecordPhase(ctx context.Context, update StatusUpdate) error
	Clear(ctx context.Context, id domain.InstanceID) error
}
