package ports

import (
	"context"

	"github.com/walink/whatsapp-link-cli/internal/domain"
)

// Bridge wraps the external gateway's instance-control endpoints. Every call
// is stateless and independently retryable.
type Bridge interface {
	Initiate(ctx context.Context, id domain.InstanceID) error
	FetchArtifact(ctx context.Context, id domain.InstanceID) (domain.ArtifactResult, error)
	FetchStatus(ctx context.Context, id domain.InstanceID) (domain.BridgeStatus, error)
	Regenerate(ctx context.Context, id domain.InstanceID) error
}
