package application

import (
	"context"
	"time"

	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
)

// poller owns the recurring status check for one pairing attempt. It feeds
// every result through the controller's apply hook, which enforces the
// ownership handle, and stops itself as soon as the attempt settles, the
// context is cancelled, or its results stop being accepted.
type poller struct {
	bridge       ports.Bridge
	clock        ports.Clock
	instance     domain.InstanceID
	startedAt    time.Time
	interval     time.Duration
	timeout      time.Duration
	failureLimit int
	apply        func(ctx context.Context, ev domain.Event) (domain.Session, bool)
}

func (p *poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// The watchdog only expires AwaitingScan, where an unscanned
		// artifact goes stale; the transition ignores it elsewhere.
		// Initiating and Connecting keep polling until the bridge reports
		// an authoritative state or the attempt is cancelled.
		if p.timeout > 0 && p.clock.Now().Sub(p.startedAt) > p.timeout {
			session, ok := p.apply(ctx, domain.PollTimedOut{})
			if !ok || !session.Phase.Active() {
				return
			}
		}

		status, err := p.bridge.FetchStatus(ctx, p.instance)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			if failures >= p.failureLimit {
				p.apply(ctx, domain.BridgeFailed{Message: err.Error()})
				return
			}
			continue
		}
		failures = 0

		session, ok := p.apply(ctx, domain.StatusReported{Status: status})
		if !ok || !session.Phase.Active() {
			return
		}
	}
}
