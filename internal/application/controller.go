package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
)

// PhaseChange is the payload delivered to subscribers on every transition.
type PhaseChange struct {
	InstanceID domain.InstanceID
	Phase      domain.Phase
	Artifact   *domain.Artifact
	Identity   *domain.LinkedIdentity
	Err        *domain.SessionError
}

// PhaseListener observes phase changes. Listeners run on the transition path
// and must not block; hand work off to a channel or goroutine.
type PhaseListener func(change PhaseChange)

// Controller orchestrates pairing sessions: one session table entry and at
// most one live poller per instance, all mutation funneled through
// domain.Transition.
type Controller struct {
	bridge ports.Bridge
	sink   ports.StatusSink
	clock  ports.Clock
	cfg    Config

	mu           sync.Mutex
	sessions     map[domain.InstanceID]*sessionEntry
	listeners    map[int]PhaseListener
	nextListener int
}

type sessionEntry struct {
	session domain.Session
	cancel  context.CancelFunc
	evict   *time.Timer
}

func NewController(bridge ports.Bridge, sink ports.StatusSink, clock ports.Clock, cfg Config) *Controller {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Controller{
		bridge:    bridge,
		sink:      sink,
		clock:     clock,
		cfg:       cfg.withDefaults(),
		sessions:  map[domain.InstanceID]*sessionEntry{},
		listeners: map[int]PhaseListener{},
	}
}

// Subscribe registers a listener for all future phase changes and returns the
// func that removes it again.
func (c *Controller) Subscribe(listener PhaseListener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = listener

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Start begins pairing for an instance. If an attempt is already in flight
// the existing session is returned untouched: no second initiate call, no
// second poller. A session parked in Expired or a terminal phase is replaced
// by a fresh attempt.
func (c *Controller) Start(ctx context.Context, id domain.InstanceID) (domain.Session, error) {
	if id == "" {
		return domain.Session{}, errors.New("instance id is required")
	}

	c.mu.Lock()
	if entry, ok := c.sessions[id]; ok {
		if entry.session.Phase.Active() {
			snapshot := entry.session
			c.mu.Unlock()
			return snapshot, nil
		}
		c.dropLocked(id, entry)
	}

	handle := uuid.NewString()
	session := domain.Session{
		InstanceID:       id,
		Phase:            domain.PhaseInitiating,
		AttemptStartedAt: c.clock.Now(),
		PollHandle:       handle,
	}
	c.sessions[id] = &sessionEntry{session: session}
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()

	c.publish(ctx, session, listeners)

	return c.bootstrap(ctx, id, handle, func(ctx context.Context) error {
		return c.initiateWithRetry(ctx, id)
	})
}

// Get returns a non-blocking snapshot of the session for an instance.
func (c *Controller) Get(id domain.InstanceID) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return entry.session, nil
}

// Refresh forces a new artifact for a session stuck in AwaitingScan, Expired
// or Failed. The current poller is superseded; its in-flight results are
// discarded on arrival.
func (c *Controller) Refresh(ctx context.Context, id domain.InstanceID) (domain.Session, error) {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if !ok {
		c.mu.Unlock()
		return domain.Session{}, domain.ErrSessionNotFound
	}

	next, changed := domain.Transition(entry.session, domain.RefreshRequested{}, c.clock.Now())
	if !changed {
		snapshot := entry.session
		c.mu.Unlock()
		return snapshot, fmt.Errorf("refresh while %s: %w", snapshot.Phase, domain.ErrInvalidState)
	}

	if entry.cancel != nil {
		entry.cancel()
		entry.cancel = nil
	}
	if entry.evict != nil {
		entry.evict.Stop()
		entry.evict = nil
	}

	handle := uuid.NewString()
	next.PollHandle = handle
	entry.session = next
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()

	c.publish(ctx, next, listeners)

	return c.bootstrap(ctx, id, handle, func(ctx context.Context) error {
		return c.bridge.Regenerate(ctx, id)
	})
}

// Cancel tears down the session for an instance: poller stopped, entry
// evicted, persisted status cleared. Cancelling a non-existent session is a
// no-op.
func (c *Controller) Cancel(ctx context.Context, id domain.InstanceID) error {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	c.dropLocked(id, entry)
	c.mu.Unlock()

	if c.sink != nil {
		_ = c.sink.Clear(context.WithoutCancel(ctx), id)
	}
	return nil
}

// bootstrap drives a fresh attempt from Initiating to its first settled
// phase: prepare the bridge side, give it a beat to mint the artifact, fetch
// the artifact, then hand off to a poller if the attempt is still live.
func (c *Controller) bootstrap(ctx context.Context, id domain.InstanceID, handle string, prepare func(context.Context) error) (domain.Session, error) {
	if err := prepare(ctx); err != nil {
		session, _ := c.apply(ctx, id, handle, domain.BridgeFailed{Message: err.Error()})
		return session, fmt.Errorf("initiate pairing for %s: %w", id, domain.ErrBridgeUnavailable)
	}

	if err := c.settle(ctx); err != nil {
		session, _ := c.apply(ctx, id, handle, domain.BridgeFailed{Message: err.Error()})
		return session, fmt.Errorf("initiate pairing for %s: %w", id, err)
	}

	result, err := c.bridge.FetchArtifact(ctx, id)
	if err != nil {
		session, _ := c.apply(ctx, id, handle, domain.BridgeFailed{Message: err.Error()})
		return session, fmt.Errorf("fetch pairing artifact for %s: %w", id, domain.ErrBridgeUnavailable)
	}

	var session domain.Session
	switch {
	case result.AlreadyLinked:
		identity := domain.LinkedIdentity{}
		if result.Identity != nil {
			identity = *result.Identity
		}
		session, _ = c.apply(ctx, id, handle, domain.AlreadyLinked{Identity: identity})
	case result.Artifact != nil:
		session, _ = c.apply(ctx, id, handle, domain.ArtifactFetched{Artifact: *result.Artifact})
	default:
		// Bridge answered but offered neither artifact nor link; let the
		// poller find out what it is doing.
		session, _ = c.currentSession(id)
	}

	if session.Phase.Active() {
		c.startPoller(id, handle, session.AttemptStartedAt)
	}
	return session, nil
}

func (c *Controller) initiateWithRetry(ctx context.Context, id domain.InstanceID) error {
	var lastErr error
	for attempt := 0; attempt < c.cfg.InitiateRetries; attempt++ {
		if attempt > 0 && c.cfg.InitiateRetryDelay > 0 {
			if err := sleepCtx(ctx, c.cfg.InitiateRetryDelay); err != nil {
				return err
			}
		}

		if err := c.bridge.Initiate(ctx, id); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Controller) settle(ctx context.Context) error {
	if c.cfg.ConnectSettleDelay <= 0 {
		return nil
	}
	return sleepCtx(ctx, c.cfg.ConnectSettleDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// apply runs one state-machine transition for the attempt identified by
// handle. Results from superseded or cancelled attempts are discarded here:
// the handle no longer matches, so nothing is mutated.
func (c *Controller) apply(ctx context.Context, id domain.InstanceID, handle string, ev domain.Event) (domain.Session, bool) {
	c.mu.Lock()
	entry, ok := c.sessions[id]
	if !ok || entry.session.PollHandle != handle {
		c.mu.Unlock()
		return domain.Session{}, false
	}

	next, changed := domain.Transition(entry.session, ev, c.clock.Now())
	entry.session = next

	if changed && !next.Phase.Active() {
		if entry.cancel != nil {
			entry.cancel()
			entry.cancel = nil
		}
		if next.Phase.Terminal() && c.cfg.EvictionGrace > 0 {
			entry.evict = time.AfterFunc(c.cfg.EvictionGrace, func() {
				c.evictTerminal(id, handle)
			})
		}
	}

	var listeners []PhaseListener
	if changed {
		listeners = c.snapshotListenersLocked()
	}
	c.mu.Unlock()

	if changed {
		c.publish(ctx, next, listeners)
	}
	return next, true
}

func (c *Controller) startPoller(id domain.InstanceID, handle string, startedAt time.Time) {
	pollCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	entry, ok := c.sessions[id]
	if !ok || entry.session.PollHandle != handle || !entry.session.Phase.Active() {
		c.mu.Unlock()
		cancel()
		return
	}
	entry.cancel = cancel
	c.mu.Unlock()

	p := &poller{
		bridge:       c.bridge,
		clock:        c.clock,
		instance:     id,
		startedAt:    startedAt,
		interval:     c.cfg.PollInterval,
		timeout:      c.cfg.PollTimeout,
		failureLimit: c.cfg.FailureThreshold,
		apply: func(ctx context.Context, ev domain.Event) (domain.Session, bool) {
			return c.apply(ctx, id, handle, ev)
		},
	}
	go p.run(pollCtx)
}

// publish delivers one phase change to the sink and the subscribers. The sink
// write is best-effort: its error never reaches the transition path, and the
// context is shielded so a cancelled poller can still record its final phase.
func (c *Controller) publish(ctx context.Context, session domain.Session, listeners []PhaseListener) {
	if c.sink != nil {
		_ = c.sink.RecordPhase(context.WithoutCancel(ctx), ports.StatusUpdate{
			InstanceID: session.InstanceID,
			Phase:      session.Phase,
			Artifact:   session.Artifact,
			Identity:   session.Identity,
			Err:        session.LastError,
			At:         c.clock.Now(),
		})
	}

	change := PhaseChange{
		InstanceID: session.InstanceID,
		Phase:      session.Phase,
		Artifact:   session.Artifact,
		Identity:   session.Identity,
		Err:        session.LastError,
	}
	for _, listener := range listeners {
		listener(change)
	}
}

func (c *Controller) currentSession(id domain.InstanceID) (domain.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return entry.session, true
}

func (c *Controller) snapshotListenersLocked() []PhaseListener {
	if len(c.listeners) == 0 {
		return nil
	}
	listeners := make([]PhaseListener, 0, len(c.listeners))
	for _, listener := range c.listeners {
		listeners = append(listeners, listener)
	}
	return listeners
}

func (c *Controller) dropLocked(id domain.InstanceID, entry *sessionEntry) {
	if entry.cancel != nil {
		entry.cancel()
		entry.cancel = nil
	}
	if entry.evict != nil {
		entry.evict.Stop()
		entry.evict = nil
	}
	// Blank handle so an in-flight apply from the old poller can never match.
	entry.session.PollHandle = ""
	delete(c.sessions, id)
}

func (c *Controller) evictTerminal(id domain.InstanceID, handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.sessions[id]
	if !ok || entry.session.PollHandle != handle || !entry.session.Phase.Terminal() {
		return
	}
	delete(c.sessions, id)
}
