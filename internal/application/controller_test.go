package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
	"github.com/walink/whatsapp-link-cli/internal/ports/mocks"
)

const instance = domain.InstanceID("inst-1")

func testConfig() Config {
	return Config{
		PollInterval:       5 * time.Millisecond,
		PollTimeout:        time.Minute,
		FailureThreshold:   5,
		InitiateRetries:    3,
		InitiateRetryDelay: -1,
		ConnectSettleDelay: -1,
		EvictionGrace:      -1,
	}
}

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

type updateLog struct {
	mu      sync.Mutex
	updates []ports.StatusUpdate
}

func (l *updateLog) record(_ context.Context, update ports.StatusUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updates = append(l.updates, update)
	return nil
}

func (l *updateLog) phases() []domain.Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	phases := make([]domain.Phase, 0, len(l.updates))
	for _, update := range l.updates {
		phases = append(phases, update.Phase)
	}
	return phases
}

func imageArtifact(payload string) domain.Artifact {
	return domain.Artifact{Type: domain.ArtifactTypeImage, Payload: payload, PairingCode: "ABCD-1234"}
}

func TestStartDeliversArtifactThenLinks(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	log := &updateLog{}
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).RunAndReturn(log.record)

	identity := domain.LinkedIdentity{AccountNumber: "5215551234567", DisplayName: "Ana"}
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		Return(domain.BridgeStatus{State: domain.BridgeStateOpen, Identity: &identity}, nil)

	controller := NewController(bridge, sink, nil, testConfig())

	session, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingScan, session.Phase)
	require.NotNil(t, session.Artifact)
	assert.Equal(t, "X", session.Artifact.Payload)

	require.Eventually(t, func() bool {
		current, err := controller.Get(instance)
		return err == nil && current.Phase == domain.PhaseLinked
	}, time.Second, 5*time.Millisecond)

	linked, err := controller.Get(instance)
	require.NoError(t, err)
	require.NotNil(t, linked.Identity)
	assert.Equal(t, identity, *linked.Identity)
	assert.Nil(t, linked.Artifact)

	// One persistence write per phase change, in order.
	require.Eventually(t, func() bool {
		return len(log.phases()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.Phase{domain.PhaseInitiating, domain.PhaseAwaitingScan, domain.PhaseLinked}, log.phases())
}

func TestStartIsIdempotentWhileAttemptInFlight(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()

	cfg := testConfig()
	cfg.PollInterval = time.Hour // keep the poller quiet for this test
	controller := NewController(bridge, sink, nil, cfg)

	first, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingScan, first.Phase)

	second, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	assert.Equal(t, first.PollHandle, second.PollHandle)
	assert.Equal(t, domain.PhaseAwaitingScan, second.Phase)
	// The mocks enforce exactly one initiate and one artifact fetch.
}

func TestStartWhileBootstrapInFlightReturnsExistingSession(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	fetchEntered := make(chan struct{})
	release := make(chan struct{})

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		RunAndReturn(func(context.Context, domain.InstanceID) (domain.ArtifactResult, error) {
			close(fetchEntered)
			<-release
			return domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil
		}).Once()

	cfg := testConfig()
	cfg.PollInterval = time.Hour
	controller := NewController(bridge, sink, nil, cfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = controller.Start(context.Background(), instance)
	}()

	<-fetchEntered
	second, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInitiating, second.Phase)

	close(release)
	<-done

	final, err := controller.Get(instance)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingScan, final.Phase)
}

func TestStartFailsAfterBoundedInitiateRetries(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(errors.New("dial tcp: refused")).Times(3)

	controller := NewController(bridge, sink, nil, testConfig())

	session, err := controller.Start(context.Background(), instance)
	require.ErrorIs(t, err, domain.ErrBridgeUnavailable)
	assert.Equal(t, domain.PhaseFailed, session.Phase)
	require.NotNil(t, session.LastError)
	assert.Equal(t, domain.ErrorKindBridgeUnavailable, session.LastError.Kind)

	current, err := controller.Get(instance)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseFailed, current.Phase)
}

func TestCancelUnknownInstanceIsNoOp(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)

	controller := NewController(bridge, sink, nil, testConfig())

	require.NoError(t, controller.Cancel(context.Background(), "never-started"))
}

func TestCancelDiscardsStalePollResult(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	log := &updateLog{}
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).RunAndReturn(log.record)
	sink.EXPECT().Clear(mockAnyContext(), instance).Return(nil).Once()

	pollEntered := make(chan struct{})
	release := make(chan struct{})
	identity := domain.LinkedIdentity{AccountNumber: "5215551234567"}

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		RunAndReturn(func(context.Context, domain.InstanceID) (domain.BridgeStatus, error) {
			select {
			case <-pollEntered:
			default:
				close(pollEntered)
			}
			<-release
			return domain.BridgeStatus{State: domain.BridgeStateOpen, Identity: &identity}, nil
		})

	controller := NewController(bridge, sink, nil, testConfig())

	_, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)

	<-pollEntered
	require.NoError(t, controller.Cancel(context.Background(), instance))

	// Deliver the stale "linked" response after cancellation.
	close(release)
	time.Sleep(30 * time.Millisecond)

	_, err = controller.Get(instance)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NotContains(t, log.phases(), domain.PhaseLinked)
}

func TestExpiryThenRefreshStartsNewAttempt(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	log := &updateLog{}
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).RunAndReturn(log.record)
	sink.EXPECT().Clear(mockAnyContext(), instance).Return(nil).Once()

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		Return(domain.BridgeStatus{State: domain.BridgeStateClose}, nil).Once()
	bridge.EXPECT().Regenerate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("Y"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		Return(domain.BridgeStatus{State: "pending"}, nil).Maybe()

	controller := NewController(bridge, sink, nil, testConfig())

	first, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	firstHandle := first.PollHandle

	require.Eventually(t, func() bool {
		current, err := controller.Get(instance)
		return err == nil && current.Phase == domain.PhaseExpired
	}, time.Second, 5*time.Millisecond)

	expired, err := controller.Get(instance)
	require.NoError(t, err)
	assert.Nil(t, expired.Artifact)

	refreshed, err := controller.Refresh(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingScan, refreshed.Phase)
	require.NotNil(t, refreshed.Artifact)
	assert.Equal(t, "Y", refreshed.Artifact.Payload)
	assert.NotEqual(t, firstHandle, refreshed.PollHandle)
	assert.False(t, refreshed.AttemptStartedAt.Before(first.AttemptStartedAt))

	assert.Contains(t, log.phases(), domain.PhaseExpired)

	// Stop the second attempt's poller before the mocks go out of scope.
	require.NoError(t, controller.Cancel(context.Background(), instance))
}

func TestRefreshWhileLinkedReturnsInvalidState(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	identity := domain.LinkedIdentity{AccountNumber: "5215551234567", DisplayName: "Ana"}
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{AlreadyLinked: true, Identity: &identity}, nil).Once()

	controller := NewController(bridge, sink, nil, testConfig())

	session, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseLinked, session.Phase)

	_, err = controller.Refresh(context.Background(), instance)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	current, err := controller.Get(instance)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseLinked, current.Phase)
}

func TestRefreshUnknownInstanceReturnsNotFound(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)

	controller := NewController(bridge, sink, nil, testConfig())

	_, err := controller.Refresh(context.Background(), "never-started")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStartAfterTerminalPhaseBeginsFreshAttempt(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	identity := domain.LinkedIdentity{AccountNumber: "5215551234567"}
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Twice()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{AlreadyLinked: true, Identity: &identity}, nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("Z"))}, nil).Once()

	cfg := testConfig()
	cfg.PollInterval = time.Hour
	controller := NewController(bridge, sink, nil, cfg)

	linked, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseLinked, linked.Phase)

	fresh, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingScan, fresh.Phase)
	assert.NotEqual(t, linked.PollHandle, fresh.PollHandle)
}

func TestSubscribersSeeArtifactAndIdentity(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	identity := domain.LinkedIdentity{AccountNumber: "5215551234567", DisplayName: "Ana"}
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		Return(domain.BridgeStatus{State: domain.BridgeStateOpen, Identity: &identity}, nil)

	controller := NewController(bridge, sink, nil, testConfig())

	changes := make(chan PhaseChange, 16)
	controller.Subscribe(func(change PhaseChange) {
		select {
		case changes <- change:
		default:
		}
	})

	_, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)

	var sawArtifact, sawIdentity bool
	deadline := time.After(time.Second)
	for !(sawArtifact && sawIdentity) {
		select {
		case change := <-changes:
			if change.Phase == domain.PhaseAwaitingScan && change.Artifact != nil && change.Artifact.Payload == "X" {
				sawArtifact = true
			}
			if change.Phase == domain.PhaseLinked && change.Identity != nil && *change.Identity == identity {
				sawIdentity = true
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase changes (artifact=%v identity=%v)", sawArtifact, sawIdentity)
		}
	}
}

func TestTerminalSessionEvictedAfterGrace(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)

	identity := domain.LinkedIdentity{AccountNumber: "5215551234567"}
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{AlreadyLinked: true, Identity: &identity}, nil).Once()

	cfg := testConfig()
	cfg.EvictionGrace = 20 * time.Millisecond
	controller := NewController(bridge, sink, nil, cfg)

	_, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)

	_, err = controller.Get(instance)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := controller.Get(instance)
		return errors.Is(err, domain.ErrSessionNotFound)
	}, time.Second, 5*time.Millisecond)
}

func TestStartWithNegativeTunablesClampsAndRuns(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)
	sink.EXPECT().Clear(mockAnyContext(), instance).Return(nil).Once()

	// Once() proves initiate still happens with a negative retry bound.
	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().FetchStatus(mockAnyContext(), instance).
		Return(domain.BridgeStatus{State: "pending"}, nil).Maybe()

	cfg := testConfig()
	cfg.PollInterval = -time.Second
	cfg.FailureThreshold = -1
	cfg.InitiateRetries = -5
	controller := NewController(bridge, sink, nil, cfg)

	session, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingScan, session.Phase)

	// Give the poller goroutine a beat; an unclamped negative interval
	// would panic time.NewTicker before the first tick.
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, controller.Cancel(context.Background(), instance))
}

func TestUnsubscribedListenerStopsReceiving(t *testing.T) {
	bridge := mocks.NewMockBridge(t)
	sink := mocks.NewMockStatusSink(t)
	sink.EXPECT().RecordPhase(mockAnyContext(), mock.Anything).Return(nil)
	sink.EXPECT().Clear(mockAnyContext(), instance).Return(nil).Once()

	bridge.EXPECT().Initiate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("X"))}, nil).Once()
	bridge.EXPECT().Regenerate(mockAnyContext(), instance).Return(nil).Once()
	bridge.EXPECT().FetchArtifact(mockAnyContext(), instance).
		Return(domain.ArtifactResult{Artifact: ptr(imageArtifact("Y"))}, nil).Once()

	cfg := testConfig()
	cfg.PollInterval = time.Hour
	controller := NewController(bridge, sink, nil, cfg)

	var mu sync.Mutex
	var seen []domain.Phase
	unsubscribe := controller.Subscribe(func(change PhaseChange) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, change.Phase)
	})

	_, err := controller.Start(context.Background(), instance)
	require.NoError(t, err)

	mu.Lock()
	afterStart := len(seen)
	mu.Unlock()
	assert.Equal(t, 2, afterStart) // initiating, awaiting_scan

	unsubscribe()

	refreshed, err := controller.Refresh(context.Background(), instance)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseAwaitingScan, refreshed.Phase)

	mu.Lock()
	assert.Len(t, seen, afterStart)
	mu.Unlock()

	require.NoError(t, controller.Cancel(context.Background(), instance))
}

func ptr[T any](v T) *T {
	return &v
}
