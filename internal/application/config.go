package application

import "time"

const (
	defaultPollInterval       = 2 * time.Second
	defaultPollTimeout        = 2 * time.Minute
	defaultFailureThreshold   = 5
	defaultInitiateRetries    = 3
	defaultInitiateRetryDelay = time.Second
	defaultConnectSettleDelay = 2 * time.Second
	defaultEvictionGrace      = 30 * time.Second
)

// Config holds the orchestrator tunables. Zero values take the defaults. The
// optional waits (poll timeout, retry delay, settle delay, eviction grace)
// treat a negative duration as disabled; the tunables the poller and retry
// loop cannot run without (poll interval, failure threshold, initiate
// retries) clamp any non-positive value to the default instead.
type Config struct {
	// PollInterval is the fixed cadence of bridge status polls.
	PollInterval time.Duration
	// PollTimeout bounds how long an attempt may sit in AwaitingScan before
	// it expires.
	PollTimeout time.Duration
	// FailureThreshold is the number of consecutive status-poll transport
	// failures tolerated before the attempt is marked Failed.
	FailureThreshold int
	// InitiateRetries bounds the initiate calls made during Start.
	InitiateRetries int
	// InitiateRetryDelay is the pause between initiate attempts.
	InitiateRetryDelay time.Duration
	// ConnectSettleDelay is the wait between a successful initiate and the
	// first artifact fetch. Bridges need a beat to mint the code.
	ConnectSettleDelay time.Duration
	// EvictionGrace is how long a terminal session stays readable before it
	// is dropped from the session table.
	EvictionGrace time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = defaultPollTimeout
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.InitiateRetries <= 0 {
		c.InitiateRetries = defaultInitiateRetries
	}
	if c.InitiateRetryDelay == 0 {
		c.InitiateRetryDelay = defaultInitiateRetryDelay
	}
	if c.ConnectSettleDelay == 0 {
		c.ConnectSettleDelay = defaultConnectSettleDelay
	}
	if c.EvictionGrace == 0 {
		c.EvictionGrace = defaultEvictionGrace
	}
	return c
}
