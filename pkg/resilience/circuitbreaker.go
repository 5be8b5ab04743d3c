// Package resilience guards calls to optional dependencies: a circuit
// breaker for outbound calls and a keyed rate limiter for inbound traffic.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed   State = iota // calls pass
	StateOpen                  // calls rejected
	StateHalfOpen              // probe calls pass
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerOpts configures a Breaker. Zero fields take DefaultBreakerOpts.
type BreakerOpts struct {
	// FailThreshold is how many consecutive failures trip the breaker.
	FailThreshold int
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration
	// HalfOpenMax is the number of concurrent probes allowed.
	HalfOpenMax int
	// OnStateChange, if set, is called after every transition. It runs with
	// the breaker unlocked.
	OnStateChange func(from, to State)
}

var DefaultBreakerOpts = BreakerOpts{
	FailThreshold: 5,
	Cooldown:      30 * time.Second,
	HalfOpenMax:   1,
}

// Breaker is a closed/open/half-open circuit breaker. Safe for concurrent use.
type Breaker struct {
	mu       sync.Mutex
	opts     BreakerOpts
	state    State
	failures int
	openedAt time.Time
	probes   int
	now      func() time.Time
}

func NewBreaker(opts BreakerOpts) *Breaker {
	if opts.FailThreshold <= 0 {
		opts.FailThreshold = DefaultBreakerOpts.FailThreshold
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultBreakerOpts.Cooldown
	}
	if opts.HalfOpenMax <= 0 {
		opts.HalfOpenMax = DefaultBreakerOpts.HalfOpenMax
	}
	return &Breaker{opts: opts, now: time.Now}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	from, to := b.state, b.refresh()
	b.mu.Unlock()
	b.notify(from, to)
	return to
}

// refresh moves open to half-open once the cooldown has passed. Must hold mu.
func (b *Breaker) refresh() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.opts.Cooldown {
		b.state = StateHalfOpen
		b.probes = 0
	}
	return b.state
}

// Call runs f unless the breaker is open. f's error counts as a failure
// unless it is a context cancellation from the caller.
func (b *Breaker) Call(ctx context.Context, f func(context.Context) error) error {
	from, err := b.admit()
	if err != nil {
		return err
	}
	callErr := f(ctx)
	to := b.record(callErr, ctx.Err() != nil)
	b.notify(from, to)
	return callErr
}

func (b *Breaker) admit() (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := b.state
	switch b.refresh() {
	case StateOpen:
		return before, ErrCircuitOpen
	case StateHalfOpen:
		if b.probes >= b.opts.HalfOpenMax {
			return before, ErrCircuitOpen
		}
		b.probes++
	}
	return before, nil
}

func (b *Breaker) record(err error, canceled bool) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case err == nil:
		if b.state == StateHalfOpen {
			b.state = StateClosed
			b.probes = 0
		}
		b.failures = 0
	case canceled:
		if b.state == StateHalfOpen && b.probes > 0 {
			b.probes--
		}
	default:
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.opts.FailThreshold {
			b.state = StateOpen
			b.openedAt = b.now()
			b.failures = 0
			b.probes = 0
		}
	}
	return b.state
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.opts.OnStateChange != nil {
		b.opts.OnStateChange(from, to)
	}
}
