package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Breaker.Do while the breaker rejects calls.
var ErrOpen = errors.New("resilience: circuit open")

// State is the breaker state.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until the cooldown has passed.
	StateOpen
	// StateHalfOpen lets a single probe through.
	StateHalfOpen
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

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Name labels state change callbacks.
	Name string
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker (default: 5).
	FailureThreshold int
	// Cooldown is how long the breaker stays open before probing (default: 30s).
	Cooldown time.Duration
	// IsFailure decides which errors count against the breaker. Defaults to
	// every non-nil error.
	IsFailure func(error) bool
	// OnStateChange is called, with the lock released, after each transition.
	OnStateChange func(name string, from, to State)
	// Now is the clock (default: time.Now).
	Now func() time.Time
}

// Breaker fails fast after repeated failures of a dependency.
type Breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{cfg: cfg}
}

// Do runs fn unless the breaker is open, in which case it returns ErrOpen
// without calling fn. fn's error is returned unchanged. A panic in fn counts
// as a failure and is re-raised.
func (b *Breaker) Do(fn func() error) error {
	if !b.admit() {
		return ErrOpen
	}
	defer func() {
		if r := recover(); r != nil {
			b.record(true)
			panic(r)
		}
	}()
	err := fn()
	b.record(b.cfg.IsFailure(err))
	return err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.cooledDown() {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	from := b.state
	ok := true
	switch b.state {
	case StateOpen:
		if !b.cooledDown() {
			ok = false
			break
		}
		b.state = StateHalfOpen
		b.probing = true
	case StateHalfOpen:
		if b.probing {
			ok = false
			break
		}
		b.probing = true
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return ok
}

func (b *Breaker) record(failed bool) {
	b.mu.Lock()
	from := b.state
	switch {
	case !failed:
		b.state = StateClosed
		b.failures = 0
	case b.state == StateHalfOpen:
		b.state = StateOpen
		b.openedAt = b.cfg.Now()
	default:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.state = StateOpen
			b.openedAt = b.cfg.Now()
		}
	}
	b.probing = false
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// cooledDown reports whether an open breaker may probe. Caller holds mu.
func (b *Breaker) cooledDown() bool {
	return b.cfg.Now().Sub(b.openedAt) >= b.cfg.Cooldown
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}
