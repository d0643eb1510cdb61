package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = errors.New("cache circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker keeps a flapping redis from stalling the public menu path: after
// maxFailures consecutive failures calls are short-circuited until timeout
// has passed, then a single probe either closes the circuit or re-opens it.
type breaker struct {
	mu              sync.Mutex
	state           breakerState
	failureCount    int
	lastFailureTime time.Time

	maxFailures int
	timeout     time.Duration
}

func newBreaker(maxFailures int, timeout time.Duration) *breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &breaker{
		state:       stateClosed,
		maxFailures: maxFailures,
		timeout:     timeout,
	}
}

// Call executes fn under breaker protection.
func (b *breaker) Call(fn func() error) error {
	b.mu.Lock()

	if b.state == stateOpen {
		if time.Since(b.lastFailureTime) > b.timeout {
			b.state = stateHalfOpen
		} else {
			b.mu.Unlock()
			return ErrOpen
		}
	}

	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailureTime = time.Now()

		// Any failure in half-open re-opens the circuit
		if b.state == stateHalfOpen || b.failureCount >= b.maxFailures {
			b.state = stateOpen
		}

		return err
	}

	b.state = stateClosed
	b.failureCount = 0
	return nil
}

func (b *breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}
