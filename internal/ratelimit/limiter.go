// Package ratelimit implements the process-local request admission limiter:
// a fixed-window counter per client key with opportunistic, time-gated
// cleanup of stale buckets. State lives only as long as the process; each
// server instance limits independently.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

const (
	// Window is the fixed counting window per client key.
	Window = 60 * time.Second

	// MaxRequests is the number of requests admitted per window.
	// The 61st request inside one window is the first rejected one.
	MaxRequests = 60

	// CleanupInterval gates how often the stale-bucket sweep may run.
	CleanupInterval = 60 * time.Second

	// UnknownKey is the shared bucket for clients without a usable
	// forwarded address.
	UnknownKey = "unknown"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// Limiter is safe for concurrent use; the check-and-increment is a single
// critical section, so a window can never admit more than MaxRequests.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]bucket
	lastCleanup time.Time
	now         func() time.Time
}

func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock injects the clock, for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		buckets:     make(map[string]bucket),
		lastCleanup: now(),
		now:         now,
	}
}

// Allow records one request for key and reports whether it is admitted.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) > Window {
		l.buckets[key] = bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	l.buckets[key] = b

	return b.count <= MaxRequests
}

// cleanup removes buckets whose window started more than Window ago.
// It runs at most once per CleanupInterval regardless of request volume.
// Caller must hold l.mu.
func (l *Limiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < CleanupInterval {
		return
	}

	for key, b := range l.buckets {
		if now.Sub(b.windowStart) > Window {
			delete(l.buckets, key)
		}
	}

	l.lastCleanup = now
}

// Buckets returns the number of tracked client keys.
func (l *Limiter) Buckets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ClientKey derives the limiter key from an X-Forwarded-For header value:
// the first comma-separated entry, trimmed. Requests without one share the
// "unknown" bucket; this is a coarse best-effort identifier, not an identity.
func ClientKey(forwardedFor string) string {
	first := forwardedFor
	if i := strings.Index(first, ","); i >= 0 {
		first = first[:i]
	}

	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownKey
	}

	return first
}
