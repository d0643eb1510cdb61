package cache

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := newBreaker(3, time.Minute)
	boom := errors.New("redis down")

	for i := 0; i < 3; i++ {
		if err := b.Call(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	// Short-circuited: fn must not run
	called := false
	err := b.Call(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("err = %v, want ErrOpen", err)
	}
	if called {
		t.Fatal("fn executed while breaker open")
	}
}

func TestBreakerClosesAfterSuccessfulProbe(t *testing.T) {
	b := newBreaker(1, time.Nanosecond)

	if err := b.Call(func() error { return errors.New("fail") }); err == nil {
		t.Fatal("expected failure")
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	time.Sleep(time.Millisecond)

	if err := b.Call(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != "closed" {
		t.Fatalf("state = %s, want closed", b.State())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := newBreaker(1, time.Nanosecond)

	if err := b.Call(func() error { return errors.New("fail") }); err == nil {
		t.Fatal("expected failure")
	}

	time.Sleep(time.Millisecond)

	if err := b.Call(func() error { return errors.New("still down") }); err == nil {
		t.Fatal("expected probe failure")
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	if err := b.Call(func() error { return nil }); !errors.Is(err, ErrOpen) {
		t.Fatalf("err = %v, want ErrOpen right after re-open", err)
	}
}

func TestResetCountOnSuccess(t *testing.T) {
	b := newBreaker(2, time.Minute)
	boom := errors.New("fail")

	// failure, success, failure: never two consecutive, stays closed
	b.Call(func() error { return boom })
	b.Call(func() error { return nil })
	b.Call(func() error { return boom })

	if b.State() != "closed" {
		t.Fatalf("state = %s, want closed", b.State())
	}
}
