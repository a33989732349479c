package ratelimit

import (
	"testing"
	"time"
)

func TestFourthRequestDenied(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		d := l.Admit("10.0.0.1")
		if !d.Allowed {
			t.Fatalf("request %d should be admitted", i+1)
		}
		if want := 3 - (i + 1); d.Remaining != want {
			t.Fatalf("request %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d := l.Admit("10.0.0.1")
	if d.Allowed {
		t.Fatal("fourth request within window should be denied")
	}
	if d.Remaining != 0 {
		t.Fatalf("denied request: remaining = %d, want 0", d.Remaining)
	}
	if d.ResetAt.IsZero() {
		t.Fatal("denied request should echo the window reset instant")
	}
}

func TestDenialDoesNotExtendWindow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Admit("a")
	}
	first := l.Admit("a")
	second := l.Admit("a")

	if !first.ResetAt.Equal(second.ResetAt) {
		t.Fatalf("denied requests changed resetAt: %v vs %v", first.ResetAt, second.ResetAt)
	}
}

func TestWindowResetStartsFreshCount(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		l.Admit("a")
	}

	// Step exactly to the reset instant; the next request opens a new
	// window with count 1, not 0.
	now = now.Add(time.Minute)
	d := l.Admit("a")
	if !d.Allowed {
		t.Fatal("first request after reset should be admitted")
	}
	if d.Remaining != 2 {
		t.Fatalf("remaining after reset = %d, want 2", d.Remaining)
	}
	if want := now.Add(time.Minute); !d.ResetAt.Equal(want) {
		t.Fatalf("resetAt = %v, want %v", d.ResetAt, want)
	}
}

func TestCallersAreIndependent(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Admit("a")
	}
	if d := l.Admit("b"); !d.Allowed || d.Remaining != 2 {
		t.Fatalf("caller b should have a fresh window, got %+v", d)
	}
}

func TestExpiredWindowsAreSwept(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New(3, time.Minute)
	l.now = func() time.Time { return now }

	l.Admit("a")
	l.Admit("b")
	l.Admit("c")

	now = now.Add(2 * time.Minute)
	l.Admit("d")

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.windows) != 1 {
		t.Fatalf("expected only the active window to remain, have %d", len(l.windows))
	}
	if _, ok := l.windows["d"]; !ok {
		t.Fatal("active caller's window was swept")
	}
}
