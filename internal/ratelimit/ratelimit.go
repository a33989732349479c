package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter admits up to `limit` requests per caller key within each
// fixed window. Windows are opened on first use and swept lazily, so
// memory is bounded by the set of currently active callers.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit  int
	period time.Duration
	now    func() time.Time
}

// New creates a Limiter admitting limit requests per period per caller.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Limit returns the per-window admission threshold.
func (l *Limiter) Limit() int {
	return l.limit
}

// Admit decides whether a request from key may proceed. Expired windows
// for all callers are discarded before the decision is made.
func (l *Limiter) Admit(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}

	w, ok := l.windows[key]
	if !ok {
		w = &window{count: 1, resetAt: now.Add(l.period)}
		l.windows[key] = w
		return Decision{Allowed: true, Remaining: l.limit - 1, ResetAt: w.resetAt}
	}

	if w.count >= l.limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: w.resetAt}
	}

	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count, ResetAt: w.resetAt}
}
