package rest

import (
	"sync"
	"time"
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginThrottle locks out a client key after too many failed logins within
// a window.
type LoginThrottle struct {
	maxAttempts int
	window      time.Duration
	lock        time.Duration
	now         func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptState
}

// NewLoginThrottle locks a key for lock after maxAttempts failures within
// window.
func NewLoginThrottle(maxAttempts int, window, lock time.Duration) *LoginThrottle {
	return &LoginThrottle{
		maxAttempts: maxAttempts,
		window:      window,
		lock:        lock,
		now:         time.Now,
		attempts:    make(map[string]*attemptState),
	}
}

// RetryAfter reports how long key stays locked; zero means not locked.
func (t *LoginThrottle) RetryAfter(key string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.attempts[key]
	if !ok {
		return 0
	}
	now := t.now()
	if !now.Before(state.lockedUntil) {
		return 0
	}
	return state.lockedUntil.Sub(now)
}

// Fail records a failed login for key.
func (t *LoginThrottle) Fail(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, st := range t.attempts {
		if t.stale(st, now) {
			delete(t.attempts, k)
		}
	}

	state, ok := t.attempts[key]
	expired := ok && !state.lockedUntil.IsZero() && !now.Before(state.lockedUntil)
	if !ok || expired || now.Sub(state.firstAttempt) > t.window {
		state = &attemptState{firstAttempt: now}
		t.attempts[key] = state
	}

	state.count++
	if state.count >= t.maxAttempts {
		state.lockedUntil = now.Add(t.lock)
		state.count = t.maxAttempts
	}
}

// stale reports whether st neither locks nor counts toward a lock anymore.
func (t *LoginThrottle) stale(st *attemptState, now time.Time) bool {
	return now.Sub(st.firstAttempt) > t.window && !now.Before(st.lockedUntil)
}

// Reset forgets key after a successful login.
func (t *LoginThrottle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key)
}
