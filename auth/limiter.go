package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// attemptLimiter bounds how often a single user may guess a code. The
// code space is only 900000 values, so unthrottled guessing would be
// cheap even within the one hour expiry window.
type attemptLimiter struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry

	limit rate.Limit
	burst int
	ttl   time.Duration

	lastCleanup time.Time
}

type attemptEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newAttemptLimiter(maxAttempts int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		entries:     make(map[string]*attemptEntry),
		limit:       rate.Limit(float64(maxAttempts) / window.Seconds()),
		burst:       maxAttempts,
		ttl:         2 * window,
		lastCleanup: time.Now(),
	}
}

func (l *attemptLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) > l.ttl {
		for k, e := range l.entries {
			if time.Since(e.lastSeen) > l.ttl {
				delete(l.entries, k)
			}
		}
		l.lastCleanup = time.Now()
	}

	e, exists := l.entries[key]
	if !exists {
		e = &attemptEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}

	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// reset forgets a key after a successful verification so the next
// issued code starts with a full budget.
func (l *attemptLimiter) reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
}
