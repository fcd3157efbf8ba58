// Package ratelimit implements a per-client sliding-window request
// limiter. One table for all clients, guarded by a single mutex;
// entries are pruned lazily on each check.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	max    int
	window time.Duration

	mu   sync.Mutex
	seen map[string][]time.Time

	now func() time.Time
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		seen:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether a request from key fits in the current window,
// recording it if it does.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)

	if len(recent) >= l.max {
		l.seen[key] = recent
		return false
	}

	l.seen[key] = append(recent, now)
	return true
}

// Remaining returns how many requests key may still make in the
// current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(key, l.now())
	l.seen[key] = recent

	if remaining := l.max - len(recent); remaining > 0 {
		return remaining
	}
	return 0
}

func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)

	recent := l.seen[key][:0]
	for _, t := range l.seen[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
