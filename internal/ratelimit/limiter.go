// Package ratelimit implements a fixed-window per-user request counter for
// the task API.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests permitted per window per user.
	DefaultLimit = 100
	// DefaultWindow is the fixed window length.
	DefaultWindow = time.Minute
)

type entry struct {
	count     int
	resetTime int64 // epoch ms
}

// Limiter counts requests per user id in fixed windows. Entries are created
// on first sight and reset lazily; they are never evicted, so the map grows
// with the number of distinct user ids seen by the process.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*entry
	now     func() time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether a request from userID is permitted. A request at or
// past the entry's reset time starts a fresh window.
func (l *Limiter) Allow(userID string) bool {
	nowMs := l.now().UnixMilli()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[userID]
	if !ok || nowMs >= e.resetTime {
		l.entries[userID] = &entry{count: 1, resetTime: nowMs + l.window.Milliseconds()}
		return true
	}
	if e.count >= l.limit {
		return false
	}
	e.count++
	return true
}

// RetryAfter is the advisory wait, in seconds, returned on a denied request.
func (l *Limiter) RetryAfter() int {
	return int(l.window.Seconds())
}

// Size reports the number of tracked user ids.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
