// Package ratelimit counts requests per key over a sliding time window.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Limiter admits at most limit requests per key within any window-long interval.
// It is safe for concurrent use.
type Limiter struct {
	limit  int
	window time.Duration
	clock  Clock

	mutex     sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

// New returns a limiter. A non-positive limit disables limiting; a nil clock uses time.Now.
func New(limit int, window time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	return &Limiter{
		limit:  limit,
		window: window,
		clock:  clock,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a request for key when it fits in the window.
// Rejected requests are not recorded; retryAfter reports when the oldest hit expires.
func (limiter *Limiter) Allow(key string) (bool, time.Duration) {
	if limiter.limit <= 0 || limiter.window <= 0 {
		return true, 0
	}
	now := limiter.clock()

	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	limiter.sweep(now)
	recent := limiter.prune(key, now)
	if len(recent) >= limiter.limit {
		return false, recent[0].Add(limiter.window).Sub(now)
	}
	limiter.hits[key] = append(recent, now)
	return true, 0
}

// Remaining reports how many requests key may still make in the current window.
// A disabled limiter reports math.MaxInt.
func (limiter *Limiter) Remaining(key string) int {
	if limiter.limit <= 0 || limiter.window <= 0 {
		return math.MaxInt
	}
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	remaining := limiter.limit - len(limiter.prune(key, limiter.clock()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset forgets all hits of key.
func (limiter *Limiter) Reset(key string) {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	delete(limiter.hits, key)
}

// Tracked reports how many keys currently hold hits.
func (limiter *Limiter) Tracked() int {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return len(limiter.hits)
}

// sweep prunes every key at most once per window so clients that never return are forgotten.
// Callers hold the mutex.
func (limiter *Limiter) sweep(now time.Time) {
	if now.Sub(limiter.lastSweep) < limiter.window {
		return
	}
	limiter.lastSweep = now
	for key := range limiter.hits {
		limiter.prune(key, now)
	}
}

// prune drops expired hits of key. Callers hold the mutex.
func (limiter *Limiter) prune(key string, now time.Time) []time.Time {
	hits := limiter.hits[key]
	cutoff := now.Add(-limiter.window)
	firstLive := 0
	for firstLive < len(hits) && !hits[firstLive].After(cutoff) {
		firstLive++
	}
	recent := hits[firstLive:]
	if len(recent) == 0 {
		delete(limiter.hits, key)
		return nil
	}
	limiter.hits[key] = recent
	return recent
}
