package ratelimit_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/temirov/skel/internal/ratelimit"
)

type manualClock struct {
	now time.Time
}

func (clock *manualClock) Now() time.Time {
	return clock.now
}

func (clock *manualClock) Advance(duration time.Duration) {
	clock.now = clock.now.Add(duration)
}

func TestAllowSlidingWindow(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(2, time.Minute, clock.Now)

	steps := []struct {
		name               string
		advance            time.Duration
		expectedAllowed    bool
		expectedRetryAfter time.Duration
	}{
		{name: "first", expectedAllowed: true},
		{name: "second", advance: 20 * time.Second, expectedAllowed: true},
		{name: "third_rejected", advance: 10 * time.Second, expectedAllowed: false, expectedRetryAfter: 30 * time.Second},
		{name: "still_rejected", advance: 29 * time.Second, expectedAllowed: false, expectedRetryAfter: time.Second},
		{name: "first_hit_expired", advance: time.Second, expectedAllowed: true},
		{name: "window_full_again", expectedAllowed: false, expectedRetryAfter: 20 * time.Second},
	}
	for _, step := range steps {
		clock.Advance(step.advance)
		allowed, retryAfter := limiter.Allow("client")
		if allowed != step.expectedAllowed || retryAfter != step.expectedRetryAfter {
			t.Fatalf("%s: expected (%t, %s), got (%t, %s)", step.name, step.expectedAllowed, step.expectedRetryAfter, allowed, retryAfter)
		}
	}
}

func TestKeysAreIndependentAndResettable(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	limiter := ratelimit.New(1, time.Hour, clock.Now)

	if allowed, _ := limiter.Allow("a"); !allowed {
		t.Fatalf("expected first request of a to pass")
	}
	if allowed, _ := limiter.Allow("b"); !allowed {
		t.Fatalf("expected first request of b to pass")
	}
	if allowed, _ := limiter.Allow("a"); allowed {
		t.Fatalf("expected second request of a to be rejected")
	}
	if remaining := limiter.Remaining("a"); remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", remaining)
	}
	limiter.Reset("a")
	if remaining := limiter.Remaining("a"); remaining != 1 {
		t.Fatalf("expected 1 remaining after reset, got %d", remaining)
	}
	if allowed, _ := limiter.Allow("a"); !allowed {
		t.Fatalf("expected request after reset to pass")
	}
}

func TestDisabledLimiter(t *testing.T) {
	limiter := ratelimit.New(0, time.Minute, nil)
	for attempt := 0; attempt < 100; attempt++ {
		if allowed, _ := limiter.Allow("any"); !allowed {
			t.Fatalf("disabled limiter rejected attempt %d", attempt)
		}
	}
	if remaining := limiter.Remaining("any"); remaining != math.MaxInt {
		t.Fatalf("expected unbounded remaining for disabled limiter, got %d", remaining)
	}
}

func TestExpiredKeysAreSwept(t *testing.T) {
	clock := &manualClock{now: time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(5, time.Minute, clock.Now)

	steps := []struct {
		name            string
		advance         time.Duration
		key             string
		expectedTracked int
	}{
		{name: "first_client", key: "10.0.0.1", expectedTracked: 1},
		{name: "second_client", key: "10.0.0.2", expectedTracked: 2},
		{name: "third_client", advance: 30 * time.Second, key: "10.0.0.3", expectedTracked: 3},
		{name: "sweep_drops_idle_clients", advance: 35 * time.Second, key: "10.0.0.4", expectedTracked: 2},
		{name: "no_sweep_within_window", advance: 10 * time.Second, key: "10.0.0.5", expectedTracked: 3},
		{name: "later_sweep_drops_rest", advance: 2 * time.Minute, key: "10.0.0.6", expectedTracked: 1},
	}
	for _, step := range steps {
		clock.Advance(step.advance)
		if allowed, _ := limiter.Allow(step.key); !allowed {
			t.Fatalf("%s: expected request to pass", step.name)
		}
		if tracked := limiter.Tracked(); tracked != step.expectedTracked {
			t.Fatalf("%s: expected %d tracked keys, got %d", step.name, step.expectedTracked, tracked)
		}
	}
}

func TestConcurrentAllow(t *testing.T) {
	limiter := ratelimit.New(50, time.Hour, nil)
	var waitGroup sync.WaitGroup
	var mutex sync.Mutex
	admitted := 0
	for worker := 0; worker < 10; worker++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for attempt := 0; attempt < 10; attempt++ {
				if allowed, _ := limiter.Allow("shared"); allowed {
					mutex.Lock()
					admitted++
					mutex.Unlock()
				}
			}
		}()
	}
	waitGroup.Wait()
	if admitted != 50 {
		t.Fatalf("expected exactly 50 admitted requests, got %d", admitted)
	}
}
