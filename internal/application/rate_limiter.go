package application

import (
	"fmt"
	"sync"
	"time"
)

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window limiter keyed by caller identity. It guards
// the public contact endpoint against form spam.
type RateLimiter struct {
	limits map[string]*rateLimitEntry
	mu     sync.RWMutex
	window time.Duration
	limit  int
	done   chan struct{}
	once   sync.Once
}

// NewRateLimiter allows limit requests per identifier per window.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	rl := &RateLimiter{
		limits: make(map[string]*rateLimitEntry),
		window: window,
		limit:  limit,
		done:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow records one request for the identifier (typically the client IP)
// and reports whether it is within the window's budget.
func (rl *RateLimiter) Allow(identifier string) (bool, error) {
	if identifier == "" {
		identifier = "anonymous"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.limits[identifier]
	if !exists || now.After(entry.resetTime) {
		rl.limits[identifier] = &rateLimitEntry{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true, nil
	}

	if entry.count >= rl.limit {
		until := entry.resetTime.Sub(now)
		return false, fmt.Errorf("rate limit exceeded, retry in %v", until.Round(time.Second))
	}

	entry.count++
	return true, nil
}

// Remaining reports how many requests the identifier has left this window.
func (rl *RateLimiter) Remaining(identifier string) int {
	if identifier == "" {
		identifier = "anonymous"
	}

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	entry, exists := rl.limits[identifier]
	if !exists || time.Now().After(entry.resetTime) {
		return rl.limit
	}
	if remaining := rl.limit - entry.count; remaining > 0 {
		return remaining
	}
	return 0
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, entry := range rl.limits {
		if now.After(entry.resetTime) {
			delete(rl.limits, key)
		}
	}
}
