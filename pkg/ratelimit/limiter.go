package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for pacing successive operations
type Limiter interface {
	// Wait blocks until the next operation may proceed
	Wait()
	// Interval returns the configured pacing interval
	Interval() time.Duration
}

// FixedInterval paces operations with a constant delay. Every Wait call
// sleeps the full interval: the throttle is deliberately not adaptive and
// applies regardless of how the previous operation went.
type FixedInterval struct {
	interval time.Duration
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval limiter
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{
		interval: interval,
	}
}

// Wait sleeps for the configured interval
func (f *FixedInterval) Wait() {
	f.mu.Lock()
	interval := f.interval
	f.mu.Unlock()

	if interval > 0 {
		time.Sleep(interval)
	}
}

// Interval returns the configured pacing interval
func (f *FixedInterval) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

// SetInterval changes the pacing interval
func (f *FixedInterval) SetInterval(interval time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = interval
}
