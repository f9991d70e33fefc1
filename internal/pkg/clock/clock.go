// Package clock supplies the catalog's notion of "now" so timestamps on
// records, events and ledger entries can be pinned in tests.
package clock

import (
	"sync"
	"time"
)

// Clock abstracts time.Now so callers can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC.
type RealClock struct{}

// Now returns the current system time in UTC.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock is a settable clock, safe for use from handler goroutines.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFake returns a FakeClock pinned at t.
func NewFake(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

// Now returns the pinned time.
func (f *FakeClock) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set pins the clock at t.
func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.now = t.UTC()
	f.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (f *FakeClock) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}
