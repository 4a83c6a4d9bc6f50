package mock

import (
	"sync"
	"time"
)

// Clock provides the current time. It matches the clock interfaces of the
// reconciler and events packages so a MockClock can stand in for either.
type Clock interface {
	// Now returns the current time according to this clock
	Now() time.Time
}

// MockClock implements Clock with a controllable time value.
// Retention cutoffs and event timestamps can be asserted against it
// without waiting for real time to pass.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMockClock creates a new mock clock initialized to the given time.
// If t is zero, the clock is initialized to the current time.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return &MockClock{current: t}
}

// Now returns the current time according to this mock clock.
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Set sets the clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// DaysAgo returns the clock's current time minus n days.
func (m *MockClock) DaysAgo(n int) time.Time {
	return m.Now().AddDate(0, 0, -n)
}
