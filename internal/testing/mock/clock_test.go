package mock

import (
	"testing"
	"time"
)

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(fixedTime)

	if !clock.Now().Equal(fixedTime) {
		t.Errorf("Expected time %v, got %v", fixedTime, clock.Now())
	}

	// Calling Now multiple times should return the same time
	if !clock.Now().Equal(fixedTime) {
		t.Errorf("Expected time to remain stable at %v, got %v", fixedTime, clock.Now())
	}
}

func TestMockClock_Advance(t *testing.T) {
	startTime := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(startTime)

	clock.Advance(1 * time.Hour)
	clock.Advance(30 * time.Minute)

	expectedTime := startTime.Add(90 * time.Minute)
	if !clock.Now().Equal(expectedTime) {
		t.Errorf("Expected time %v after advance, got %v", expectedTime, clock.Now())
	}
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Time{})

	newTime := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	clock.Set(newTime)

	if !clock.Now().Equal(newTime) {
		t.Errorf("Expected time %v after Set, got %v", newTime, clock.Now())
	}
}

func TestMockClock_ZeroTime(t *testing.T) {
	before := time.Now()
	clock := NewMockClock(time.Time{})
	after := time.Now()

	clockTime := clock.Now()
	if clockTime.Before(before) || clockTime.After(after) {
		t.Errorf("MockClock with zero time should initialize to current time")
	}
}

func TestMockClock_DaysAgo(t *testing.T) {
	clock := NewMockClock(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC))

	got := clock.DaysAgo(40)
	want := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
