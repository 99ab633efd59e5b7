package clock

import (
	"testing"
	"time"
)

func TestPackageLevelNow(t *testing.T) {
	before := time.Now()
	got := Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestRealClock(t *testing.T) {
	var c Clock = &RealClock{}

	past := time.Now().Add(-time.Minute)
	if d := c.Since(past); d < time.Minute-time.Second || d > time.Minute+time.Second {
		t.Errorf("Since() = %v, want roughly one minute", d)
	}
	future := time.Now().Add(time.Minute)
	if d := c.Until(future); d < time.Minute-time.Second || d > time.Minute+time.Second {
		t.Errorf("Until() = %v, want roughly one minute", d)
	}
}

func TestMockClock(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var mock Clock = NewMockClock(base)

	if got := mock.Now(); !got.Equal(base) {
		t.Fatalf("Now() = %v, want %v", got, base)
	}
	if d := mock.Since(base.Add(-time.Hour)); d != time.Hour {
		t.Errorf("Since() = %v, want %v", d, time.Hour)
	}
	if d := mock.Until(base.Add(30 * time.Minute)); d != 30*time.Minute {
		t.Errorf("Until() = %v, want %v", d, 30*time.Minute)
	}
}

func TestMockClockAdvanceAndSet(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock := NewMockClock(base)

	mock.Advance(90 * time.Minute)
	if got, want := mock.Now(), base.Add(90*time.Minute); !got.Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", got, want)
	}

	reset := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.Set(reset)
	if got := mock.Now(); !got.Equal(reset) {
		t.Errorf("after Set, Now() = %v, want %v", got, reset)
	}
}
