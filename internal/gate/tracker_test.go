package gate

import (
	"testing"
	"time"
)

func TestTrackerThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tracker := NewTracker(2, 10*time.Second)
	tracker.WithClock(clock)

	if over, count := tracker.RecordAndCheck(1); over || count != 1 {
		t.Fatalf("unexpected: over=%v count=%d", over, count)
	}
	if over, _ := tracker.RecordAndCheck(1); over {
		t.Fatalf("over at threshold")
	}
	if over, count := tracker.RecordAndCheck(1); !over || count != 3 {
		t.Fatalf("expected over at threshold+1, got over=%v count=%d", over, count)
	}
}

func TestTrackerUsersAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tracker := NewTracker(1, 10*time.Second)
	tracker.WithClock(clock)

	tracker.RecordAndCheck(1)
	if over, _ := tracker.RecordAndCheck(2); over {
		t.Fatalf("user 2 inherited user 1 history")
	}
}

func TestTrackerSweepEvictsIdleUsers(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tracker := NewTracker(5, 10*time.Second)
	tracker.WithClock(clock)

	tracker.RecordAndCheck(1)
	clock.Advance(time.Minute)
	tracker.RecordAndCheck(2)

	if evicted := tracker.Sweep(30 * time.Second); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if evicted := tracker.Sweep(30 * time.Second); evicted != 0 {
		t.Fatalf("expected no further evictions, got %d", evicted)
	}
}
