package session

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := New(ttl)
	store.WithClock(clock)
	return store, clock
}

func TestProofRoundTrip(t *testing.T) {
	store, _ := newTestStore(5 * time.Minute)

	if _, ok := store.TakeProof(1); ok {
		t.Fatalf("expected nothing armed")
	}
	store.AwaitProof(1, 42)
	raidID, ok := store.TakeProof(1)
	if !ok || raidID != 42 {
		t.Fatalf("expected raid 42, got %d ok=%v", raidID, ok)
	}
	// Take disarms.
	if _, ok := store.TakeProof(1); ok {
		t.Fatalf("expected disarmed after take")
	}
}

func TestProofExpires(t *testing.T) {
	store, clock := newTestStore(5 * time.Minute)

	store.AwaitProof(1, 42)
	clock.now = clock.now.Add(6 * time.Minute)
	if _, ok := store.TakeProof(1); ok {
		t.Fatalf("expected expired proof state")
	}
}

func TestTriviaExpires(t *testing.T) {
	store, clock := newTestStore(time.Minute)

	store.SetTrivia(1, 2)
	index, ok := store.TakeTrivia(1)
	if !ok || index != 2 {
		t.Fatalf("expected answer 2, got %d ok=%v", index, ok)
	}

	store.SetTrivia(1, 1)
	clock.now = clock.now.Add(2 * time.Minute)
	if _, ok := store.TakeTrivia(1); ok {
		t.Fatalf("expected expired trivia state")
	}
}

func TestSpinTimestamps(t *testing.T) {
	store, clock := newTestStore(time.Minute)

	if _, ok := store.LastSpin(1); ok {
		t.Fatalf("expected no spin yet")
	}
	store.MarkSpin(1)
	last, ok := store.LastSpin(1)
	if !ok || !last.Equal(clock.now) {
		t.Fatalf("unexpected last spin: %v ok=%v", last, ok)
	}
}

func TestSweep(t *testing.T) {
	store, clock := newTestStore(time.Minute)

	store.MarkSpin(1)
	clock.now = clock.now.Add(2 * time.Hour)
	store.MarkSpin(2)

	if evicted := store.Sweep(time.Hour); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if _, ok := store.LastSpin(2); !ok {
		t.Fatalf("active entry evicted")
	}
}
