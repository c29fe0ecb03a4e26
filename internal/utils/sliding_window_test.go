package utils

import (
	"testing"
	"time"
)

func TestSlidingWindowAdd(t *testing.T) {
	window := NewSlidingWindow(2 * time.Second)
	now := time.Now()
	if count := window.Add(now); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	window.Add(now.Add(500 * time.Millisecond))
	if count := window.Count(now.Add(1 * time.Second)); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := window.Count(now.Add(3 * time.Second)); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestSlidingWindowPrunesStrictlyOlder(t *testing.T) {
	window := NewSlidingWindow(10 * time.Second)
	base := time.Now()
	window.Add(base)
	// Exactly on the boundary still counts; one past it does not.
	if count := window.Count(base.Add(10 * time.Second)); count != 1 {
		t.Fatalf("boundary entry dropped, got %d", count)
	}
	if count := window.Count(base.Add(10*time.Second + time.Millisecond)); count != 0 {
		t.Fatalf("stale entry kept, got %d", count)
	}
}

func TestSlidingWindowLastHit(t *testing.T) {
	window := NewSlidingWindow(time.Second)
	if _, ok := window.LastHit(); ok {
		t.Fatalf("expected empty window")
	}
	now := time.Now()
	window.Add(now)
	last, ok := window.LastHit()
	if !ok || !last.Equal(now) {
		t.Fatalf("expected last hit %v, got %v ok=%v", now, last, ok)
	}
}
