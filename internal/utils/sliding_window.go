package utils

import (
	"sync"
	"time"
)

// SlidingWindow counts events inside a trailing window. Entries strictly
// older than the window are pruned on every call; an entry exactly on the
// boundary still counts.
type SlidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	hits   []time.Time
}

func NewSlidingWindow(window time.Duration) *SlidingWindow {
	return &SlidingWindow{window: window}
}

func (w *SlidingWindow) Add(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now)
	w.hits = append(w.hits, now)
	return len(w.hits)
}

func (w *SlidingWindow) Count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(now)
	return len(w.hits)
}

// LastHit reports the most recent entry, used to evict idle windows.
func (w *SlidingWindow) LastHit() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.hits) == 0 {
		return time.Time{}, false
	}
	return w.hits[len(w.hits)-1], true
}

func (w *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	idx := 0
	for _, hit := range w.hits {
		if !hit.Before(cutoff) {
			break
		}
		idx++
	}
	w.hits = w.hits[idx:]
}
