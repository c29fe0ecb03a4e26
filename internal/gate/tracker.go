package gate

import (
	"sync"
	"time"

	"sune-guardian/internal/utils"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Tracker keeps one sliding window of message timestamps per user and
// answers whether the sender just went over the spam threshold.
type Tracker struct {
	mu        sync.Mutex
	windows   map[int64]*utils.SlidingWindow
	window    time.Duration
	threshold int
	clock     Clock
}

func NewTracker(threshold int, window time.Duration) *Tracker {
	return &Tracker{
		windows:   make(map[int64]*utils.SlidingWindow),
		window:    window,
		threshold: threshold,
		clock:     realClock{},
	}
}

func (t *Tracker) WithClock(clock Clock) {
	t.clock = clock
}

func (t *Tracker) RecordAndCheck(userID int64) (over bool, count int) {
	count = t.getWindow(userID).Add(t.clock.Now())
	return count > t.threshold, count
}

// Sweep drops windows whose last message is older than ttl so the map does
// not grow with every user ever seen. Returns the number evicted.
func (t *Tracker) Sweep(ttl time.Duration) int {
	now := t.clock.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for userID, window := range t.windows {
		last, ok := window.LastHit()
		if !ok || now.Sub(last) > ttl {
			delete(t.windows, userID)
			evicted++
		}
	}
	return evicted
}

func (t *Tracker) getWindow(userID int64) *utils.SlidingWindow {
	t.mu.Lock()
	defer t.mu.Unlock()
	window := t.windows[userID]
	if window == nil {
		window = utils.NewSlidingWindow(t.window)
		t.windows[userID] = window
	}
	return window
}
