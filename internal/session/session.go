package session

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type entry struct {
	proofRaid int64
	proofAt   time.Time
	hasProof  bool

	trivia   int
	triviaAt time.Time
	hasEntry bool

	lastSpin time.Time
	hasSpin  bool
}

// Store holds short-lived per-user correlation state: which raid a proof
// submission belongs to, the pending trivia answer, and the last spin time.
// Armed state expires after ttl; handlers treat expiry as "no longer valid".
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[int64]*entry
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		clock:   realClock{},
		entries: make(map[int64]*entry),
	}
}

func (s *Store) WithClock(clock Clock) {
	s.clock = clock
}

func (s *Store) AwaitProof(userID, raidID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.get(userID)
	item.proofRaid = raidID
	item.proofAt = s.clock.Now()
	item.hasProof = true
}

// TakeProof disarms and returns the awaited raid, or reports false when
// nothing is armed or the armed state has expired.
func (s *Store) TakeProof(userID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.entries[userID]
	if item == nil || !item.hasProof {
		return 0, false
	}
	item.hasProof = false
	if s.expired(item.proofAt) {
		return 0, false
	}
	return item.proofRaid, true
}

func (s *Store) SetTrivia(userID int64, correctIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.get(userID)
	item.trivia = correctIndex
	item.triviaAt = s.clock.Now()
	item.hasEntry = true
}

func (s *Store) TakeTrivia(userID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.entries[userID]
	if item == nil || !item.hasEntry {
		return 0, false
	}
	item.hasEntry = false
	if s.expired(item.triviaAt) {
		return 0, false
	}
	return item.trivia, true
}

func (s *Store) LastSpin(userID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.entries[userID]
	if item == nil || !item.hasSpin {
		return time.Time{}, false
	}
	return item.lastSpin, true
}

func (s *Store) MarkSpin(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.get(userID)
	item.lastSpin = s.clock.Now()
	item.hasSpin = true
}

// Sweep drops entries with no armed state and no activity inside maxIdle.
func (s *Store) Sweep(maxIdle time.Duration) int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, item := range s.entries {
		latest := item.lastSpin
		if item.proofAt.After(latest) {
			latest = item.proofAt
		}
		if item.triviaAt.After(latest) {
			latest = item.triviaAt
		}
		if now.Sub(latest) > maxIdle {
			delete(s.entries, userID)
			evicted++
		}
	}
	return evicted
}

func (s *Store) get(userID int64) *entry {
	item := s.entries[userID]
	if item == nil {
		item = &entry{}
		s.entries[userID] = item
	}
	return item
}

func (s *Store) expired(armedAt time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.clock.Now().Sub(armedAt) > s.ttl
}
