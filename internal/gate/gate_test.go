package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"sune-guardian/internal/storage"

	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeDirectory struct {
	admin    bool
	banned   bool
	muted    bool
	warnings int
	flagErr  error
}

func (d *fakeDirectory) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return d.admin, d.flagErr
}

func (d *fakeDirectory) IsBanned(ctx context.Context, userID int64) (bool, error) {
	return d.banned, d.flagErr
}

func (d *fakeDirectory) IsMuted(ctx context.Context, userID int64) (bool, error) {
	return d.muted, d.flagErr
}

func (d *fakeDirectory) SetMuted(ctx context.Context, userID int64, muted bool) error {
	d.muted = muted
	return nil
}

func (d *fakeDirectory) AddWarning(ctx context.Context, userID int64, reason string, issuedBy *int64, maxWarnings int) (int, bool, error) {
	d.warnings++
	auto := maxWarnings > 0 && d.warnings == maxWarnings
	if auto {
		d.banned = true
	}
	return d.warnings, auto, nil
}

func newTestGate(dir Directory) (*Gate, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tracker := NewTracker(5, 10*time.Second)
	tracker.WithClock(clock)
	return New(tracker, NewFilter(), dir, zap.NewNop(), 3), clock
}

func TestGateMutesOnBurst(t *testing.T) {
	dir := &fakeDirectory{}
	g, clock := newTestGate(dir)
	ctx := context.Background()

	// Six messages at t=0,1,2,3,4,5s inside a 10s window with threshold 5.
	for i := 0; i < 5; i++ {
		verdict := g.Evaluate(ctx, 1, "hello")
		if verdict.Action != Allow {
			t.Fatalf("message %d: expected Allow, got %v", i+1, verdict.Action)
		}
		clock.Advance(time.Second)
	}
	verdict := g.Evaluate(ctx, 1, "hello")
	if verdict.Action != MuteSpam {
		t.Fatalf("expected MuteSpam on message 6, got %v", verdict.Action)
	}
	if verdict.MessageCount != 6 {
		t.Fatalf("expected count 6, got %d", verdict.MessageCount)
	}
	if !dir.muted {
		t.Fatalf("mute flag not persisted")
	}
}

func TestGateSpacedMessagesNeverMute(t *testing.T) {
	dir := &fakeDirectory{}
	g, clock := newTestGate(dir)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		verdict := g.Evaluate(ctx, 1, "hello")
		if verdict.Action != Allow {
			t.Fatalf("message %d: expected Allow, got %v", i+1, verdict.Action)
		}
		clock.Advance(11 * time.Second)
	}
	if dir.muted {
		t.Fatalf("spaced messages muted the user")
	}
}

func TestGateScamPhraseWarns(t *testing.T) {
	dir := &fakeDirectory{}
	g, _ := newTestGate(dir)

	verdict := g.Evaluate(context.Background(), 1, "Get your FREE TOKENS now!!")
	if verdict.Action != DeleteScam {
		t.Fatalf("expected DeleteScam, got %v", verdict.Action)
	}
	if verdict.WarningCount != 1 || dir.warnings != 1 {
		t.Fatalf("expected exactly one warning, got verdict=%d stored=%d", verdict.WarningCount, dir.warnings)
	}
}

func TestGateScamAutoBan(t *testing.T) {
	dir := &fakeDirectory{warnings: 2}
	g, _ := newTestGate(dir)

	verdict := g.Evaluate(context.Background(), 1, "claim your reward")
	if verdict.Action != DeleteScam || !verdict.AutoBanned {
		t.Fatalf("expected auto-ban on third warning, got %+v", verdict)
	}
}

func TestGateAdminExemptFromSpamAndMute(t *testing.T) {
	dir := &fakeDirectory{admin: true, muted: true}
	g, _ := newTestGate(dir)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		verdict := g.Evaluate(ctx, 1, "free tokens for everyone")
		if verdict.Action != Allow {
			t.Fatalf("admin message %d blocked: %v", i+1, verdict.Action)
		}
	}
	if dir.warnings != 0 {
		t.Fatalf("admin was warned %d times", dir.warnings)
	}
}

func TestGateBannedAdminStillRemoved(t *testing.T) {
	dir := &fakeDirectory{admin: true, banned: true}
	g, _ := newTestGate(dir)

	verdict := g.Evaluate(context.Background(), 1, "hello")
	if verdict.Action != DeleteBanned {
		t.Fatalf("expected DeleteBanned for banned admin, got %v", verdict.Action)
	}
}

func TestGateMutedUserDeleted(t *testing.T) {
	dir := &fakeDirectory{muted: true}
	g, _ := newTestGate(dir)

	verdict := g.Evaluate(context.Background(), 1, "hello")
	if verdict.Action != DeleteMuted {
		t.Fatalf("expected DeleteMuted, got %v", verdict.Action)
	}
}

func TestGateDirectoryErrorFailsOpen(t *testing.T) {
	dir := &fakeDirectory{banned: true, muted: true, flagErr: errors.New("store down")}
	g, _ := newTestGate(dir)

	verdict := g.Evaluate(context.Background(), 1, "hello")
	if verdict.Action != Allow {
		t.Fatalf("expected Allow on directory failure, got %v", verdict.Action)
	}
}

func TestGateAgainstStore(t *testing.T) {
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	if _, err := store.GetOrCreateUser(ctx, 1, "", "U"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	g, _ := newTestGate(store)

	verdict := g.Evaluate(ctx, 1, "metamask support is here")
	if verdict.Action != DeleteScam || verdict.WarningCount != 1 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}

	warnings, err := store.ListWarnings(ctx, 1)
	if err != nil || len(warnings) != 1 {
		t.Fatalf("warnings: %v err %v", warnings, err)
	}
	if warnings[0].IssuedBy != nil {
		t.Fatalf("scam warning should be system-issued, got %v", *warnings[0].IssuedBy)
	}
}
