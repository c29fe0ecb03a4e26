package storage

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestGetOrCreateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, 42, "sunny", "Sunny")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != 42 || user.SunPoints != 0 {
		t.Fatalf("unexpected user: %+v", user)
	}

	again, err := store.GetOrCreateUser(ctx, 42, "sunny", "Sunny")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if again.Username != "sunny" {
		t.Fatalf("expected existing user, got %+v", again)
	}
}

func TestGetOrCreateUserDefaultsName(t *testing.T) {
	store := newTestStore(t)

	user, err := store.GetOrCreateUser(context.Background(), 7, "", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.FirstName != "User" {
		t.Fatalf("expected default first name, got %q", user.FirstName)
	}
}

func TestUserFlags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreateUser(ctx, 1, "a", "A"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	banned, err := store.IsBanned(ctx, 1)
	if err != nil || banned {
		t.Fatalf("expected not banned, got %v err %v", banned, err)
	}
	// Unknown user reads as clean, not as an error.
	if banned, err := store.IsBanned(ctx, 999); err != nil || banned {
		t.Fatalf("expected unknown user not banned, got %v err %v", banned, err)
	}

	if err := store.SetMuted(ctx, 1, true); err != nil {
		t.Fatalf("set muted: %v", err)
	}
	muted, err := store.IsMuted(ctx, 1)
	if err != nil || !muted {
		t.Fatalf("expected muted, got %v err %v", muted, err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, points := range []int{5, 30, 10} {
		id := int64(i + 1)
		if _, err := store.GetOrCreateUser(ctx, id, "", "U"); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if err := store.AddSunPoints(ctx, id, points); err != nil {
			t.Fatalf("add points: %v", err)
		}
	}

	leaders, err := store.Leaderboard(ctx, MetricPoints, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(leaders) != 2 || leaders[0].ID != 2 || leaders[1].ID != 3 {
		t.Fatalf("unexpected ordering: %+v", leaders)
	}
}

func TestAddWarningAutoBan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreateUser(ctx, 1, "", "U"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	issuer := int64(99)
	count, autoBanned, err := store.AddWarning(ctx, 1, "spam links", &issuer, 3)
	if err != nil || count != 1 || autoBanned {
		t.Fatalf("first warning: count=%d auto=%v err=%v", count, autoBanned, err)
	}

	// Mix of admin and system issuers counts toward the same limit.
	count, autoBanned, err = store.AddWarning(ctx, 1, "scam message", SystemIssuer, 3)
	if err != nil || count != 2 || autoBanned {
		t.Fatalf("second warning: count=%d auto=%v err=%v", count, autoBanned, err)
	}

	count, autoBanned, err = store.AddWarning(ctx, 1, "again", &issuer, 3)
	if err != nil || count != 3 || !autoBanned {
		t.Fatalf("third warning: count=%d auto=%v err=%v", count, autoBanned, err)
	}
	banned, err := store.IsBanned(ctx, 1)
	if err != nil || !banned {
		t.Fatalf("expected banned after limit, got %v err %v", banned, err)
	}

	// A fourth warning keeps counting but never re-bans.
	count, autoBanned, err = store.AddWarning(ctx, 1, "still here", &issuer, 3)
	if err != nil || count != 4 || autoBanned {
		t.Fatalf("fourth warning: count=%d auto=%v err=%v", count, autoBanned, err)
	}
}

func TestListWarningsIssuer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreateUser(ctx, 1, "", "U"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, _, err := store.AddWarning(ctx, 1, "auto", SystemIssuer, 0); err != nil {
		t.Fatalf("add warning: %v", err)
	}

	warnings, err := store.ListWarnings(ctx, 1)
	if err != nil {
		t.Fatalf("list warnings: %v", err)
	}
	if len(warnings) != 1 || warnings[0].IssuedBy != nil {
		t.Fatalf("expected one system warning, got %+v", warnings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	value, err := store.GetSetting(ctx, "raid_mode", "false")
	if err != nil || value != "false" {
		t.Fatalf("expected fallback, got %q err %v", value, err)
	}
	if err := store.SetSetting(ctx, "raid_mode", "true"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := store.SetSetting(ctx, "raid_mode", "false"); err != nil {
		t.Fatalf("update setting: %v", err)
	}
	value, err = store.GetSetting(ctx, "raid_mode", "true")
	if err != nil || value != "false" {
		t.Fatalf("expected stored value, got %q err %v", value, err)
	}
}
