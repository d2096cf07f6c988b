package sessions

import (
	"strings"
	"testing"
	"time"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(WithClock(clock.Now)), clock
}

func TestCreateAssignsPrefixedID(t *testing.T) {
	store, _ := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	if !strings.HasPrefix(sess.ID, IDPrefix) {
		t.Fatalf("session id %q missing prefix %q", sess.ID, IDPrefix)
	}
	if sess.UserID != 1 || sess.OrganizationID != 100048 {
		t.Fatalf("unexpected identity: user=%d org=%d", sess.UserID, sess.OrganizationID)
	}
	if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != DefaultTTL {
		t.Fatalf("expected ttl %v, got %v", DefaultTTL, got)
	}

	other := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	if other.ID == sess.ID {
		t.Fatalf("expected unique ids, got %q twice", sess.ID)
	}
}

func TestGetRoundTripAndDelete(t *testing.T) {
	store, _ := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("expected session to be present")
	}
	if got.UserID != 1 || got.OrganizationID != 100048 {
		t.Fatalf("unexpected identity: user=%d org=%d", got.UserID, got.OrganizationID)
	}

	if !store.Delete(sess.ID) {
		t.Fatal("expected delete of existing session to report true")
	}
	if store.Delete(sess.ID) {
		t.Fatal("expected second delete to report false")
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("expected deleted session to be absent")
	}
}

func TestGetBumpsActivity(t *testing.T) {
	store, clock := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	created := sess.LastActivityAt

	clock.Advance(10 * time.Minute)
	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("expected session to be present")
	}
	if !got.LastActivityAt.After(created) {
		t.Fatalf("expected activity bump past %v, got %v", created, got.LastActivityAt)
	}
}

func TestGetExpiresLazily(t *testing.T) {
	store, clock := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})

	// Exactly at expiry counts as expired.
	clock.Advance(DefaultTTL)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("expected session to be expired at the ttl boundary")
	}

	// The expired entry was reclaimed, not just hidden.
	if stats := store.Stats(); stats.Total != 0 {
		t.Fatalf("expected lazy expiry to remove the entry, total=%d", stats.Total)
	}
}

func TestExtend(t *testing.T) {
	store, clock := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	if !store.Extend(sess.ID, 2) {
		t.Fatal("expected extend of live session to report true")
	}

	// Survives past the original ttl thanks to the extension.
	clock.Advance(DefaultTTL + time.Hour)
	if _, ok := store.Get(sess.ID); !ok {
		t.Fatal("expected extended session to still be live")
	}

	if store.Extend("mcp_missing", 1) {
		t.Fatal("expected extend of unknown session to report false")
	}

	clock.Advance(2 * time.Hour)
	if store.Extend(sess.ID, 1) {
		t.Fatal("expected extend of expired session to report false")
	}
}

func TestSweep(t *testing.T) {
	store, clock := newTestStore(t)

	store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	store.Create(111, 100048, "tok", mcp.ClientCapabilities{})
	clock.Advance(DefaultTTL / 2)
	live := store.Create(112, 100049, "tok", mcp.ClientCapabilities{})

	clock.Advance(DefaultTTL/2 + time.Minute)
	if removed := store.Sweep(); removed != 2 {
		t.Fatalf("expected sweep to remove 2, got %d", removed)
	}
	if removed := store.Sweep(); removed != 0 {
		t.Fatalf("expected second sweep to remove 0, got %d", removed)
	}
	if _, ok := store.Get(live.ID); !ok {
		t.Fatal("expected unexpired session to survive the sweep")
	}
}

func TestStats(t *testing.T) {
	store, clock := newTestStore(t)

	store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	clock.Advance(DefaultTTL / 2)
	store.Create(111, 100048, "tok", mcp.ClientCapabilities{})
	store.Create(112, 100049, "tok", mcp.ClientCapabilities{})

	clock.Advance(DefaultTTL / 2)
	stats := store.Stats()
	if stats.Total != 3 || stats.Active != 2 || stats.Expired != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByOrganization[100048] != 1 || stats.ByOrganization[100049] != 1 {
		t.Fatalf("unexpected org counts: %+v", stats.ByOrganization)
	}
}

func TestListFiltersExpired(t *testing.T) {
	store, clock := newTestStore(t)

	store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	clock.Advance(DefaultTTL / 2)
	fresh := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})

	clock.Advance(DefaultTTL / 2)
	byUser := store.ListByUser(1)
	if len(byUser) != 1 || byUser[0].ID != fresh.ID {
		t.Fatalf("expected only the fresh session, got %d entries", len(byUser))
	}

	// Listing must not mutate: the stale entry is still counted until a
	// sweep or a direct Get reclaims it.
	if stats := store.Stats(); stats.Total != 2 {
		t.Fatalf("expected list to leave the store untouched, total=%d", stats.Total)
	}

	if got := store.ListByOrganization(100049); len(got) != 0 {
		t.Fatalf("expected no sessions for other org, got %d", len(got))
	}
}

func TestTouch(t *testing.T) {
	store, clock := newTestStore(t)

	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	if !store.Touch(sess.ID) {
		t.Fatal("expected touch of live session to report true")
	}
	if store.Touch("mcp_missing") {
		t.Fatal("expected touch of unknown session to report false")
	}

	clock.Advance(DefaultTTL)
	if store.Touch(sess.ID) {
		t.Fatal("expected touch of expired session to report false")
	}
}
