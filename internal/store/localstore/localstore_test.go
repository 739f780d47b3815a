package localstore

import (
	"context"
	"testing"
	"time"

	"antilurk/internal/model"
)

func TestGetPutRoundTrip(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	_, ok, err := db.Get(ctx, KeyBudgetState)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected miss on empty store")
	}

	if err := db.Put(ctx, KeyBudgetState, "one"); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, KeyBudgetState, "two"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.Get(ctx, KeyBudgetState)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if v != "two" {
		t.Fatalf("overwrite lost: %q", v)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	if err := db.Put(ctx, KeyEngagementStats, "stats"); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, KeyBadgePreferences, "prefs"); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(ctx, KeyEngagementStats); err != nil {
		t.Fatal(err)
	}
	_, ok, _ := db.Get(ctx, KeyEngagementStats)
	if ok {
		t.Fatal("deleted key still present")
	}
	v, ok, _ := db.Get(ctx, KeyBadgePreferences)
	if !ok || v != "prefs" {
		t.Fatalf("sibling key disturbed: ok=%v v=%q", ok, v)
	}
}

func TestSnapshotEnvelopeRevivesTimestamps(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	in := model.EngagementStats{LikesGiven: 3, LastEngagementAt: &at}
	raw, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatal(err)
	}
	var out model.EngagementStats
	if err := DecodeSnapshot(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.LikesGiven != 3 {
		t.Fatalf("counter lost: %+v", out)
	}
	if out.LastEngagementAt == nil || !out.LastEngagementAt.Equal(at) {
		t.Fatalf("timestamp not revived: %+v", out.LastEngagementAt)
	}
}

func TestDecodeSnapshotRejectsUnknownVersion(t *testing.T) {
	var out model.EngagementStats
	err := DecodeSnapshot(`{"v":99,"data":{}}`, &out)
	if err == nil {
		t.Fatal("expected version error")
	}
}
