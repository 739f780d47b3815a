package budget

import (
	"context"
	"testing"

	"antilurk/internal/model"
	"antilurk/internal/store/localstore"
)

func newTestEngine(t *testing.T) (*Engine, *localstore.DB) {
	t.Helper()
	db, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	e, err := NewEngine(context.Background(), db, model.DefaultBudgetSettings())
	if err != nil {
		t.Fatal(err)
	}
	return e, db
}

func TestFreshEngineUsesInitialBudget(t *testing.T) {
	e, _ := newTestEngine(t)
	st := e.State()
	if st.PostsRemaining != 10 {
		t.Fatalf("expected default initial budget 10, got %d", st.PostsRemaining)
	}
	if !e.CanViewMorePosts() {
		t.Fatal("fresh budget should allow viewing")
	}
}

func TestViewPostDrainsAndFloors(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := e.ViewPost(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if st := e.State(); st.PostsRemaining != 0 || st.PostsViewed != 10 {
		t.Fatalf("after 10 views: %+v", st)
	}
	if e.CanViewMorePosts() {
		t.Fatal("exhausted budget should block viewing")
	}
	// 11th view still counts but never goes negative.
	if err := e.ViewPost(ctx); err != nil {
		t.Fatal(err)
	}
	if st := e.State(); st.PostsRemaining != 0 || st.PostsViewed != 11 {
		t.Fatalf("after 11th view: %+v", st)
	}
}

func TestRewardsRefillBudget(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	before := e.State().PostsRemaining
	if err := e.RecordLike(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.State().PostsRemaining; got != before+3 {
		t.Fatalf("like reward: expected %d, got %d", before+3, got)
	}
	if err := e.RecordRepost(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordFollow(ctx); err != nil {
		t.Fatal(err)
	}
	st := e.State()
	if st.PostsRemaining != before+3+5+10 {
		t.Fatalf("stacked rewards: %+v", st)
	}
	if st.LikesGiven != 1 || st.RepostsGiven != 1 || st.FollowsGiven != 1 {
		t.Fatalf("lifetime counters: %+v", st)
	}
}

func TestRewardAppliesRegardlessOfCurrentValue(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_ = e.ViewPost(ctx)
	}
	if e.State().PostsRemaining != 0 {
		t.Fatalf("setup: %+v", e.State())
	}
	if err := e.RecordLike(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.State().PostsRemaining; got != 3 {
		t.Fatalf("expected 3 after like at zero, got %d", got)
	}
}

func TestUpdateSettingsAffectsNextRewardOnly(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	if err := e.RecordLike(ctx); err != nil {
		t.Fatal(err)
	}
	afterFirst := e.State().PostsRemaining

	seven := 7
	if err := e.UpdateSettings(ctx, model.SettingsUpdate{PostsPerLike: &seven}); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordLike(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.State().PostsRemaining; got != afterFirst+7 {
		t.Fatalf("expected new reward 7, got delta %d", got-afterFirst)
	}
}

func TestResetUsesCurrentSettings(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	_ = e.ViewPost(ctx)
	_ = e.RecordLike(ctx)
	_ = e.RecordFollow(ctx)

	twenty := 20
	if err := e.UpdateSettings(ctx, model.SettingsUpdate{InitialBudget: &twenty}); err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	st := e.State()
	if st.PostsViewed != 0 || st.LikesGiven != 0 || st.RepostsGiven != 0 || st.FollowsGiven != 0 {
		t.Fatalf("counters survived reset: %+v", st)
	}
	if st.PostsRemaining != 20 {
		t.Fatalf("reset ignored updated initial budget: %d", st.PostsRemaining)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	db, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()

	e, err := NewEngine(ctx, db, model.DefaultBudgetSettings())
	if err != nil {
		t.Fatal(err)
	}
	_ = e.ViewPost(ctx)
	_ = e.ViewPost(ctx)
	_ = e.RecordRepost(ctx)

	e2, err := NewEngine(ctx, db, model.DefaultBudgetSettings())
	if err != nil {
		t.Fatal(err)
	}
	st := e2.State()
	if st.PostsViewed != 2 || st.RepostsGiven != 1 || st.PostsRemaining != 13 {
		t.Fatalf("reloaded state: %+v", st)
	}
}
