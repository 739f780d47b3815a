package model

import "testing"

func TestEngagementScoreWeights(t *testing.T) {
	s := EngagementStats{
		PostsViewed:  1,
		LikesGiven:   1,
		RepostsGiven: 1,
		RepliesGiven: 1,
		FollowsGiven: 1,
		StreakDays:   1,
	}
	if got := EngagementScore(s); got != 41 {
		t.Fatalf("expected 41 for unit counters, got %d", got)
	}
	if got := EngagementScore(EngagementStats{}); got != 0 {
		t.Fatalf("expected 0 for zero stats, got %d", got)
	}
	// Stored score field must not feed back into the computation.
	s.EngagementScore = 9999
	if got := EngagementScore(s); got != 41 {
		t.Fatalf("stored score leaked into computation: %d", got)
	}
}

func TestEngagementScoreMonotonic(t *testing.T) {
	base := EngagementStats{PostsViewed: 3, LikesGiven: 7, RepostsGiven: 2, RepliesGiven: 4, FollowsGiven: 1, StreakDays: 5}
	baseScore := EngagementScore(base)
	bumps := []EngagementStats{
		{PostsViewed: base.PostsViewed + 1, LikesGiven: base.LikesGiven, RepostsGiven: base.RepostsGiven, RepliesGiven: base.RepliesGiven, FollowsGiven: base.FollowsGiven, StreakDays: base.StreakDays},
		{PostsViewed: base.PostsViewed, LikesGiven: base.LikesGiven + 1, RepostsGiven: base.RepostsGiven, RepliesGiven: base.RepliesGiven, FollowsGiven: base.FollowsGiven, StreakDays: base.StreakDays},
		{PostsViewed: base.PostsViewed, LikesGiven: base.LikesGiven, RepostsGiven: base.RepostsGiven + 1, RepliesGiven: base.RepliesGiven, FollowsGiven: base.FollowsGiven, StreakDays: base.StreakDays},
		{PostsViewed: base.PostsViewed, LikesGiven: base.LikesGiven, RepostsGiven: base.RepostsGiven, RepliesGiven: base.RepliesGiven + 1, FollowsGiven: base.FollowsGiven, StreakDays: base.StreakDays},
		{PostsViewed: base.PostsViewed, LikesGiven: base.LikesGiven, RepostsGiven: base.RepostsGiven, RepliesGiven: base.RepliesGiven, FollowsGiven: base.FollowsGiven + 1, StreakDays: base.StreakDays},
		{PostsViewed: base.PostsViewed, LikesGiven: base.LikesGiven, RepostsGiven: base.RepostsGiven, RepliesGiven: base.RepliesGiven, FollowsGiven: base.FollowsGiven, StreakDays: base.StreakDays + 1},
	}
	for i, b := range bumps {
		if EngagementScore(b) <= baseScore {
			t.Fatalf("bump %d did not increase score", i)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  BadgeTier
	}{
		{0, TierBronze},
		{99, TierBronze},
		{100, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{1999, TierGold},
		{2000, TierPlatinum},
		{4999, TierPlatinum},
		{5000, TierDiamond},
		{100000, TierDiamond},
	}
	for _, c := range cases {
		if got := TierForScore(c.score); got != c.want {
			t.Fatalf("score %d: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestTierLabel(t *testing.T) {
	if got := TierLabel(TierGold); got != "engagement-gold" {
		t.Fatalf("unexpected tier label %q", got)
	}
}

func TestAchievementLabelsOrderAndSelection(t *testing.T) {
	// repliesGiven 150 and likesGiven 10 gives score 150*5+10*2 = 770,
	// clearing the super-engager bar only after postsViewed padding.
	s := EngagementStats{RepliesGiven: 150, LikesGiven: 10, PostsViewed: 300}
	if score := EngagementScore(s); score < 1000 {
		t.Fatalf("fixture score %d below super-engager bar", score)
	}
	labels := AchievementLabels(s)
	want := []string{"reply-master", "super-engager", "conversation-starter"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %d: %v", len(want), len(labels), labels)
	}
	for i, w := range want {
		if labels[i].Value != w {
			t.Fatalf("label %d: expected %s, got %s", i, w, labels[i].Value)
		}
	}
	for _, l := range labels {
		switch l.Value {
		case "streak-champion", "generous-liker", "repost-king", "network-connector":
			t.Fatalf("unexpected label %s", l.Value)
		}
	}
}

func TestAchievementLabelsEmpty(t *testing.T) {
	if labels := AchievementLabels(EngagementStats{}); len(labels) != 0 {
		t.Fatalf("expected no labels for zero stats, got %v", labels)
	}
}

func TestAchievementLabelsAll(t *testing.T) {
	s := EngagementStats{
		StreakDays:   30,
		RepliesGiven: 600,
		LikesGiven:   500,
		RepostsGiven: 100,
		FollowsGiven: 50,
	}
	labels := AchievementLabels(s)
	want := []string{
		"streak-champion", "reply-master", "generous-liker",
		"repost-king", "network-connector", "super-engager", "conversation-starter",
	}
	if len(labels) != len(want) {
		t.Fatalf("expected all %d labels, got %d", len(want), len(labels))
	}
	for i, w := range want {
		if labels[i].Value != w {
			t.Fatalf("label %d: expected %s, got %s", i, w, labels[i].Value)
		}
	}
}

func TestValidMetricKey(t *testing.T) {
	if !ValidMetricKey(MetricLikesGiven) {
		t.Fatal("likesGiven should be a valid metric")
	}
	if ValidMetricKey(MetricKey("bogus")) {
		t.Fatal("bogus metric accepted")
	}
}
