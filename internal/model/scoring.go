package model

// Weights for the engagement score. Heavier actions count more; streak days
// dominate so sustained daily activity outranks burst scrolling.
const (
	weightPostsViewed  = 1
	weightLikesGiven   = 2
	weightRepostsGiven = 3
	weightRepliesGiven = 5
	weightFollowsGiven = 10
	weightStreakDays   = 20
)

// EngagementScore computes the weighted engagement score for a stats
// snapshot. Pure and deterministic; the stored EngagementScore field on the
// input is ignored.
func EngagementScore(s EngagementStats) int {
	return s.PostsViewed*weightPostsViewed +
		s.LikesGiven*weightLikesGiven +
		s.RepostsGiven*weightRepostsGiven +
		s.RepliesGiven*weightRepliesGiven +
		s.FollowsGiven*weightFollowsGiven +
		s.StreakDays*weightStreakDays
}

// TierForScore maps a score to its badge tier. Thresholds are inclusive at
// the lower bound: 5000 is diamond, 4999 is platinum.
func TierForScore(score int) BadgeTier {
	switch {
	case score >= 5000:
		return TierDiamond
	case score >= 2000:
		return TierPlatinum
	case score >= 500:
		return TierGold
	case score >= 100:
		return TierSilver
	default:
		return TierBronze
	}
}

// TierLabel returns the self-label value for a tier, e.g. "engagement-gold".
func TierLabel(tier BadgeTier) string {
	return "engagement-" + string(tier)
}

// AchievementLabels derives the achievement labels earned by a stats
// snapshot. The predicates are independent and non-exclusive; output order
// follows declaration order here and must stay stable for display.
// EngagementScore is recomputed from the counters, so callers need not
// pre-fill it.
func AchievementLabels(s EngagementStats) []EngagementLabel {
	score := EngagementScore(s)
	var labels []EngagementLabel
	if s.StreakDays >= 30 {
		labels = append(labels, EngagementLabel{Value: "streak-champion", Description: "30+ day streak"})
	}
	if s.RepliesGiven >= 100 {
		labels = append(labels, EngagementLabel{Value: "reply-master", Description: "100+ replies"})
	}
	if s.LikesGiven >= 500 {
		labels = append(labels, EngagementLabel{Value: "generous-liker", Description: "500+ likes"})
	}
	if s.RepostsGiven >= 100 {
		labels = append(labels, EngagementLabel{Value: "repost-king", Description: "100+ reposts"})
	}
	if s.FollowsGiven >= 50 {
		labels = append(labels, EngagementLabel{Value: "network-connector", Description: "50+ follows"})
	}
	if score >= 1000 {
		labels = append(labels, EngagementLabel{Value: "super-engager", Description: "Highly active participant"})
	}
	if s.RepliesGiven > s.LikesGiven {
		labels = append(labels, EngagementLabel{Value: "conversation-starter", Description: "Prefers meaningful discussions"})
	}
	return labels
}
