package model

// MetricValue pairs a metric key with its value for display.
type MetricValue struct {
	Key   MetricKey
	Value int
}

// RecordMetricValue returns the value of a metric in a badge record. The
// second result is false for unknown keys.
func RecordMetricValue(rec EngagementBadgeRecord, k MetricKey) (int, bool) {
	switch k {
	case MetricPostsViewed:
		return rec.PostsViewed, true
	case MetricLikesGiven:
		return rec.LikesGiven, true
	case MetricRepostsGiven:
		return rec.RepostsGiven, true
	case MetricRepliesGiven:
		return rec.RepliesGiven, true
	case MetricFollowsGiven:
		return rec.FollowsGiven, true
	case MetricEngagementScore:
		return rec.EngagementScore, true
	case MetricStreakDays:
		return rec.StreakDays, true
	}
	return 0, false
}

// VisibleMetricValues returns the metrics a record chose to expose, in the
// record's declared order, skipping anything unknown. Used when rendering
// another user's badge.
func VisibleMetricValues(rec EngagementBadgeRecord) []MetricValue {
	var out []MetricValue
	for _, k := range rec.VisibleMetrics {
		if v, ok := RecordMetricValue(rec, k); ok {
			out = append(out, MetricValue{Key: k, Value: v})
		}
	}
	return out
}
