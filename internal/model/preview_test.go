package model

import "testing"

func TestVisibleMetricValuesOrderAndFiltering(t *testing.T) {
	rec := EngagementBadgeRecord{
		LikesGiven:      40,
		RepliesGiven:    12,
		EngagementScore: 230,
		VisibleMetrics:  []MetricKey{MetricEngagementScore, MetricLikesGiven, "mystery"},
	}
	got := VisibleMetricValues(rec)
	if len(got) != 2 {
		t.Fatalf("expected 2 visible metrics, got %v", got)
	}
	if got[0].Key != MetricEngagementScore || got[0].Value != 230 {
		t.Fatalf("first metric: %+v", got[0])
	}
	if got[1].Key != MetricLikesGiven || got[1].Value != 40 {
		t.Fatalf("second metric: %+v", got[1])
	}
}

func TestVisibleMetricValuesEmpty(t *testing.T) {
	if got := VisibleMetricValues(EngagementBadgeRecord{}); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
}
