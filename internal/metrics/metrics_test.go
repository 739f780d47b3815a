package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	PostsViewed.Inc()
	BudgetExhausted.Inc()
	IncBudgetReward("like")
	BadgePublishes.Inc()
	BadgePublishErrors.Inc()
	BadgeFetches.Inc()
	IncCommandRun("status")
	IncCommandError("status")
	IncAPIRetry("/xrpc/com.atproto.repo.putRecord")
	ObservePublishDuration(time.Now().Add(-250 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"antilurk_posts_viewed_total",
		"antilurk_budget_exhausted_total",
		"antilurk_budget_rewards_total",
		"antilurk_badge_publishes_total",
		"antilurk_badge_publish_errors_total",
		"antilurk_badge_fetches_total",
		"antilurk_badge_publish_duration_seconds",
		"antilurk_command_runs_total",
		"antilurk_command_errors_total",
		"antilurk_api_retries_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}
