package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PostsViewed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antilurk_posts_viewed_total",
		Help: "Total feed items viewed against the budget",
	})
	BudgetExhausted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antilurk_budget_exhausted_total",
		Help: "Total views attempted with an empty budget",
	})
	BudgetRewards = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antilurk_budget_rewards_total",
		Help: "Total budget rewards granted by action",
	}, []string{"action"})
	BadgePublishes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antilurk_badge_publishes_total",
		Help: "Total successful badge publishes",
	})
	BadgePublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antilurk_badge_publish_errors_total",
		Help: "Total failed badge publishes",
	})
	BadgeFetches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "antilurk_badge_fetches_total",
		Help: "Total badge fetches",
	})
	PublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "antilurk_badge_publish_duration_seconds",
		Help:    "Badge publish round-trip duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antilurk_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antilurk_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antilurk_api_retries_total",
		Help: "Total PDS API retry attempts",
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(
		PostsViewed, BudgetExhausted, BudgetRewards,
		BadgePublishes, BadgePublishErrors, BadgeFetches, PublishDuration,
		CommandRuns, CommandErrors, APIRetries,
	)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObservePublishDuration records a publish round-trip duration.
func ObservePublishDuration(start time.Time) {
	PublishDuration.Observe(time.Since(start).Seconds())
}

// IncBudgetReward increments the reward counter for an action type.
func IncBudgetReward(action string) { BudgetRewards.WithLabelValues(action).Inc() }

// IncCommandRun increments the invocation counter for a CLI command.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError increments the failure counter for a CLI command.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }
