package model

import "time"

// BadgeTier is the achievement bucket derived from the engagement score.
type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
	TierDiamond  BadgeTier = "diamond"
)

// Visibility controls who may see a published badge.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

// BadgeStyle selects how a badge renders.
type BadgeStyle string

const (
	StyleCompact  BadgeStyle = "compact"
	StyleDetailed BadgeStyle = "detailed"
	StyleMinimal  BadgeStyle = "minimal"
)

// MetricKey names a stats field that may appear in visibleMetrics.
type MetricKey string

const (
	MetricPostsViewed     MetricKey = "postsViewed"
	MetricLikesGiven      MetricKey = "likesGiven"
	MetricRepostsGiven    MetricKey = "repostsGiven"
	MetricRepliesGiven    MetricKey = "repliesGiven"
	MetricFollowsGiven    MetricKey = "followsGiven"
	MetricEngagementScore MetricKey = "engagementScore"
	MetricStreakDays      MetricKey = "streakDays"
)

// ValidMetricKey reports whether k names a defined metric.
func ValidMetricKey(k MetricKey) bool {
	switch k {
	case MetricPostsViewed, MetricLikesGiven, MetricRepostsGiven,
		MetricRepliesGiven, MetricFollowsGiven, MetricEngagementScore, MetricStreakDays:
		return true
	}
	return false
}

// StatKey names a counter that IncrementStat may bump. The derived fields
// (engagementScore, lastEngagementAt, streakDays) are excluded.
type StatKey string

const (
	StatPostsViewed  StatKey = "postsViewed"
	StatLikesGiven   StatKey = "likesGiven"
	StatRepostsGiven StatKey = "repostsGiven"
	StatRepliesGiven StatKey = "repliesGiven"
	StatFollowsGiven StatKey = "followsGiven"
)

// EngagementStats holds the lifetime interaction counters for the local user.
// EngagementScore is always derived from the other fields, never hand-edited.
type EngagementStats struct {
	PostsViewed      int        `json:"postsViewed"`
	LikesGiven       int        `json:"likesGiven"`
	RepostsGiven     int        `json:"repostsGiven"`
	RepliesGiven     int        `json:"repliesGiven"`
	FollowsGiven     int        `json:"followsGiven"`
	EngagementScore  int        `json:"engagementScore"`
	StreakDays       int        `json:"streakDays"`
	LastEngagementAt *time.Time `json:"lastEngagementAt,omitempty"`
}

// StatsUpdate is a partial update merged into EngagementStats. Nil fields
// are left unchanged.
type StatsUpdate struct {
	PostsViewed  *int `json:"postsViewed,omitempty"`
	LikesGiven   *int `json:"likesGiven,omitempty"`
	RepostsGiven *int `json:"repostsGiven,omitempty"`
	RepliesGiven *int `json:"repliesGiven,omitempty"`
	FollowsGiven *int `json:"followsGiven,omitempty"`
	StreakDays   *int `json:"streakDays,omitempty"`
}

// BadgePreferences is the user-owned badge configuration.
type BadgePreferences struct {
	Visibility     Visibility  `json:"visibility"`
	VisibleMetrics []MetricKey `json:"visibleMetrics"`
	BadgeStyle     BadgeStyle  `json:"badgeStyle"`
	AutoPublish    bool        `json:"autoPublish"`
}

// PreferencesUpdate is a partial update merged into BadgePreferences.
type PreferencesUpdate struct {
	Visibility     *Visibility  `json:"visibility,omitempty"`
	VisibleMetrics *[]MetricKey `json:"visibleMetrics,omitempty"`
	BadgeStyle     *BadgeStyle  `json:"badgeStyle,omitempty"`
	AutoPublish    *bool        `json:"autoPublish,omitempty"`
}

// DefaultPreferences returns the out-of-box badge preferences.
func DefaultPreferences() BadgePreferences {
	return BadgePreferences{
		Visibility:     VisibilityPrivate,
		VisibleMetrics: []MetricKey{MetricLikesGiven, MetricRepliesGiven, MetricEngagementScore},
		BadgeStyle:     StyleCompact,
		AutoPublish:    false,
	}
}

// BadgeRecordType identifies the badge record collection on the wire.
const BadgeRecordType = "social.antiLurk.engagementBadge"

// EngagementBadgeRecord is the externally publishable badge snapshot. One
// record per owner; each publish is a full overwrite of the well-known slot.
type EngagementBadgeRecord struct {
	Type             string      `json:"$type"`
	PostsViewed      int         `json:"postsViewed"`
	LikesGiven       int         `json:"likesGiven"`
	RepostsGiven     int         `json:"repostsGiven"`
	RepliesGiven     int         `json:"repliesGiven"`
	FollowsGiven     int         `json:"followsGiven"`
	EngagementScore  int         `json:"engagementScore"`
	StreakDays       int         `json:"streakDays"`
	LastEngagementAt string      `json:"lastEngagementAt,omitempty"`
	Visibility       Visibility  `json:"visibility"`
	VisibleMetrics   []MetricKey `json:"visibleMetrics,omitempty"`
	BadgeStyle       BadgeStyle  `json:"badgeStyle,omitempty"`
	Tier             BadgeTier   `json:"tier,omitempty"`
	CreatedAt        string      `json:"createdAt"`
	UpdatedAt        string      `json:"updatedAt"`
}

// BudgetSettings is the user-owned budget configuration. The *Required
// fields are kept for config compatibility; no reward path reads them —
// rewards come from the PostsPer* fields only.
type BudgetSettings struct {
	LikesRequired   int `json:"likesRequired" yaml:"likesRequired"`
	RepostsRequired int `json:"repostsRequired" yaml:"repostsRequired"`
	FollowsRequired int `json:"followsRequired" yaml:"followsRequired"`
	InitialBudget   int `json:"initialBudget" yaml:"initialBudget"`
	PostsPerLike    int `json:"postsPerLike" yaml:"postsPerLike"`
	PostsPerRepost  int `json:"postsPerRepost" yaml:"postsPerRepost"`
	PostsPerFollow  int `json:"postsPerFollow" yaml:"postsPerFollow"`
}

// SettingsUpdate is a partial update merged into BudgetSettings.
type SettingsUpdate struct {
	LikesRequired   *int `json:"likesRequired,omitempty"`
	RepostsRequired *int `json:"repostsRequired,omitempty"`
	FollowsRequired *int `json:"followsRequired,omitempty"`
	InitialBudget   *int `json:"initialBudget,omitempty"`
	PostsPerLike    *int `json:"postsPerLike,omitempty"`
	PostsPerRepost  *int `json:"postsPerRepost,omitempty"`
	PostsPerFollow  *int `json:"postsPerFollow,omitempty"`
}

// DefaultBudgetSettings returns the out-of-box budget configuration.
func DefaultBudgetSettings() BudgetSettings {
	return BudgetSettings{
		LikesRequired:   5,
		RepostsRequired: 2,
		FollowsRequired: 1,
		InitialBudget:   10,
		PostsPerLike:    3,
		PostsPerRepost:  5,
		PostsPerFollow:  10,
	}
}

// BudgetState is the persisted post-budget counter record. Settings is a
// copy of the configuration in effect, embedded so the state snapshot is
// self-describing across reloads.
type BudgetState struct {
	PostsViewed    int            `json:"postsViewed"`
	PostsRemaining int            `json:"postsRemaining"`
	LikesGiven     int            `json:"likesGiven"`
	RepostsGiven   int            `json:"repostsGiven"`
	FollowsGiven   int            `json:"followsGiven"`
	Settings       BudgetSettings `json:"settings"`
}

// EngagementLabel is a derived achievement marker. Never persisted as
// primary state; recomputed from stats on every read.
type EngagementLabel struct {
	Value       string `json:"val"`
	Description string `json:"description"`
}
