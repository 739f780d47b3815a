// Package badge implements the engagement badge engine: lifetime stat
// accumulation, derived tier and labels, and the publish path to the
// owner's repo record slot.
package badge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"antilurk/internal/logging"
	"antilurk/internal/metrics"
	"antilurk/internal/model"
	"antilurk/internal/pdsclient"
	"antilurk/internal/schedule"
	"antilurk/internal/store/localstore"
	"antilurk/internal/streak"
)

// BadgeRKey is the fixed record key: one badge per owner.
const BadgeRKey = "self"

// AutoPublishQuiet is the debounce window between the last qualifying
// change and an auto-publish.
const AutoPublishQuiet = 5 * time.Second

// Engine owns the engagement stats and badge preferences. Mutations are
// serialized; the publish network round-trips run outside the lock, so a
// publish may carry a snapshot a few mutations old. That is acceptable:
// publish is a full overwrite and the next publish supersedes it.
type Engine struct {
	db     *localstore.DB
	remote pdsclient.RecordStore
	deb    *schedule.Debouncer
	now    func() time.Time

	mu        sync.Mutex
	stats     model.EngagementStats
	prefs     model.BadgePreferences
	published bool
}

// NewEngine loads persisted stats and preferences and applies the
// start-of-process streak bump.
func NewEngine(ctx context.Context, db *localstore.DB, remote pdsclient.RecordStore) (*Engine, error) {
	return NewEngineAt(ctx, db, remote, schedule.NewDebouncer(AutoPublishQuiet), time.Now)
}

// NewEngineAt is NewEngine with an injected debouncer and clock. Tests use
// it to drive the auto-publish quiet period and the streak date by hand.
func NewEngineAt(ctx context.Context, db *localstore.DB, remote pdsclient.RecordStore, deb *schedule.Debouncer, now func() time.Time) (*Engine, error) {
	e := &Engine{db: db, remote: remote, deb: deb, now: now, prefs: model.DefaultPreferences()}

	if raw, ok, err := db.Get(ctx, localstore.KeyEngagementStats); err != nil {
		return nil, err
	} else if ok {
		if err := localstore.DecodeSnapshot(raw, &e.stats); err != nil {
			return nil, err
		}
	}
	if raw, ok, err := db.Get(ctx, localstore.KeyBadgePreferences); err != nil {
		return nil, err
	} else if ok {
		if err := localstore.DecodeSnapshot(raw, &e.prefs); err != nil {
			return nil, err
		}
	}
	if err := e.bumpStreak(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// bumpStreak runs the once-per-process streak decision against the
// persisted last-active-day marker. It does not stamp lastEngagementAt;
// opening the app is not an engagement.
func (e *Engine) bumpStreak(ctx context.Context) error {
	marker, _, err := e.db.Get(ctx, localstore.KeyLastActiveDay)
	if err != nil {
		return err
	}
	r := streak.Bump(marker, e.stats.StreakDays, e.now())
	if !r.Changed {
		return nil
	}
	e.stats.StreakDays = r.StreakDays
	if err := e.db.Put(ctx, localstore.KeyLastActiveDay, r.Marker); err != nil {
		return err
	}
	return e.saveStatsLocked(ctx)
}

// Stats returns a copy of the current stats with the derived score filled
// in.
func (e *Engine) Stats() model.EngagementStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.EngagementScore = model.EngagementScore(s)
	return s
}

// Preferences returns a copy of the current badge preferences.
func (e *Engine) Preferences() model.BadgePreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.prefs
	p.VisibleMetrics = append([]model.MetricKey(nil), e.prefs.VisibleMetrics...)
	return p
}

// Tier returns the badge tier derived from the current stats.
func (e *Engine) Tier() model.BadgeTier {
	return model.TierForScore(model.EngagementScore(e.Stats()))
}

// Labels returns the achievement labels derived from the current stats.
func (e *Engine) Labels() []model.EngagementLabel {
	return model.AchievementLabels(e.Stats())
}

// Published reports whether the most recent publish attempt succeeded.
func (e *Engine) Published() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.published
}

// IncrementStat bumps one counter by 1 and stamps lastEngagementAt.
// Derived fields are not valid keys.
func (e *Engine) IncrementStat(ctx context.Context, key model.StatKey) error {
	e.mu.Lock()
	switch key {
	case model.StatPostsViewed:
		e.stats.PostsViewed++
	case model.StatLikesGiven:
		e.stats.LikesGiven++
	case model.StatRepostsGiven:
		e.stats.RepostsGiven++
	case model.StatRepliesGiven:
		e.stats.RepliesGiven++
	case model.StatFollowsGiven:
		e.stats.FollowsGiven++
	default:
		e.mu.Unlock()
		return fmt.Errorf("stat %q cannot be incremented", key)
	}
	now := e.now().UTC()
	e.stats.LastEngagementAt = &now
	err := e.saveStatsLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.maybeAutoPublish()
	return nil
}

// UpdateStats merges a partial counter update, always stamping
// lastEngagementAt.
func (e *Engine) UpdateStats(ctx context.Context, u model.StatsUpdate) error {
	e.mu.Lock()
	if u.PostsViewed != nil {
		e.stats.PostsViewed = *u.PostsViewed
	}
	if u.LikesGiven != nil {
		e.stats.LikesGiven = *u.LikesGiven
	}
	if u.RepostsGiven != nil {
		e.stats.RepostsGiven = *u.RepostsGiven
	}
	if u.RepliesGiven != nil {
		e.stats.RepliesGiven = *u.RepliesGiven
	}
	if u.FollowsGiven != nil {
		e.stats.FollowsGiven = *u.FollowsGiven
	}
	if u.StreakDays != nil {
		e.stats.StreakDays = *u.StreakDays
	}
	now := e.now().UTC()
	e.stats.LastEngagementAt = &now
	err := e.saveStatsLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.maybeAutoPublish()
	return nil
}

// UpdatePreferences merges a partial preferences update. An empty
// visibleMetrics list is legal and means "show nothing"; undefined metric
// keys and duplicates are rejected.
func (e *Engine) UpdatePreferences(ctx context.Context, u model.PreferencesUpdate) error {
	e.mu.Lock()
	if u.VisibleMetrics != nil {
		seen := make(map[model.MetricKey]bool, len(*u.VisibleMetrics))
		for _, k := range *u.VisibleMetrics {
			if !model.ValidMetricKey(k) {
				e.mu.Unlock()
				return fmt.Errorf("unknown metric key %q", k)
			}
			if seen[k] {
				e.mu.Unlock()
				return fmt.Errorf("duplicate metric key %q", k)
			}
			seen[k] = true
		}
		e.prefs.VisibleMetrics = append([]model.MetricKey(nil), *u.VisibleMetrics...)
	}
	if u.Visibility != nil {
		e.prefs.Visibility = *u.Visibility
	}
	if u.BadgeStyle != nil {
		e.prefs.BadgeStyle = *u.BadgeStyle
	}
	if u.AutoPublish != nil {
		e.prefs.AutoPublish = *u.AutoPublish
	}
	raw, err := localstore.EncodeSnapshot(e.prefs)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	err = e.db.Put(ctx, localstore.KeyBadgePreferences, raw)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.maybeAutoPublish()
	return nil
}

// PublishBadge writes the current badge snapshot to the owner's record
// slot. With private visibility it is a deliberate no-op, not an error. On
// write failure the error propagates and the published flag stays unset.
func (e *Engine) PublishBadge(ctx context.Context) error {
	e.mu.Lock()
	stats := e.stats
	prefs := e.prefs
	e.mu.Unlock()

	if prefs.Visibility == model.VisibilityPrivate {
		logging.Info("badge_private_skip", nil)
		return nil
	}
	if e.remote == nil || e.remote.DID() == "" {
		return fmt.Errorf("publish badge: %w", pdsclient.ErrNotAuthenticated)
	}

	start := e.now()
	did := e.remote.DID()
	score := model.EngagementScore(stats)
	nowStr := start.UTC().Format(time.RFC3339)

	rec := model.EngagementBadgeRecord{
		Type:            model.BadgeRecordType,
		PostsViewed:     stats.PostsViewed,
		LikesGiven:      stats.LikesGiven,
		RepostsGiven:    stats.RepostsGiven,
		RepliesGiven:    stats.RepliesGiven,
		FollowsGiven:    stats.FollowsGiven,
		EngagementScore: score,
		StreakDays:      stats.StreakDays,
		Visibility:      prefs.Visibility,
		VisibleMetrics:  prefs.VisibleMetrics,
		BadgeStyle:      prefs.BadgeStyle,
		Tier:            model.TierForScore(score),
		CreatedAt:       nowStr,
		UpdatedAt:       nowStr,
	}
	if stats.LastEngagementAt != nil {
		rec.LastEngagementAt = stats.LastEngagementAt.UTC().Format(time.RFC3339)
	}

	// First-publish timestamp survives every overwrite. A read failure here
	// just means we treat this as a first publish.
	var existing model.EngagementBadgeRecord
	if err := e.remote.GetRecord(ctx, did, model.BadgeRecordType, BadgeRKey, &existing); err == nil {
		if existing.CreatedAt != "" {
			rec.CreatedAt = existing.CreatedAt
		}
	} else if !errors.Is(err, pdsclient.ErrRecordNotFound) {
		logging.Warn("badge_existing_lookup_failed", map[string]any{"error": err.Error()})
	}

	if err := e.remote.PutRecord(ctx, did, model.BadgeRecordType, BadgeRKey, rec); err != nil {
		metrics.BadgePublishErrors.Inc()
		logging.Error("badge_publish_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("publish badge: %w", err)
	}

	e.mu.Lock()
	e.published = true
	e.mu.Unlock()
	metrics.BadgePublishes.Inc()
	metrics.ObservePublishDuration(start)
	logging.Info("badge_published", map[string]any{"tier": string(rec.Tier), "score": score})
	return nil
}

// FetchBadge reads the badge record for did, defaulting to the caller's own
// identity. Returns (nil, nil) when no record exists. Never mutates local
// state.
func (e *Engine) FetchBadge(ctx context.Context, did string) (*model.EngagementBadgeRecord, error) {
	if e.remote == nil {
		return nil, fmt.Errorf("fetch badge: %w", pdsclient.ErrNotAuthenticated)
	}
	if did == "" {
		did = e.remote.DID()
	}
	if did == "" {
		return nil, fmt.Errorf("fetch badge: %w", pdsclient.ErrNotAuthenticated)
	}
	var rec model.EngagementBadgeRecord
	err := e.remote.GetRecord(ctx, did, model.BadgeRecordType, BadgeRKey, &rec)
	if errors.Is(err, pdsclient.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch badge: %w", err)
	}
	metrics.BadgeFetches.Inc()
	return &rec, nil
}

// maybeAutoPublish schedules a debounced publish after a qualifying change.
// Each new change cancels and reschedules, so a burst of interactions
// yields one publish.
func (e *Engine) maybeAutoPublish() {
	e.mu.Lock()
	enabled := e.prefs.AutoPublish && e.prefs.Visibility != model.VisibilityPrivate
	e.mu.Unlock()
	if !enabled {
		// A change that turns the trigger condition off also withdraws any
		// publish still waiting out its quiet period.
		e.deb.Cancel()
		return
	}
	e.deb.Trigger(func() {
		if err := e.PublishBadge(context.Background()); err != nil {
			logging.Error("badge_auto_publish_failed", map[string]any{"error": err.Error()})
		}
	})
}

func (e *Engine) saveStatsLocked(ctx context.Context) error {
	s := e.stats
	s.EngagementScore = model.EngagementScore(s)
	raw, err := localstore.EncodeSnapshot(s)
	if err != nil {
		return err
	}
	return e.db.Put(ctx, localstore.KeyEngagementStats, raw)
}
