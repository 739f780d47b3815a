// Package budget implements the post-budget gate: a consumable allowance of
// feed items, spent by viewing and refilled by qualifying engagement
// actions.
package budget

import (
	"context"
	"sync"

	"antilurk/internal/metrics"
	"antilurk/internal/model"
	"antilurk/internal/store/localstore"
)

// Engine tracks the posts-remaining counter and its settings, persisting
// both under independent store keys. Safe for concurrent use.
type Engine struct {
	db *localstore.DB

	mu       sync.Mutex
	settings model.BudgetSettings
	state    model.BudgetState
}

// NewEngine loads persisted settings and state, falling back to the given
// defaults and a fresh budget when either slot is empty.
func NewEngine(ctx context.Context, db *localstore.DB, defaults model.BudgetSettings) (*Engine, error) {
	e := &Engine{db: db, settings: defaults}

	if raw, ok, err := db.Get(ctx, localstore.KeyBudgetSettings); err != nil {
		return nil, err
	} else if ok {
		if err := localstore.DecodeSnapshot(raw, &e.settings); err != nil {
			return nil, err
		}
	}

	if raw, ok, err := db.Get(ctx, localstore.KeyBudgetState); err != nil {
		return nil, err
	} else if ok {
		if err := localstore.DecodeSnapshot(raw, &e.state); err != nil {
			return nil, err
		}
	} else {
		e.state = freshState(e.settings)
	}
	return e, nil
}

func freshState(s model.BudgetSettings) model.BudgetState {
	return model.BudgetState{PostsRemaining: s.InitialBudget, Settings: s}
}

// State returns a copy of the current budget state.
func (e *Engine) State() model.BudgetState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Settings returns a copy of the current budget settings.
func (e *Engine) Settings() model.BudgetSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// CanViewMorePosts reports whether the budget still covers another feed
// item. Recomputed from state on every call; the host uses it to decide
// which items render versus lock.
func (e *Engine) CanViewMorePosts() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PostsRemaining > 0
}

// ViewPost spends one post from the budget. The remaining counter floors at
// zero; the viewed counter always advances.
func (e *Engine) ViewPost(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PostsViewed++
	if e.state.PostsRemaining > 0 {
		e.state.PostsRemaining--
	} else {
		metrics.BudgetExhausted.Inc()
	}
	metrics.PostsViewed.Inc()
	return e.saveStateLocked(ctx)
}

// RecordLike counts a like and grants the configured reward.
func (e *Engine) RecordLike(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LikesGiven++
	e.state.PostsRemaining += e.settings.PostsPerLike
	metrics.IncBudgetReward("like")
	return e.saveStateLocked(ctx)
}

// RecordRepost counts a repost and grants the configured reward.
func (e *Engine) RecordRepost(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.RepostsGiven++
	e.state.PostsRemaining += e.settings.PostsPerRepost
	metrics.IncBudgetReward("repost")
	return e.saveStateLocked(ctx)
}

// RecordFollow counts a follow and grants the configured reward.
func (e *Engine) RecordFollow(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.FollowsGiven++
	e.state.PostsRemaining += e.settings.PostsPerFollow
	metrics.IncBudgetReward("follow")
	return e.saveStateLocked(ctx)
}

// UpdateSettings merges a partial settings update and persists it. Already
// granted rewards are untouched; the new values apply from the next reward
// computation on.
func (e *Engine) UpdateSettings(ctx context.Context, u model.SettingsUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u.LikesRequired != nil {
		e.settings.LikesRequired = *u.LikesRequired
	}
	if u.RepostsRequired != nil {
		e.settings.RepostsRequired = *u.RepostsRequired
	}
	if u.FollowsRequired != nil {
		e.settings.FollowsRequired = *u.FollowsRequired
	}
	if u.InitialBudget != nil {
		e.settings.InitialBudget = *u.InitialBudget
	}
	if u.PostsPerLike != nil {
		e.settings.PostsPerLike = *u.PostsPerLike
	}
	if u.PostsPerRepost != nil {
		e.settings.PostsPerRepost = *u.PostsPerRepost
	}
	if u.PostsPerFollow != nil {
		e.settings.PostsPerFollow = *u.PostsPerFollow
	}
	e.state.Settings = e.settings

	raw, err := localstore.EncodeSnapshot(e.settings)
	if err != nil {
		return err
	}
	if err := e.db.Put(ctx, localstore.KeyBudgetSettings, raw); err != nil {
		return err
	}
	return e.saveStateLocked(ctx)
}

// Reset discards all counters and restores the budget from the current
// settings, not from whatever was embedded in the old state.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = freshState(e.settings)
	return e.saveStateLocked(ctx)
}

func (e *Engine) saveStateLocked(ctx context.Context) error {
	raw, err := localstore.EncodeSnapshot(e.state)
	if err != nil {
		return err
	}
	return e.db.Put(ctx, localstore.KeyBudgetState, raw)
}
