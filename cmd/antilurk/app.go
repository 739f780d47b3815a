package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"antilurk/internal/badge"
	"antilurk/internal/budget"
	"antilurk/internal/cmdlog"
	"antilurk/internal/config"
	"antilurk/internal/metrics"
	"antilurk/internal/model"
	"antilurk/internal/pdsclient"
	"antilurk/internal/store/localstore"
	"antilurk/internal/theme"
)

// app wires the two engines and their collaborators for one CLI invocation.
type app struct {
	cfg    config.Config
	db     *localstore.DB
	budget *budget.Engine
	badge  *badge.Engine
}

func openApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := localstore.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	bud, err := budget.NewEngine(ctx, db, cfg.Budget)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	remote := pdsclient.NewHTTPClient(cfg.Credentials.PDSHost, cfg.Account.DID, cfg.Credentials.AccessJWT)
	bdg, err := badge.NewEngine(ctx, db, remote)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &app{cfg: cfg, db: db, budget: bud, badge: bdg}, nil
}

func (a *app) close() { _ = a.db.Close() }

func fail(err error) {
	fmt.Println("error:", err)
	os.Exit(1)
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./antilurk.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fail(err)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	ctx := context.Background()
	a, err := openApp(ctx, *cfgPath)
	if err != nil {
		fail(err)
	}
	defer a.close()
	printStatus(a)
}

func printStatus(a *app) {
	st := a.budget.State()
	fmt.Printf("Budget: %d posts remaining (viewed %d)\n", st.PostsRemaining, st.PostsViewed)
	if !a.budget.CanViewMorePosts() {
		fmt.Println("Feed locked: engage to earn more posts")
	}
	s := a.badge.Stats()
	fmt.Printf("Stats: views=%d likes=%d reposts=%d replies=%d follows=%d streak=%d\n",
		s.PostsViewed, s.LikesGiven, s.RepostsGiven, s.RepliesGiven, s.FollowsGiven, s.StreakDays)
	fmt.Printf("Score: %d (%s)\n", s.EngagementScore, a.badge.Tier())
	for _, l := range a.badge.Labels() {
		fmt.Printf("  %s — %s\n", l.Value, l.Description)
	}
}

// cmdAction applies one engagement action to both engines; neither engine
// calls the other.
func cmdAction(action string) {
	fs := flag.NewFlagSet(action, flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	n := fs.Int("n", 1, "repeat count")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run(action, func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		for i := 0; i < *n; i++ {
			if err := applyAction(ctx, a, action); err != nil {
				return err
			}
		}
		printStatus(a)
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func applyAction(ctx context.Context, a *app, action string) error {
	switch action {
	case "view":
		if !a.budget.CanViewMorePosts() {
			fmt.Println("Budget exhausted; viewing anyway counts but earns nothing")
		}
		if err := a.budget.ViewPost(ctx); err != nil {
			return err
		}
		return a.badge.IncrementStat(ctx, model.StatPostsViewed)
	case "like":
		if err := a.budget.RecordLike(ctx); err != nil {
			return err
		}
		return a.badge.IncrementStat(ctx, model.StatLikesGiven)
	case "repost":
		if err := a.budget.RecordRepost(ctx); err != nil {
			return err
		}
		return a.badge.IncrementStat(ctx, model.StatRepostsGiven)
	case "follow":
		if err := a.budget.RecordFollow(ctx); err != nil {
			return err
		}
		return a.badge.IncrementStat(ctx, model.StatFollowsGiven)
	case "reply":
		// Replies feed the badge but grant no budget reward.
		return a.badge.IncrementStat(ctx, model.StatRepliesGiven)
	}
	return fmt.Errorf("unknown action %q", action)
}

func cmdSettings() {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	initial := fs.Int("initial", -1, "initial budget")
	perLike := fs.Int("per-like", -1, "posts earned per like")
	perRepost := fs.Int("per-repost", -1, "posts earned per repost")
	perFollow := fs.Int("per-follow", -1, "posts earned per follow")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("settings", func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		var u model.SettingsUpdate
		if *initial >= 0 {
			u.InitialBudget = initial
		}
		if *perLike >= 0 {
			u.PostsPerLike = perLike
		}
		if *perRepost >= 0 {
			u.PostsPerRepost = perRepost
		}
		if *perFollow >= 0 {
			u.PostsPerFollow = perFollow
		}
		if err := a.budget.UpdateSettings(ctx, u); err != nil {
			return err
		}
		fmt.Printf("Settings: %+v\n", a.budget.Settings())
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func cmdPrefs() {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	visibility := fs.String("visibility", "", "public, followers, or private")
	style := fs.String("style", "", "compact, detailed, or minimal")
	auto := fs.String("auto-publish", "", "true or false")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("prefs", func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		var u model.PreferencesUpdate
		if *visibility != "" {
			v := model.Visibility(*visibility)
			u.Visibility = &v
		}
		if *style != "" {
			s := model.BadgeStyle(*style)
			u.BadgeStyle = &s
		}
		if *auto != "" {
			b := *auto == "true"
			u.AutoPublish = &b
		}
		if err := a.badge.UpdatePreferences(ctx, u); err != nil {
			return err
		}
		fmt.Printf("Preferences: %+v\n", a.badge.Preferences())
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func cmdPublish() {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("publish", func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.badge.PublishBadge(ctx); err != nil {
			return err
		}
		if a.badge.Published() {
			fmt.Println("Badge published as", a.badge.Tier())
		} else {
			fmt.Println("Badge is private; nothing published")
		}
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func cmdFetch() {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	did := fs.String("did", "", "identity to fetch (defaults to own)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("fetch", func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		rec, err := a.badge.FetchBadge(ctx, *did)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("No badge record found")
			return nil
		}
		fmt.Printf("Tier: %s (score %d, since %s)\n", rec.Tier, rec.EngagementScore, rec.CreatedAt)
		for _, mv := range model.VisibleMetricValues(*rec) {
			fmt.Printf("  %s: %d\n", mv.Key, mv.Value)
		}
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func cmdReset() {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("reset", func() error {
		ctx := context.Background()
		a, err := openApp(ctx, *cfgPath)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.budget.Reset(ctx); err != nil {
			return err
		}
		st := a.budget.State()
		fmt.Printf("Budget reset: %d posts remaining\n", st.PostsRemaining)
		return nil
	})
	if err != nil {
		os.Exit(1)
	}
}

func cmdMonitor() {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	cfgPath := fs.String("config", "./antilurk.yaml", "config path")
	interval := fs.Duration("interval", 30*time.Second, "readout interval")
	_ = fs.Parse(os.Args[2:])
	ctx := context.Background()
	a, err := openApp(ctx, *cfgPath)
	if err != nil {
		fail(err)
	}
	defer a.close()
	metrics.StartServer(a.cfg.Metrics.Addr)
	theme.PrintBanner()
	for {
		printStatus(a)
		time.Sleep(*interval)
	}
}
