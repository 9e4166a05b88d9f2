package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/animator/cmd/animator/internal/config"
	"github.com/go-drift/animator/pkg/animator"
	"github.com/go-drift/animator/pkg/canvas"
	"github.com/go-drift/animator/pkg/uithread"
)

// A probe that outlives its duration by this much is considered deadlocked.
const watchdogGrace = 10 * time.Second

// RunProbe runs the canvas restart deadlock probe.
func RunProbe(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	dir, err := configDir(ctx)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, dir)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Infof("using configuration from %s", cfg.Source)
	}

	loop := uithread.New("ui")
	if err := loop.Start(); err != nil {
		return err
	}
	defer loop.Stop()

	var t *target
	if !ctx.Bool("no-animator") {
		t = newTarget(cfg, loop)
		t.apply(cfg)
		logger.Noticef("probing with %s (%s strategy)", t.animator.Name(), cfg.Strategy)
	} else {
		logger.Notice("probing without an animator")
	}

	probe := canvas.NewProbe(loop, canvas.ProbeConfig{
		Animator:                  t.get(),
		Duration:                  cfg.Duration,
		RestartPeriod:             cfg.RestartPeriod,
		RestartOnCurrentGoroutine: cfg.OnCurrentGoroutine,
		Width:                     cfg.Width,
		Height:                    cfg.Height,
		Title:                     cfg.Title,
		UpdateFPSFrames:           cfg.UpdateFPSFrames,
		FPSSink:                   os.Stderr,
	})

	reload := func() {
		next, err := loadConfig(ctx, dir)
		if err != nil {
			logger.Warningf("ignoring configuration change: %v", err)
			return
		}
		t.apply(next)
		logger.Notice("configuration reloaded")
	}

	parent, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runWatched(parent, probe, dir, reload, cfg.Duration+watchdogGrace)
	if err != nil {
		if !errors.Is(err, context.Canceled) || parent.Err() == nil {
			return err
		}
		logger.Notice("probe interrupted")
	}

	displayProbeStats(res, cfg.Strategy)
	return nil
}

// runWatched runs the probe alongside the configuration watcher. The watcher
// stops with the probe; limit bounds the whole run.
func runWatched(parent context.Context, probe *canvas.Probe, dir string, reload func(), limit time.Duration) (canvas.ProbeResult, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var res canvas.ProbeResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		var err error
		res, err = probe.Run(gctx)
		return err
	})
	g.Go(func() error {
		if err := config.Watch(gctx, dir, reload); err != nil {
			logger.Warningf("configuration reload disabled: %v", err)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	watchdog := time.NewTimer(limit)
	defer watchdog.Stop()
	select {
	case err := <-done:
		return res, err
	case <-watchdog.C:
		return canvas.ProbeResult{}, fmt.Errorf("probe did not finish within %s: deadlock suspected", limit)
	}
}

func configDir(ctx *cli.Context) (string, error) {
	if dir := ctx.String("config"); dir != "" {
		return dir, nil
	}
	if root, err := config.FindProjectRoot(); err == nil {
		return root, nil
	}
	return os.Getwd()
}

// loadConfig resolves the configuration in dir and applies the flags the
// user set explicitly.
func loadConfig(ctx *cli.Context, dir string) (*config.Resolved, error) {
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(ctx *cli.Context, cfg *config.Resolved) {
	if ctx.IsSet("name") {
		cfg.Name = ctx.String("name")
	}
	if ctx.IsSet("strategy") {
		cfg.Strategy = ctx.String("strategy")
	}
	if ctx.IsSet("fps") {
		cfg.FPS = ctx.Float64("fps")
		cfg.Paced = true
	}
	if ctx.IsSet("ignore-exceptions") {
		cfg.IgnoreExceptions = ctx.Bool("ignore-exceptions")
	}
	if ctx.IsSet("print-exceptions") {
		cfg.PrintExceptions = ctx.Bool("print-exceptions")
	}
	if ctx.IsSet("update-fps-frames") {
		cfg.UpdateFPSFrames = ctx.Int("update-fps-frames")
	}
	if ctx.IsSet("duration") {
		cfg.Duration = ctx.Duration("duration")
	}
	if ctx.IsSet("restart-period") {
		cfg.RestartPeriod = ctx.Duration("restart-period")
	}
	if ctx.IsSet("on-current") {
		cfg.OnCurrentGoroutine = ctx.Bool("on-current")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
}

// target is the animator under probe.
type target struct {
	animator *animator.Animator
	fps      *animator.FPSAnimator
}

func newTarget(cfg *config.Resolved, loop *uithread.Loop) *target {
	var opts []animator.Option
	if cfg.Name != "" {
		opts = append(opts, animator.WithName(cfg.Name))
	}
	if cfg.Strategy == config.StrategyUI {
		opts = append(opts, animator.WithStrategy(animator.UIThreadStrategy{Loop: loop}))
	}

	if cfg.Paced {
		fps := animator.NewFPSAnimator(cfg.FPS, opts...)
		return &target{animator: fps.Animator, fps: fps}
	}
	return &target{animator: animator.New(opts...)}
}

func (t *target) get() *animator.Animator {
	if t == nil {
		return nil
	}
	return t.animator
}

// apply pushes the settings that may change while the probe runs.
func (t *target) apply(cfg *config.Resolved) {
	if t == nil {
		return
	}
	t.animator.SetIgnoreExceptions(cfg.IgnoreExceptions)
	t.animator.SetPrintExceptions(cfg.PrintExceptions)
	t.animator.SetUpdateFPSFrames(cfg.UpdateFPSFrames, os.Stderr)
	if t.fps != nil && cfg.Paced && t.fps.FPS() != cfg.FPS {
		logger.Infof("%s: fps %.2f -> %.2f", t.animator.Name(), t.fps.FPS(), cfg.FPS)
		t.fps.SetFPS(cfg.FPS)
	}
}
