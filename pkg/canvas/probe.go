package canvas

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-drift/animator/pkg/animator"
	"github.com/go-drift/animator/pkg/log"
	"github.com/go-drift/animator/pkg/uithread"
)

var logger = log.New("canvas")

// ProbeConfig describes one deadlock probe run.
type ProbeConfig struct {
	// Animator drives the canvas. Nil displays the canvas from the probe
	// goroutine, through the UI loop, once per period.
	Animator *animator.Animator

	Duration time.Duration
	// RestartPeriod recreates the canvas at this interval; zero never
	// restarts and polls every 100ms instead.
	RestartPeriod time.Duration
	// RestartOnCurrentGoroutine performs attach and detach on the probe
	// goroutine instead of the UI loop.
	RestartOnCurrentGoroutine bool

	Width, Height int
	// Title is the frame's initial title; "Generic Title" when empty.
	Title string

	// UpdateFPSFrames and FPSSink configure the animator's FPS sampling.
	UpdateFPSFrames int
	FPSSink         io.Writer
}

// ProbeResult summarizes a probe run.
type ProbeResult struct {
	Animator    string
	Restarts    int
	CanvasFrame int
	Title       string
	TotalFrames int
	Duration    time.Duration
	LastFPS     float64
	TotalFPS    float64
	History     []animator.FPSSample
}

// Probe repeatedly tears down and recreates a UI-hosted canvas while an
// animator renders it, the way an application would on layout changes. It
// returns once Duration has elapsed or ctx is done. A probe that deadlocks
// never returns; callers bound it with ctx and a watchdog.
type Probe struct {
	loop   *uithread.Loop
	cfg    ProbeConfig
	frame  *Frame
	title  *TitleListener
	hud    *HUDListener
	canvas *Canvas
	seq    int
}

// NewProbe prepares a probe on loop.
func NewProbe(loop *uithread.Loop, cfg ProbeConfig) *Probe {
	if cfg.Width <= 0 {
		cfg.Width = 512
	}
	if cfg.Height <= 0 {
		cfg.Height = 512
	}
	if cfg.Title == "" {
		cfg.Title = "Generic Title"
	}
	p := &Probe{loop: loop, cfg: cfg}
	p.frame = NewFrame(cfg.Title, cfg.Width, cfg.Height)
	p.title = &TitleListener{Frame: p.frame}
	if cfg.Animator != nil {
		p.title.FPS = cfg.Animator.LastFPS
	}
	p.hud = &HUDListener{}
	return p
}

// Frame returns the host frame.
func (p *Probe) Frame() *Frame { return p.frame }

// Run executes the probe.
func (p *Probe) Run(ctx context.Context) (ProbeResult, error) {
	var res ProbeResult
	a := p.cfg.Animator

	p.canvas = p.newCanvas()
	if a != nil {
		res.Animator = a.Name()
		a.SetUpdateFPSFrames(p.cfg.UpdateFPSFrames, p.cfg.FPSSink)
		if err := a.Add(p.canvas); err != nil {
			return res, err
		}
		if err := a.Start(); err != nil {
			return res, err
		}
	}

	if err := p.attach(p.canvas, false); err != nil {
		return res, p.finish(a, err)
	}
	if err := p.onLoop(ctx, func() error { return p.frame.SetVisible(true) }); err != nil {
		return res, p.finish(a, err)
	}

	period := p.cfg.RestartPeriod
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	deadline := time.NewTimer(p.cfg.Duration)
	defer deadline.Stop()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

loop:
	for {
		if a == nil {
			if err := p.onLoop(ctx, p.canvas.Display); err != nil {
				return res, p.finish(a, err)
			}
		}
		if p.cfg.RestartPeriod > 0 {
			if err := p.restart(ctx); err != nil {
				return res, p.finish(a, err)
			}
			res.Restarts++
		}

		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		case <-ticker.C:
		}
	}

	res.CanvasFrame = p.canvas.Frames()
	err := p.finish(a, nil)
	res.Title = p.frame.Title()
	if a != nil {
		res.TotalFrames = a.TotalFrames()
		res.Duration = a.Duration()
		res.LastFPS = a.LastFPS()
		res.TotalFPS = a.TotalFPS()
		res.History = a.FPSHistory()
	}
	if err == nil {
		err = ctx.Err()
	}
	return res, err
}

// restart disposes the listeners, detaches the canvas and attaches a fresh
// one in its place. The animator switches over to the new canvas.
func (p *Probe) restart(ctx context.Context) error {
	old := p.canvas
	old.DisposeListener(p.title, true)
	old.DisposeListener(p.hud, true)
	if err := p.detach(old, p.cfg.RestartOnCurrentGoroutine); err != nil {
		return err
	}

	next := p.newCanvas()
	if a := p.cfg.Animator; a != nil {
		a.Remove(old)
		if err := a.Add(next); err != nil {
			return err
		}
	}
	if err := p.attach(next, p.cfg.RestartOnCurrentGoroutine); err != nil {
		return err
	}
	p.canvas = next
	return ctx.Err()
}

func (p *Probe) newCanvas() *Canvas {
	p.seq++
	c := New(fmt.Sprintf("canvas-%d", p.seq), p.cfg.Width, p.cfg.Height)
	p.title.ResetFrames()
	c.AddListener(p.title)
	c.AddListener(p.hud)
	return c
}

func (p *Probe) attach(c *Canvas, onCurrent bool) error {
	logger.Debugf("attach %s, on current goroutine %t", c.Name(), onCurrent)
	if onCurrent {
		return p.frame.Attach(c)
	}
	return p.onLoop(context.Background(), func() error { return p.frame.Attach(c) })
}

func (p *Probe) detach(c *Canvas, onCurrent bool) error {
	logger.Debugf("detach %s, on current goroutine %t", c.Name(), onCurrent)
	if onCurrent {
		return p.frame.Detach(c)
	}
	return p.onLoop(context.Background(), func() error { return p.frame.Detach(c) })
}

func (p *Probe) finish(a *animator.Animator, cause error) error {
	if err := p.loop.InvokeAndWait(context.Background(), p.frame.Dispose); err != nil {
		p.frame.Dispose()
	}
	if a == nil {
		return cause
	}
	err := a.Stop()
	if cause != nil {
		return cause
	}
	return err
}

func (p *Probe) onLoop(ctx context.Context, f func() error) error {
	var err error
	if ierr := p.loop.InvokeAndWait(ctx, func() { err = f() }); ierr != nil {
		return ierr
	}
	return err
}
