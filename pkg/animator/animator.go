package animator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"

	aerrors "github.com/go-drift/animator/pkg/errors"
	"github.com/go-drift/animator/pkg/log"
)

var logger = log.New("animator")

// State is the lifecycle state of an Animator.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type options struct {
	name     string
	names    *NameRegistry
	strategy Strategy
	clock    Clock
}

// Option configures an Animator.
type Option func(*options)

// WithName sets the animator name instead of generating one.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithNames generates the animator name from names instead of DefaultNames.
func WithNames(names *NameRegistry) Option {
	return func(o *options) {
		if names != nil {
			o.names = names
		}
	}
}

// WithStrategy selects where render passes run. The default is
// DefaultStrategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithClock sets the clock used by the frame counter.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// session is one run of the render goroutine.
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	started chan struct{}
	done    chan struct{}
	err     error
}

// Animator repeatedly displays a set of drawables from a dedicated render
// goroutine. All methods are safe for concurrent use, including from inside a
// drawable's Display.
type Animator struct {
	name     string
	strategy Strategy
	registry *Registry
	counter  *FrameCounter
	pace     func(ctx context.Context) error

	mu         sync.Mutex
	cond       *sync.Cond
	state      State
	session    *session
	transition <-chan struct{}
	failure    error

	renderID atomic.Int64
	delegate atomic.Int64

	ignoreExceptions atomic.Bool
	printExceptions  atomic.Bool
}

// New creates a stopped animator with an empty registry.
func New(opts ...Option) *Animator {
	return newAnimator("", opts)
}

func newAnimator(prefix string, opts []Option) *Animator {
	o := options{
		names:    DefaultNames,
		strategy: DefaultStrategy{},
		clock:    SystemClock,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Animator{
		name:     o.name,
		strategy: o.strategy,
	}
	if a.name == "" {
		a.name = o.names.Next(prefix + o.strategy.Prefix())
	}
	a.cond = sync.NewCond(&a.mu)
	a.registry = NewRegistry(a, a.wake)
	a.counter = NewFrameCounter(a.name, o.clock)
	return a
}

// Name returns the animator name.
func (a *Animator) Name() string { return a.name }

// Add registers d. See Registry.Add.
func (a *Animator) Add(d Drawable) error {
	return a.registry.Add(d)
}

// Remove unregisters d. See Registry.Remove.
func (a *Animator) Remove(d Drawable) {
	a.registry.Remove(d)
}

// Drawables returns a copy of the registered drawables in render order.
func (a *Animator) Drawables() []Drawable {
	return a.registry.Snapshot()
}

// Start launches the render goroutine and blocks until it is running. It
// fails with ErrAlreadyStarted unless the animator is stopped, and with
// ErrStartFailure when the strategy cannot begin. A failure left over from a
// previous run is discarded. The frame counter is reset.
func (a *Animator) Start() error {
	a.mu.Lock()
	if !a.isPassGoroutine() {
		a.awaitSettledLocked()
	}
	if a.state != StateStopped {
		a.mu.Unlock()
		return stateError("animator.Start", a.name, ErrAlreadyStarted)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		ctx:     ctx,
		cancel:  cancel,
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
	a.failure = nil
	a.state = StateStarting
	a.session = s
	a.transition = s.started
	a.mu.Unlock()

	a.counter.Reset()
	go a.run(s)
	a.strategy.Await(s.started)

	if s.err != nil {
		logger.Warningf("%s: start failed: %v", a.name, s.err)
		return startError(a.name, s.err)
	}
	logger.Debugf("%s: started", a.name)
	return nil
}

// Stop ends the render goroutine. Called from outside a pass it blocks until
// the in-flight pass completes and the goroutine has exited, then returns the
// render failure that halted the loop, if any. Called from inside a pass it
// only requests termination: the loop exits once the current pass has been
// completed and counted.
//
// Stop on a stopped animator returns the failure that halted it, once, and
// ErrNotStarted after that.
func (a *Animator) Stop() error {
	a.mu.Lock()
	inPass := a.isPassGoroutine()
	if !inPass {
		a.awaitSettledLocked()
	}

	switch a.state {
	case StateStopped:
		err := a.failure
		a.failure = nil
		a.mu.Unlock()
		if err != nil {
			return err
		}
		return stateError("animator.Stop", a.name, ErrNotStarted)
	case StateStopping:
		a.mu.Unlock()
		return nil
	}

	s := a.session
	a.state = StateStopping
	a.transition = s.done
	a.cond.Broadcast()
	a.mu.Unlock()
	s.cancel()

	if inPass {
		logger.Debugf("%s: stop requested from pass", a.name)
		return nil
	}
	a.strategy.Await(s.done)

	a.mu.Lock()
	err := a.failure
	a.failure = nil
	a.mu.Unlock()
	logger.Debugf("%s: stopped", a.name)
	return err
}

// Pause suspends rendering after the current pass. It fails with
// ErrNotStarted unless the animator is running or paused.
func (a *Animator) Pause() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.isPassGoroutine() {
		a.awaitSettledLocked()
	}
	switch a.state {
	case StateRunning:
		a.state = StatePaused
	case StatePaused:
	default:
		return stateError("animator.Pause", a.name, ErrNotStarted)
	}
	return nil
}

// Resume continues a paused animator. It fails with ErrNotStarted unless the
// animator is running or paused.
func (a *Animator) Resume() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.isPassGoroutine() {
		a.awaitSettledLocked()
	}
	switch a.state {
	case StatePaused:
		a.state = StateRunning
		a.cond.Broadcast()
	case StateRunning:
	default:
		return stateError("animator.Resume", a.name, ErrNotStarted)
	}
	return nil
}

// Wait blocks until the current run ends or ctx is done and returns the
// failure that halted the loop, if any. It does not clear the failure. Do not
// call Wait on a UI goroutine that the animator's passes depend on.
func (a *Animator) Wait(ctx context.Context) error {
	a.mu.Lock()
	s := a.session
	a.mu.Unlock()

	if s != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return a.Err()
}

// Err returns the failure that halted the last run and has not yet been
// returned by Stop.
func (a *Animator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failure
}

// State returns the current lifecycle state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// IsStarted reports whether the render goroutine exists.
func (a *Animator) IsStarted() bool {
	return a.State() != StateStopped
}

// IsAnimating reports whether the animator is running with at least one
// drawable registered.
func (a *Animator) IsAnimating() bool {
	return a.State() == StateRunning && a.registry.Len() > 0
}

// IsPaused reports whether the animator is paused.
func (a *Animator) IsPaused() bool {
	return a.State() == StatePaused
}

// Thread returns the id of the render goroutine, or 0 when stopped.
func (a *Animator) Thread() int64 {
	return a.renderID.Load()
}

// SetIgnoreExceptions makes render failures non-fatal: the failing drawable
// is skipped and the pass continues. By default a failure halts the animator.
func (a *Animator) SetIgnoreExceptions(ignore bool) {
	a.ignoreExceptions.Store(ignore)
}

// SetPrintExceptions reports ignored render failures through the errors
// package handler.
func (a *Animator) SetPrintExceptions(enabled bool) {
	a.printExceptions.Store(enabled)
}

// ResetCounter restarts frame counting.
func (a *Animator) ResetCounter() { a.counter.Reset() }

// Duration returns the time between the last reset and the last frame.
func (a *Animator) Duration() time.Duration { return a.counter.Elapsed() }

// StartTime returns the time of the last counter reset.
func (a *Animator) StartTime() time.Time { return a.counter.StartTime() }

// CurrentTime returns the time of the last counted frame.
func (a *Animator) CurrentTime() time.Time { return a.counter.CurrentTime() }

// TotalFrames returns the passes counted since the last reset.
func (a *Animator) TotalFrames() int { return a.counter.TotalFrames() }

// LastFPS returns the frame rate of the last sampling window.
func (a *Animator) LastFPS() float64 { return a.counter.LastFPS() }

// TotalFPS returns the average frame rate since the last reset.
func (a *Animator) TotalFPS() float64 { return a.counter.TotalFPS() }

// SetUpdateFPSFrames enables FPS sampling every frames passes. See
// FrameCounter.SetUpdateFPSFrames.
func (a *Animator) SetUpdateFPSFrames(frames int, sink io.Writer) {
	a.counter.SetUpdateFPSFrames(frames, sink)
}

// FPSHistory returns the recorded FPS samples.
func (a *Animator) FPSHistory() []FPSSample { return a.counter.History() }

func (a *Animator) String() string {
	return fmt.Sprintf("%s[started %t, animating %t, paused %t, frames %d]",
		a.name, a.IsStarted(), a.IsAnimating(), a.IsPaused(), a.TotalFrames())
}

func (a *Animator) run(s *session) {
	a.renderID.Store(goid.Get())
	defer a.finish(s)

	if err := a.strategy.Begin(); err != nil {
		s.err = err
		return
	}

	a.mu.Lock()
	a.state = StateRunning
	a.transition = nil
	a.mu.Unlock()
	close(s.started)

	for a.awaitWork() {
		// Pause or Remove may have landed while waiting for the pacing slot.
		if a.pace != nil && (a.pace(s.ctx) != nil || !a.ready()) {
			continue
		}
		if err := a.pass(); err != nil {
			a.halt(err)
			return
		}
		a.counter.Tick()
	}
}

// awaitWork blocks while the animator is paused or has nothing to render. It
// returns false once stop has been requested.
func (a *Animator) awaitWork() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for {
		switch {
		case a.state == StateStopping:
			return false
		case a.state == StatePaused || a.registry.Len() == 0:
			a.cond.Wait()
		default:
			return true
		}
	}
}

func (a *Animator) ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateRunning && a.registry.Len() > 0
}

func (a *Animator) pass() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = passError(a.name, aerrors.NewPanicError("animator.Pass", r))
		}
	}()

	err = a.strategy.Pass(a.registry, a.display)
	var ae *aerrors.AnimatorError
	if err != nil && !errors.As(err, &ae) {
		err = passError(a.name, err)
	}
	return err
}

// display renders d and applies the exception policy. It may run on the UI
// goroutine on behalf of the render goroutine; calls made from there count as
// made from inside the pass.
func (a *Animator) display(d Drawable) (err error) {
	if id := goid.Get(); id != a.renderID.Load() {
		a.delegate.Store(id)
		defer a.delegate.Store(0)
	}
	defer func() {
		if r := recover(); r != nil {
			err = a.policy(d, aerrors.NewPanicError("animator.Display", r))
		}
	}()

	if derr := d.Display(); derr != nil {
		return a.policy(d, derr)
	}
	return nil
}

func (a *Animator) policy(d Drawable, cause error) error {
	failure := renderError(a.name, d, cause)
	if !a.ignoreExceptions.Load() {
		return failure
	}
	if a.printExceptions.Load() {
		aerrors.Report(failure)
	}
	return nil
}

func (a *Animator) halt(err error) {
	a.mu.Lock()
	a.failure = err
	if a.state != StateStopping {
		a.state = StateStopping
		a.transition = a.session.done
	}
	a.mu.Unlock()
	logger.Errorf("%s: halted: %v", a.name, err)
}

func (a *Animator) finish(s *session) {
	a.mu.Lock()
	a.state = StateStopped
	a.session = nil
	a.transition = nil
	a.renderID.Store(0)
	a.delegate.Store(0)
	a.mu.Unlock()

	s.cancel()
	select {
	case <-s.started:
	default:
		close(s.started)
	}
	close(s.done)
}

// awaitSettledLocked waits, with a.mu released, until no start or stop is in
// flight.
func (a *Animator) awaitSettledLocked() {
	for a.transition != nil {
		ch := a.transition
		a.mu.Unlock()
		a.strategy.Await(ch)
		a.mu.Lock()
	}
}

// isPassGoroutine reports whether the caller is running a pass, either as the
// render goroutine or on its behalf.
func (a *Animator) isPassGoroutine() bool {
	id := goid.Get()
	return id == a.renderID.Load() || id == a.delegate.Load()
}

func (a *Animator) wake() {
	a.mu.Lock()
	a.cond.Broadcast()
	a.mu.Unlock()
}
