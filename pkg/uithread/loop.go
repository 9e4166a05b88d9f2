// Package uithread provides a single-goroutine event loop that stands in for
// a host UI toolkit's event dispatch thread.
//
// Work is handed to the loop with InvokeAndWait or InvokeLater and runs on
// the loop goroutine in submission order. Code already running on the loop
// goroutine that must wait for another goroutine which in turn needs the loop
// should wait with PumpUntil, which keeps executing queued work.
package uithread

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	aerrors "github.com/go-drift/animator/pkg/errors"
	"github.com/go-drift/animator/pkg/log"
)

var logger = log.New("uithread")

var (
	// ErrLoopStopped is returned for work submitted to a loop that is not
	// running, or that was still queued when the loop stopped.
	ErrLoopStopped = errors.New("uithread: loop stopped")

	// ErrAlreadyRunning is returned by Start and Run on a loop that has
	// already been run.
	ErrAlreadyRunning = errors.New("uithread: loop already running")
)

const (
	pending int32 = iota
	running
	cancelled
)

// invocation is a queued function with its completion signal.
type invocation struct {
	f     func()
	state atomic.Int32
	done  chan struct{}
	err   error
}

// Loop is a UI event loop. The zero value is not usable; call New.
type Loop struct {
	name string

	mu     sync.Mutex
	queue  []*invocation
	closed bool
	used   bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once

	id      atomic.Int64
	running atomic.Bool
}

// New creates a loop that has not been started.
func New(name string) *Loop {
	return &Loop{
		name:    name,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Name returns the loop name.
func (l *Loop) Name() string { return l.name }

// Start runs the loop on a new goroutine and returns once it accepts work.
func (l *Loop) Start() error {
	ready := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- l.run(context.Background(), ready)
	}()
	select {
	case <-ready:
		return nil
	case err := <-errc:
		return err
	}
}

// Run executes the loop on the calling goroutine until ctx is done or Stop is
// called. A loop can only be run once.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, nil)
}

func (l *Loop) run(ctx context.Context, ready chan<- struct{}) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	if l.used {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.used = true
	l.mu.Unlock()

	l.id.Store(goid.Get())
	l.running.Store(true)
	defer l.shutdown()
	if ready != nil {
		close(ready)
	}
	logger.Debugf("%s: running", l.name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-l.wake:
			l.drain()
		}
	}
}

// Stop ends the loop. Work still queued fails with ErrLoopStopped. Called
// from outside the loop goroutine it waits for the loop to exit.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })

	l.mu.Lock()
	used := l.used
	l.mu.Unlock()
	if !used {
		l.shutdown()
		return
	}
	if !l.IsLoopGoroutine() {
		<-l.stopped
	}
}

// Running reports whether the loop accepts work.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// IsLoopGoroutine reports whether the caller is the loop goroutine.
func (l *Loop) IsLoopGoroutine() bool {
	id := l.id.Load()
	return id != 0 && id == goid.Get()
}

// InvokeAndWait runs f on the loop goroutine and waits for it to finish. On
// the loop goroutine f runs inline. If ctx ends while f is still queued, f is
// dropped and ctx.Err() is returned; once f has begun InvokeAndWait waits for
// it to complete. A panic in f is returned as *errors.PanicError.
func (l *Loop) InvokeAndWait(ctx context.Context, f func()) error {
	if l.IsLoopGoroutine() {
		return l.call(f)
	}

	inv, err := l.enqueue(f)
	if err != nil {
		return err
	}

	select {
	case <-inv.done:
		return inv.err
	case <-ctx.Done():
		if inv.state.CompareAndSwap(pending, cancelled) {
			return ctx.Err()
		}
		<-inv.done
		return inv.err
	}
}

// InvokeLater queues f to run on the loop goroutine and returns immediately.
// A panic in f is reported through the errors package.
func (l *Loop) InvokeLater(f func()) error {
	_, err := l.enqueue(func() {
		defer aerrors.Recover("uithread.InvokeLater")
		f()
	})
	return err
}

// PumpUntil runs queued work until done is closed. Off the loop goroutine it
// simply waits for done.
func (l *Loop) PumpUntil(done <-chan struct{}) {
	if !l.IsLoopGoroutine() {
		<-done
		return
	}
	for {
		select {
		case <-done:
			return
		case <-l.wake:
			l.drain()
		}
	}
}

func (l *Loop) enqueue(f func()) (*invocation, error) {
	inv := &invocation{f: f, done: make(chan struct{})}

	l.mu.Lock()
	if l.closed || !l.used {
		l.mu.Unlock()
		return nil, ErrLoopStopped
	}
	l.queue = append(l.queue, inv)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return inv, nil
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		inv := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		if !inv.state.CompareAndSwap(pending, running) {
			continue
		}
		inv.err = l.call(inv.f)
		close(inv.done)
	}
}

func (l *Loop) call(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = aerrors.NewPanicError("uithread.InvokeAndWait", r)
		}
	}()
	f()
	return nil
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	l.running.Store(false)
	for _, inv := range queue {
		if inv.state.CompareAndSwap(pending, cancelled) {
			inv.err = ErrLoopStopped
			close(inv.done)
		}
	}
	l.id.Store(0)
	close(l.stopped)
	logger.Debugf("%s: stopped", l.name)
}
