package animator

import (
	"context"
	"errors"
)

// DisplayFunc renders one drawable on behalf of an animator and applies its
// exception policy. A non-nil result is fatal for the pass.
type DisplayFunc func(d Drawable) error

// Strategy decides where and how a render pass runs. It is chosen once, when
// the animator is created.
type Strategy interface {
	// Prefix is the base used for generated animator names.
	Prefix() string

	// Begin runs on the render goroutine before the first pass. An error
	// aborts Start with ErrStartFailure.
	Begin() error

	// Pass displays every drawable of r in registry order. It stops at the
	// first error returned by display and returns it.
	Pass(r *Registry, display DisplayFunc) error

	// Await blocks until done is closed. Implementations that hand work to
	// another goroutine must keep that work flowing while they wait.
	Await(done <-chan struct{})
}

// DefaultStrategy runs every pass on the render goroutine with the registry
// locked for the whole pass. A drawable removed earlier in the same pass is
// skipped.
type DefaultStrategy struct{}

func (DefaultStrategy) Prefix() string { return "Animator" }

func (DefaultStrategy) Begin() error { return nil }

func (DefaultStrategy) Pass(r *Registry, display DisplayFunc) error {
	drawables := r.Acquire()
	defer r.Release()
	return displayGroup(r, drawables, display)
}

func (DefaultStrategy) Await(done <-chan struct{}) { <-done }

// UIInvoker is the part of a host UI loop the UI-thread strategy needs.
// *uithread.Loop implements it.
type UIInvoker interface {
	InvokeAndWait(ctx context.Context, f func()) error
	IsLoopGoroutine() bool
	PumpUntil(done <-chan struct{})
	Running() bool
}

var errNoUILoop = errors.New("animator: no running UI loop")

// UIThreadStrategy displays drawables that report HostedOnUIThread on the UI
// loop and everything else on the render goroutine.
//
// The registry lock is never held while waiting for the UI loop. Each pass
// works on a snapshot taken when it begins; a drawable removed after that is
// skipped, because membership is checked again right before it is displayed.
type UIThreadStrategy struct {
	Loop UIInvoker
}

func (s UIThreadStrategy) Prefix() string { return "UIAnimator" }

func (s UIThreadStrategy) Begin() error {
	if s.Loop == nil || !s.Loop.Running() {
		return errNoUILoop
	}
	return nil
}

func (s UIThreadStrategy) Pass(r *Registry, display DisplayFunc) error {
	drawables := r.Snapshot()
	for start := 0; start < len(drawables); {
		hosted := isHosted(drawables[start])
		end := start + 1
		for end < len(drawables) && isHosted(drawables[end]) == hosted {
			end++
		}
		group := drawables[start:end]
		start = end

		var err error
		if hosted {
			err = s.onLoop(r, group, display)
		} else {
			err = displayGroup(r, group, display)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s UIThreadStrategy) Await(done <-chan struct{}) {
	if s.Loop != nil && s.Loop.IsLoopGoroutine() {
		s.Loop.PumpUntil(done)
		return
	}
	<-done
}

func (s UIThreadStrategy) onLoop(r *Registry, group []Drawable, display DisplayFunc) error {
	var err error
	invokeErr := s.Loop.InvokeAndWait(context.Background(), func() {
		err = displayGroup(r, group, display)
	})
	if invokeErr != nil {
		return invokeErr
	}
	return err
}

// displayGroup displays the members of group that are still registered when
// their turn comes.
func displayGroup(r *Registry, group []Drawable, display DisplayFunc) error {
	r.Acquire()
	defer r.Release()
	for _, d := range group {
		if r.indexLocked(d) < 0 {
			continue
		}
		if err := display(d); err != nil {
			return err
		}
	}
	return nil
}
