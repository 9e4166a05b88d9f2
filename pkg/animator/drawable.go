package animator

import (
	"fmt"
	"sync"
)

// Control is the view of an animator handed to the drawables it owns.
// Pause and Resume never block, so a drawable may call them from any
// goroutine, including from inside its own Display.
type Control interface {
	Name() string
	IsStarted() bool
	IsAnimating() bool
	IsPaused() bool
	Pause() error
	Resume() error
}

// Drawable is a renderable target driven by an Animator.
//
// Implementations must be comparable (typically pointers); the registry finds
// drawables by equality.
type Drawable interface {
	// Display renders one frame. A returned error, or a panic, is a render
	// failure handled by the animator's exception policy.
	Display() error

	// SetAnimator records the owning animator, or clears it when a is nil.
	// It returns ErrOwnershipConflict when a different animator already owns
	// the drawable.
	SetAnimator(a Control) error
}

// UIHosted is implemented by drawables that live inside a host UI and must be
// displayed on its UI goroutine when driven by a UIThreadStrategy.
type UIHosted interface {
	HostedOnUIThread() bool
}

// Ownership implements the single-owner half of Drawable. Embed it in a
// drawable type to get SetAnimator and Animator.
type Ownership struct {
	mu    sync.Mutex
	owner Control
}

// SetAnimator registers a as owner, or clears the owner when a is nil.
func (o *Ownership) SetAnimator(a Control) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a != nil && o.owner != nil && o.owner != a {
		return fmt.Errorf("%w: owned by %s", ErrOwnershipConflict, o.owner.Name())
	}
	o.owner = a
	return nil
}

// Animator returns the current owner, or nil.
func (o *Ownership) Animator() Control {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.owner
}

func isHosted(d Drawable) bool {
	h, ok := d.(UIHosted)
	return ok && h.HostedOnUIThread()
}

func drawableName(d Drawable) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", d)
}
