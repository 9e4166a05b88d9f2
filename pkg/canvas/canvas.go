// Package canvas provides an in-memory drawable surface hosted in a frame on
// a UI loop, with event listeners driven through its lifecycle.
//
// A Canvas only renders while it is attached to a Frame. Attaching realizes
// it; detaching disposes every initialized listener and, when the owning
// animator is animating, pauses the animator around the teardown.
//
// Lock order: canvas locks may be held while taking a Frame's lock, never the
// other way around. Frame methods release their own lock before calling into
// a canvas.
package canvas

import (
	"image"
	"sync"

	"github.com/go-drift/animator/pkg/animator"
)

// Listener receives canvas lifecycle events. All callbacks run on the
// goroutine that displays or detaches the canvas.
type Listener interface {
	// Init runs before the first Display after the listener was added or the
	// canvas was realized.
	Init(c *Canvas)
	// Display renders one frame.
	Display(c *Canvas) error
	// Reshape runs after Init and whenever the surface size changes.
	Reshape(c *Canvas, x, y, width, height int)
	// Dispose releases what Init acquired.
	Dispose(c *Canvas)
}

type listenerState struct {
	listener    Listener
	initialized bool
}

// Canvas is a Drawable that renders its listeners into an RGBA surface.
type Canvas struct {
	animator.Ownership

	name string

	// drawMu serializes Display with realize, unrealize and listener
	// disposal.
	drawMu   sync.Mutex
	surface  *image.RGBA
	realized bool

	mu        sync.Mutex
	listeners []*listenerState
	width     int
	height    int
	frames    int
}

// New creates an unrealized canvas of the given size.
func New(name string, width, height int) *Canvas {
	return &Canvas{
		name:   name,
		width:  width,
		height: height,
	}
}

// Name returns the canvas name.
func (c *Canvas) Name() string { return c.name }

func (c *Canvas) String() string { return "canvas(" + c.name + ")" }

// HostedOnUIThread reports true: a canvas is displayed on its host's UI loop
// when the animator uses a UI-thread strategy.
func (c *Canvas) HostedOnUIThread() bool { return true }

// Size returns the surface size.
func (c *Canvas) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Frames returns the number of frames rendered while realized.
func (c *Canvas) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Realized reports whether the canvas is attached to a frame.
func (c *Canvas) Realized() bool {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()
	return c.realized
}

// AddListener appends l. It is initialized before the next frame.
func (c *Canvas) AddListener(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, &listenerState{listener: l})
	c.mu.Unlock()
}

// Listeners returns the registered listeners in call order.
func (c *Canvas) Listeners() []Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Listener, len(c.listeners))
	for i, st := range c.listeners {
		out[i] = st.listener
	}
	return out
}

// DisposeListener disposes l if it was initialized and, when remove is set,
// unregisters it. It returns l, or nil when l is not registered. A disposed
// listener that stays registered is initialized again before the next frame.
func (c *Canvas) DisposeListener(l Listener, remove bool) Listener {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()

	c.mu.Lock()
	idx := -1
	for i, st := range c.listeners {
		if st.listener == l {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}
	st := c.listeners[idx]
	if remove {
		c.listeners = append(c.listeners[:idx:idx], c.listeners[idx+1:]...)
	}
	c.mu.Unlock()

	if st.initialized {
		st.listener.Dispose(c)
		st.initialized = false
	}
	return l
}

// Surface returns the render target. It is only valid inside listener
// callbacks.
func (c *Canvas) Surface() *image.RGBA {
	return c.surface
}

// Snapshot returns a copy of the last rendered frame, or nil when the canvas
// is not realized.
func (c *Canvas) Snapshot() *image.RGBA {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()
	if c.surface == nil {
		return nil
	}
	out := image.NewRGBA(c.surface.Rect)
	copy(out.Pix, c.surface.Pix)
	return out
}

// Display renders one frame through every listener in order. An unrealized
// canvas renders nothing.
func (c *Canvas) Display() error {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()
	if !c.realized {
		return nil
	}

	c.mu.Lock()
	states := make([]*listenerState, len(c.listeners))
	copy(states, c.listeners)
	width, height := c.width, c.height
	c.mu.Unlock()

	for _, st := range states {
		if !st.initialized {
			st.listener.Init(c)
			st.initialized = true
			st.listener.Reshape(c, 0, 0, width, height)
		}
		if err := st.listener.Display(c); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
	return nil
}

// Resize changes the surface size and reshapes initialized listeners.
func (c *Canvas) Resize(width, height int) {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()

	c.mu.Lock()
	c.width, c.height = width, height
	states := make([]*listenerState, len(c.listeners))
	copy(states, c.listeners)
	c.mu.Unlock()

	if !c.realized {
		return
	}
	c.surface = image.NewRGBA(image.Rect(0, 0, width, height))
	for _, st := range states {
		if st.initialized {
			st.listener.Reshape(c, 0, 0, width, height)
		}
	}
}

func (c *Canvas) realize() {
	c.drawMu.Lock()
	defer c.drawMu.Unlock()
	if c.realized {
		return
	}
	width, height := c.Size()
	c.surface = image.NewRGBA(image.Rect(0, 0, width, height))
	c.realized = true
}

// unrealize disposes all listeners. An animating owner is paused for the
// duration so no pass starts on a half torn down canvas, and resumed only if
// it still owns the canvas and is still paused afterwards. A Pause issued by
// someone else during the teardown cannot be told apart from this one and is
// undone by that resume.
func (c *Canvas) unrealize() {
	var paused animator.Control
	if owner := c.Animator(); owner != nil && owner.IsAnimating() {
		if owner.Pause() == nil {
			paused = owner
		}
	}

	c.drawMu.Lock()
	if c.realized {
		c.mu.Lock()
		states := make([]*listenerState, len(c.listeners))
		copy(states, c.listeners)
		c.mu.Unlock()

		for _, st := range states {
			if st.initialized {
				st.listener.Dispose(c)
				st.initialized = false
			}
		}
		c.realized = false
		c.surface = nil
	}
	c.drawMu.Unlock()

	if paused != nil && c.Animator() == paused && paused.IsPaused() {
		_ = paused.Resume()
	}
}
