package canvas

import (
	"errors"
	"sync"
)

var (
	ErrFrameDisposed   = errors.New("canvas: frame disposed")
	ErrFrameOccupied   = errors.New("canvas: frame already holds a canvas")
	ErrCanvasNotInside = errors.New("canvas: canvas not attached to this frame")
)

// Frame is a top level window holding at most one canvas.
type Frame struct {
	mu       sync.Mutex
	title    string
	titles   int
	width    int
	height   int
	visible  bool
	disposed bool
	canvas   *Canvas
}

// NewFrame creates a hidden frame with a content area of the given size.
func NewFrame(title string, width, height int) *Frame {
	return &Frame{title: title, width: width, height: height}
}

// SetTitle replaces the title.
func (f *Frame) SetTitle(title string) {
	f.mu.Lock()
	f.title = title
	f.titles++
	f.mu.Unlock()
}

// Title returns the current title.
func (f *Frame) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}

// TitleUpdates returns how many times SetTitle was called.
func (f *Frame) TitleUpdates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.titles
}

// SetVisible shows or hides the frame.
func (f *Frame) SetVisible(visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return ErrFrameDisposed
	}
	f.visible = visible
	return nil
}

// Visible reports whether the frame is shown.
func (f *Frame) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Canvas returns the attached canvas, or nil.
func (f *Frame) Canvas() *Canvas {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canvas
}

// Attach places c in the frame, sizes it to the content area and realizes it.
func (f *Frame) Attach(c *Canvas) error {
	f.mu.Lock()
	switch {
	case f.disposed:
		f.mu.Unlock()
		return ErrFrameDisposed
	case f.canvas != nil:
		f.mu.Unlock()
		return ErrFrameOccupied
	}
	f.canvas = c
	width, height := f.width, f.height
	f.mu.Unlock()

	c.Resize(width, height)
	c.realize()
	return nil
}

// Detach removes c from the frame and unrealizes it.
func (f *Frame) Detach(c *Canvas) error {
	f.mu.Lock()
	if f.canvas != c || c == nil {
		f.mu.Unlock()
		return ErrCanvasNotInside
	}
	f.canvas = nil
	f.mu.Unlock()

	c.unrealize()
	return nil
}

// Dispose hides the frame and unrealizes its canvas. Further attaches fail.
func (f *Frame) Dispose() {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	f.visible = false
	c := f.canvas
	f.canvas = nil
	f.mu.Unlock()

	if c != nil {
		c.unrealize()
	}
}
