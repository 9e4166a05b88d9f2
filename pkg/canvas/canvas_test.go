package canvas

import (
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/animator/pkg/animator"
)

type recordingListener struct {
	mu     sync.Mutex
	events []string
	fail   error
}

func (r *recordingListener) record(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordingListener) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingListener) Init(*Canvas) { r.record("init") }

func (r *recordingListener) Display(*Canvas) error {
	r.record("display")
	return r.fail
}

func (r *recordingListener) Reshape(_ *Canvas, _, _, w, h int) {
	r.record("reshape")
}

func (r *recordingListener) Dispose(*Canvas) { r.record("dispose") }

func TestCanvas_UnrealizedDisplaysNothing(t *testing.T) {
	c := New("c", 32, 32)
	l := &recordingListener{}
	c.AddListener(l)

	require.NoError(t, c.Display())
	assert.Empty(t, l.Events())
	assert.Zero(t, c.Frames())
	assert.Nil(t, c.Snapshot())
}

func TestCanvas_ListenerLifecycle(t *testing.T) {
	f := NewFrame("title", 64, 48)
	c := New("c", 10, 10)
	l := &recordingListener{}
	c.AddListener(l)

	require.NoError(t, f.Attach(c))
	w, h := c.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
	assert.True(t, c.Realized())

	require.NoError(t, c.Display())
	require.NoError(t, c.Display())
	assert.Equal(t, []string{"init", "reshape", "display", "display"}, l.Events())

	c.Resize(100, 100)
	assert.Equal(t, "reshape", l.Events()[4])

	assert.Same(t, l, c.DisposeListener(l, false))
	require.NoError(t, c.Display())
	assert.Equal(t, []string{"init", "reshape", "display", "display", "reshape", "dispose", "init", "reshape", "display"}, l.Events())

	require.NoError(t, f.Detach(c))
	assert.False(t, c.Realized())
	assert.Equal(t, "dispose", l.Events()[len(l.Events())-1])
	assert.Equal(t, 3, c.Frames())
}

func TestCanvas_DisposeListenerRemove(t *testing.T) {
	c := New("c", 8, 8)
	l := &recordingListener{}
	other := &recordingListener{}
	c.AddListener(l)

	assert.Nil(t, c.DisposeListener(other, true))
	assert.Same(t, l, c.DisposeListener(l, true))
	assert.Empty(t, c.Listeners())
	assert.Empty(t, l.Events(), "never initialized, nothing to dispose")
}

func TestCanvas_ListenerFailure(t *testing.T) {
	f := NewFrame("title", 8, 8)
	c := New("c", 8, 8)
	boom := errors.New("boom")
	c.AddListener(&recordingListener{fail: boom})
	require.NoError(t, f.Attach(c))

	require.ErrorIs(t, c.Display(), boom)
	assert.Zero(t, c.Frames())
}

func TestCanvas_HUDDrawsIntoSurface(t *testing.T) {
	f := NewFrame("title", 120, 40)
	c := New("hud", 0, 0)
	c.AddListener(&HUDListener{Palette: []color.RGBA{{R: 0x10, G: 0x20, B: 0x30, A: 0xff}}})
	require.NoError(t, f.Attach(c))
	require.NoError(t, c.Display())

	img := c.Snapshot()
	require.NotNil(t, img)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, img.RGBAAt(119, 39))

	white := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 80; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
				white++
			}
		}
	}
	assert.Greater(t, white, 0, "text rendered")
}

func TestTitleListener_SkipsFirstFrameAfterInit(t *testing.T) {
	f := NewFrame("Generic Title", 8, 8)
	c := New("c", 8, 8)
	title := &TitleListener{Frame: f, FPS: func() float64 { return 12.5 }}
	c.AddListener(title)
	require.NoError(t, f.Attach(c))

	require.NoError(t, c.Display())
	assert.Equal(t, "Generic Title", f.Title())

	require.NoError(t, c.Display())
	assert.Equal(t, "f 1, fps 12.50", f.Title())
	assert.Equal(t, 2, title.Frames())

	title.ResetFrames()
	require.NoError(t, c.Display())
	assert.Equal(t, "f 0, fps 12.50", f.Title())
	assert.Equal(t, 2, f.TitleUpdates())
}

func TestFrame_AttachRules(t *testing.T) {
	f := NewFrame("t", 8, 8)
	c1 := New("c1", 8, 8)
	c2 := New("c2", 8, 8)

	require.NoError(t, f.Attach(c1))
	require.ErrorIs(t, f.Attach(c2), ErrFrameOccupied)
	require.ErrorIs(t, f.Detach(c2), ErrCanvasNotInside)
	assert.Same(t, c1, f.Canvas())

	require.NoError(t, f.SetVisible(true))
	assert.True(t, f.Visible())

	f.Dispose()
	assert.False(t, f.Visible())
	assert.False(t, c1.Realized())
	assert.Nil(t, f.Canvas())
	require.ErrorIs(t, f.Attach(c2), ErrFrameDisposed)
	require.ErrorIs(t, f.SetVisible(true), ErrFrameDisposed)
}

type fakeControl struct {
	animating bool
	calls     []string
	onPause   func()
}

func (f *fakeControl) Name() string      { return "fake" }
func (f *fakeControl) IsStarted() bool   { return true }
func (f *fakeControl) IsAnimating() bool { return f.animating }
func (f *fakeControl) IsPaused() bool    { return !f.animating }
func (f *fakeControl) Pause() error {
	f.calls = append(f.calls, "pause")
	f.animating = false
	if f.onPause != nil {
		f.onPause()
	}
	return nil
}
func (f *fakeControl) Resume() error {
	f.calls = append(f.calls, "resume")
	f.animating = true
	return nil
}

var _ animator.Control = (*fakeControl)(nil)

func TestCanvas_DetachPausesAnimatingOwner(t *testing.T) {
	f := NewFrame("t", 8, 8)
	c := New("c", 8, 8)
	owner := &fakeControl{animating: true}
	require.NoError(t, c.SetAnimator(owner))
	require.NoError(t, f.Attach(c))

	require.NoError(t, f.Detach(c))
	assert.Equal(t, []string{"pause", "resume"}, owner.calls)

	idle := &fakeControl{}
	c2 := New("c2", 8, 8)
	require.NoError(t, c2.SetAnimator(idle))
	require.NoError(t, f.Attach(c2))
	require.NoError(t, f.Detach(c2))
	assert.Empty(t, idle.calls)
}

func TestCanvas_DetachDoesNotResumeReleasedOwner(t *testing.T) {
	f := NewFrame("t", 8, 8)
	c := New("c", 8, 8)
	owner := &fakeControl{animating: true}
	require.NoError(t, c.SetAnimator(owner))
	require.NoError(t, f.Attach(c))

	// The owner lets go of the canvas while the teardown is in progress.
	owner.onPause = func() { require.NoError(t, c.SetAnimator(nil)) }
	require.NoError(t, f.Detach(c))
	assert.Equal(t, []string{"pause"}, owner.calls)
}

func TestCanvas_DetachDoesNotResumeStoppedOwner(t *testing.T) {
	f := NewFrame("t", 8, 8)
	c := New("c", 8, 8)
	owner := &fakeControl{animating: true}
	require.NoError(t, c.SetAnimator(owner))
	require.NoError(t, f.Attach(c))

	// Stopped during the teardown: neither animating nor paused.
	stopped := &stoppedControl{fakeControl: owner}
	require.NoError(t, c.SetAnimator(nil))
	require.NoError(t, c.SetAnimator(stopped))
	owner.onPause = func() { stopped.stopped = true }
	require.NoError(t, f.Detach(c))
	assert.Equal(t, []string{"pause"}, owner.calls)
}

type stoppedControl struct {
	*fakeControl
	stopped bool
}

func (s *stoppedControl) IsPaused() bool { return !s.stopped && s.fakeControl.IsPaused() }
