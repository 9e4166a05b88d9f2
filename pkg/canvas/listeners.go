package canvas

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TitleListener writes the frame count and frame rate into a Frame's title
// on every frame except the first one after Init.
type TitleListener struct {
	Frame *Frame
	// FPS supplies the rate shown in the title. Nil shows 0.
	FPS func() float64

	mu          sync.Mutex
	frames      int
	initialized bool
}

// ResetFrames restarts the frame count.
func (t *TitleListener) ResetFrames() {
	t.mu.Lock()
	t.frames = 0
	t.mu.Unlock()
}

// Frames returns the number of frames seen.
func (t *TitleListener) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

func (t *TitleListener) Init(*Canvas) {
	t.mu.Lock()
	t.initialized = true
	t.mu.Unlock()
}

func (t *TitleListener) Display(*Canvas) error {
	t.mu.Lock()
	skip := t.initialized
	frames := t.frames
	t.frames++
	t.initialized = false
	t.mu.Unlock()

	if skip || t.Frame == nil {
		return nil
	}
	fps := 0.0
	if t.FPS != nil {
		fps = t.FPS()
	}
	t.Frame.SetTitle(fmt.Sprintf("f %d, fps %.2f", frames, fps))
	return nil
}

func (t *TitleListener) Reshape(*Canvas, int, int, int, int) {}

func (t *TitleListener) Dispose(*Canvas) {}

// HUDListener clears the surface with a color that cycles per frame and
// prints the canvas name and frame number in its top left corner.
type HUDListener struct {
	Palette []color.RGBA

	face   font.Face
	bounds image.Rectangle
	frame  int
}

var defaultPalette = []color.RGBA{
	{R: 0x20, G: 0x20, B: 0x30, A: 0xff},
	{R: 0x30, G: 0x20, B: 0x20, A: 0xff},
	{R: 0x20, G: 0x30, B: 0x20, A: 0xff},
}

func (h *HUDListener) Init(*Canvas) {
	h.face = basicfont.Face7x13
	h.frame = 0
}

func (h *HUDListener) Reshape(_ *Canvas, x, y, width, height int) {
	h.bounds = image.Rect(x, y, x+width, y+height)
}

func (h *HUDListener) Display(c *Canvas) error {
	dst := c.Surface()
	if dst == nil {
		return nil
	}
	palette := h.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}
	bg := palette[h.frame%len(palette)]
	draw.Draw(dst, h.bounds.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Src)

	ascent := h.face.Metrics().Ascent
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: h.face,
		Dot:  fixed.Point26_6{X: fixed.I(h.bounds.Min.X + 4), Y: fixed.I(h.bounds.Min.Y+4) + ascent},
	}
	d.DrawString(fmt.Sprintf("%s #%d", c.Name(), h.frame))
	h.frame++
	return nil
}

func (h *HUDListener) Dispose(*Canvas) {
	h.face = nil
}
