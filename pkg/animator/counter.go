package animator

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// FrameCounter tracks frame totals and frames per second for an animator.
//
// LastFPS is measured over windows of N frames (see SetUpdateFPSFrames) and is
// zero until the first window completes. TotalFPS is the lifetime average,
// totalFrames divided by the seconds since the last Reset, and is zero while
// no time has elapsed.
type FrameCounter struct {
	mu      sync.Mutex
	clock   Clock
	name    string
	start   time.Time
	current time.Time
	total   int

	updateEvery  int
	sink         io.Writer
	windowStart  time.Time
	windowFrames int
	lastFPS      float64

	history *SampleBuffer
}

// NewFrameCounter creates a counter reset to the clock's current time.
func NewFrameCounter(name string, clock Clock) *FrameCounter {
	if clock == nil {
		clock = SystemClock
	}
	c := &FrameCounter{
		clock:   clock,
		name:    name,
		history: NewSampleBuffer(fpsSamplesDefault),
	}
	c.Reset()
	return c
}

// Reset sets start and current time to now and clears all frame totals and
// FPS samples.
func (c *FrameCounter) Reset() {
	now := c.clock.Now()

	c.mu.Lock()
	c.start = now
	c.current = now
	c.total = 0
	c.windowStart = now
	c.windowFrames = 0
	c.lastFPS = 0
	c.mu.Unlock()

	c.history.Clear()
}

// Tick records one completed pass.
func (c *FrameCounter) Tick() {
	now := c.clock.Now()

	c.mu.Lock()
	if now.After(c.current) {
		c.current = now
	}
	c.total++

	if c.updateEvery <= 0 {
		c.mu.Unlock()
		return
	}
	c.windowFrames++
	if c.windowFrames < c.updateEvery {
		c.mu.Unlock()
		return
	}

	window := c.current.Sub(c.windowStart)
	if window > 0 {
		c.lastFPS = float64(c.windowFrames) / window.Seconds()
	}
	sample := FPSSample{
		Timestamp:   c.current,
		TotalFrames: c.total,
		Window:      c.windowFrames,
		LastFPS:     c.lastFPS,
		TotalFPS:    c.totalFPSLocked(),
	}
	elapsed := c.current.Sub(c.start)
	c.windowStart = c.current
	c.windowFrames = 0
	sink := c.sink
	c.mu.Unlock()

	c.history.Add(sample)
	if sink != nil {
		fmt.Fprintf(sink, "%s: %d f / %d ms, %.2f fps; total: %d f / %d ms, %.2f fps\n",
			c.name, sample.Window, window.Milliseconds(), sample.LastFPS,
			sample.TotalFrames, elapsed.Milliseconds(), sample.TotalFPS)
	}
}

// SetUpdateFPSFrames measures LastFPS every frames passes and writes a
// summary line to sink after each window when sink is not nil. Zero or a
// negative value turns sampling off. The current window restarts.
func (c *FrameCounter) SetUpdateFPSFrames(frames int, sink io.Writer) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if frames < 0 {
		frames = 0
	}
	c.updateEvery = frames
	c.sink = sink
	c.windowStart = now
	c.windowFrames = 0
	c.lastFPS = 0
}

// UpdateFPSFrames returns the sampling window size in frames; 0 means off.
func (c *FrameCounter) UpdateFPSFrames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateEvery
}

// StartTime returns the time of the last Reset.
func (c *FrameCounter) StartTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start
}

// CurrentTime returns the time of the last Tick, or of the last Reset when
// no frame has been counted since.
func (c *FrameCounter) CurrentTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Elapsed returns CurrentTime - StartTime.
func (c *FrameCounter) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Sub(c.start)
}

// TotalFrames returns the number of passes since the last Reset.
func (c *FrameCounter) TotalFrames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// LastFPS returns the frames per second of the last completed window.
func (c *FrameCounter) LastFPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFPS
}

// TotalFPS returns the lifetime average frames per second.
func (c *FrameCounter) TotalFPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalFPSLocked()
}

// History returns the recorded FPS samples in chronological order.
func (c *FrameCounter) History() []FPSSample {
	return c.history.Snapshot()
}

func (c *FrameCounter) totalFPSLocked() float64 {
	elapsed := c.current.Sub(c.start)
	if elapsed <= 0 {
		return 0
	}
	return float64(c.total) / elapsed.Seconds()
}
