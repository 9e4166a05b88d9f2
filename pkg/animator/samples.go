package animator

import (
	"sync"
	"time"
)

const fpsSamplesDefault = 120

// FPSSample is one completed FPS measurement window.
type FPSSample struct {
	Timestamp   time.Time `json:"ts" yaml:"ts"`
	TotalFrames int       `json:"totalFrames" yaml:"totalFrames"`
	Window      int       `json:"window" yaml:"window"`
	LastFPS     float64   `json:"lastFps" yaml:"lastFps"`
	TotalFPS    float64   `json:"totalFps" yaml:"totalFps"`
}

// SampleBuffer stores recent FPS samples in a ring buffer.
type SampleBuffer struct {
	mu      sync.RWMutex
	samples []FPSSample
	index   int
	count   int
}

// NewSampleBuffer creates a buffer holding the last capacity samples.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity <= 0 {
		capacity = fpsSamplesDefault
	}
	return &SampleBuffer{
		samples: make([]FPSSample, capacity),
	}
}

// Capacity returns the buffer capacity.
func (b *SampleBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Add stores a sample, overwriting the oldest one when full.
func (b *SampleBuffer) Add(sample FPSSample) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	b.mu.Unlock()
}

// Clear drops all samples.
func (b *SampleBuffer) Clear() {
	b.mu.Lock()
	b.index = 0
	b.count = 0
	b.mu.Unlock()
}

// Snapshot returns samples in chronological order.
func (b *SampleBuffer) Snapshot() []FPSSample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	result := make([]FPSSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return result
}
