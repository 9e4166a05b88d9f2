package testing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/petermattis/goid"

	"github.com/go-drift/animator/pkg/animator"
)

// ErrInjected is returned by drawables configured to fail.
var ErrInjected = errors.New("injected display failure")

// Drawable is a scriptable drawable that records every Display call.
//
// OnDisplay, when set, runs inside Display with the 1-based call number; its
// error is returned from Display. Set it before the drawable is added to a
// running animator.
type Drawable struct {
	animator.Ownership

	Label     string
	Hosted    bool
	OnDisplay func(call int) error

	mu      sync.Mutex
	calls   int
	threads []int64
	log     *Log
}

// NewDrawable creates a recording drawable. log may be nil; when set, every
// Display appends Label to it.
func NewDrawable(label string, log *Log) *Drawable {
	return &Drawable{Label: label, log: log}
}

// Display records the call and runs OnDisplay.
func (d *Drawable) Display() error {
	d.mu.Lock()
	d.calls++
	call := d.calls
	d.threads = append(d.threads, goid.Get())
	d.mu.Unlock()

	if d.log != nil {
		d.log.Append(d.Label)
	}
	if d.OnDisplay != nil {
		return d.OnDisplay(call)
	}
	return nil
}

// HostedOnUIThread reports the Hosted field.
func (d *Drawable) HostedOnUIThread() bool { return d.Hosted }

// Calls returns the number of Display calls.
func (d *Drawable) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Goroutines returns the goroutine id of every Display call, in order.
func (d *Drawable) Goroutines() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int64, len(d.threads))
	copy(out, d.threads)
	return out
}

func (d *Drawable) String() string {
	return fmt.Sprintf("drawable(%s)", d.Label)
}

// Failing returns a drawable whose every Display fails with ErrInjected.
func Failing(label string, log *Log) *Drawable {
	d := NewDrawable(label, log)
	d.OnDisplay = func(int) error { return ErrInjected }
	return d
}

// Panicking returns a drawable whose every Display panics with value.
func Panicking(label string, value any) *Drawable {
	d := NewDrawable(label, nil)
	d.OnDisplay = func(int) error { panic(value) }
	return d
}

// Log is a concurrency-safe append-only list of labels, used to check the
// order drawables were displayed in.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Append adds an entry.
func (l *Log) Append(entry string) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a copy of the entries.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset drops all entries.
func (l *Log) Reset() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
