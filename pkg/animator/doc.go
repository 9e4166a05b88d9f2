// Package animator drives a set of drawables from a dedicated render
// goroutine.
//
// An Animator owns an ordered registry of drawables. While running, its
// render goroutine repeatedly performs a pass: every registered drawable is
// displayed once, in insertion order, and the frame counter is advanced. The
// registry is guarded by a re-entrant lock, so a drawable may add or remove
// drawables (itself included) from inside Display.
//
// # Lifecycle
//
//	           Start              render goroutine ready
//	stopped ----------> starting ------------------------> running
//	   ^                   |                                |   ^
//	   |      start failed |                          Pause |   | Resume
//	   +-------------------+                                v   |
//	   |                                                    paused
//	   |        goroutine exited                             |
//	   +------------------------ stopping <------------------+
//	                                ^         Stop (running or paused)
//
// The loop sleeps, without holding the registry lock, while paused or while
// the registry is empty. Stop called from inside a pass only requests
// termination; the pass finishes and is counted before the goroutine exits.
//
// # Strategies
//
// DefaultStrategy displays everything on the render goroutine.
// UIThreadStrategy hands drawables that are hosted on a UI loop over to that
// loop and waits for them, pumping the loop when the waiter is the loop
// itself.
//
// # Failures
//
// A drawable that fails or panics halts the animator by default; the failure
// is returned by Stop or Wait. SetIgnoreExceptions keeps the loop running and
// SetPrintExceptions reports the ignored failures through the errors package.
//
// FPSAnimator paces passes with a token-bucket limiter.
package animator
