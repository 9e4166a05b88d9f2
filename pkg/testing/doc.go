// Package testing provides fixtures for exercising animators.
//
// FakeClock makes frame counters deterministic:
//
//	clk := animtest.NewSteppingClock(10 * time.Millisecond)
//	a := animator.New(animator.WithClock(clk))
//
// Drawable records every Display call, the goroutine it ran on and, through a
// shared Log, the order across drawables. OnDisplay hooks let a test fail,
// panic or call back into the animator from inside a pass:
//
//	log := &animtest.Log{}
//	d := animtest.NewDrawable("d", log)
//	d.OnDisplay = func(call int) error {
//	    if call == 3 {
//	        return a.Stop()
//	    }
//	    return nil
//	}
package testing
