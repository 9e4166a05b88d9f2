package animator

import (
	"math"

	"golang.org/x/time/rate"
)

// FPSAnimator is an Animator that runs at most a fixed number of passes per
// second. Waiting for the next slot is cut short by Stop.
type FPSAnimator struct {
	*Animator
	limiter *rate.Limiter
}

// NewFPSAnimator creates a stopped animator paced at fps passes per second.
// A non-positive fps disables pacing.
func NewFPSAnimator(fps float64, opts ...Option) *FPSAnimator {
	f := &FPSAnimator{
		limiter: rate.NewLimiter(limitFor(fps), 1),
	}
	f.Animator = newAnimator("FPS", opts)
	f.Animator.pace = f.limiter.Wait
	return f
}

// FPS returns the target rate, or 0 when pacing is disabled.
func (f *FPSAnimator) FPS() float64 {
	limit := f.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}

// SetFPS changes the target rate. It takes effect from the next pass.
func (f *FPSAnimator) SetFPS(fps float64) {
	f.limiter.SetLimit(limitFor(fps))
}

func limitFor(fps float64) rate.Limit {
	if fps <= 0 || math.IsInf(fps, 1) || math.IsNaN(fps) {
		return rate.Inf
	}
	return rate.Limit(fps)
}
