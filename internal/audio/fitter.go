package audio

import (
	"context"
	"math"
	"time"
)

// atempo filter limits. Factors outside this range would need filter
// chaining; clamping is enough for speech, where a 2x change is already
// at the edge of intelligibility.
const (
	DefaultMinSpeed = 0.5
	DefaultMaxSpeed = 2.0

	// DefaultTolerance skips re-encoding when the speed change would be
	// inaudible anyway.
	DefaultTolerance = 0.05
)

// Fitter compresses or expands a clip to fit a target time window.
type Fitter struct {
	toolchain *Toolchain
	minSpeed  float64
	maxSpeed  float64
	tolerance float64
}

// FitterOption configures a Fitter.
type FitterOption func(*Fitter)

// WithSpeedRange sets the clamp range for the speed factor.
func WithSpeedRange(min, max float64) FitterOption {
	return func(f *Fitter) {
		if min > 0 {
			f.minSpeed = min
		}
		if max >= f.minSpeed {
			f.maxSpeed = max
		}
	}
}

// WithTolerance sets the no-op band around a 1.0 speed factor.
func WithTolerance(tol float64) FitterOption {
	return func(f *Fitter) {
		if tol >= 0 {
			f.tolerance = tol
		}
	}
}

// NewFitter creates a Fitter using the given toolchain.
func NewFitter(toolchain *Toolchain, opts ...FitterOption) *Fitter {
	f := &Fitter{
		toolchain: toolchain,
		minSpeed:  DefaultMinSpeed,
		maxSpeed:  DefaultMaxSpeed,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fit adjusts the clip at inPath to last target, writing the result to
// outPath. Returns the path holding the fitted audio, which is inPath
// itself whenever no adjustment was needed:
//   - target is zero or negative (no window to fit)
//   - the clip's duration cannot be probed
//   - the required speed change falls inside the tolerance band
//
// The speed factor is clamped to the atempo range, so a clip can still
// overrun a very tight window rather than become unintelligible.
func (f *Fitter) Fit(ctx context.Context, inPath, outPath string, target time.Duration) (string, error) {
	if target <= 0 {
		return inPath, nil
	}

	current, err := f.toolchain.Duration(ctx, inPath)
	if err != nil || current == 0 {
		return inPath, nil
	}

	factor := current.Seconds() / target.Seconds()
	factor = math.Max(f.minSpeed, math.Min(f.maxSpeed, factor))

	if math.Abs(factor-1.0) < f.tolerance {
		return inPath, nil
	}

	if err := f.toolchain.Stretch(ctx, inPath, outPath, factor); err != nil {
		return "", err
	}
	return outPath, nil
}
