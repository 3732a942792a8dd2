// Package animation implements the animation evaluation core: controllers
// that advance normalized time and emit weighted clip samples, 1-D and 2-D
// blend spaces, and the transition graph state machine.
//
// Controllers are driven once per frame from a single goroutine:
//
//	ctrl.SetParameters(x, y)
//	ctrl.Update(dt)
//	samples = ctrl.CollectAnimations(samples[:0], 1)
//
// They hold no locks. Clips are immutable and may be shared freely.
package animation

import (
	"math"

	"github.com/Faultbox/skelanim/pkg/clip"
)

const (
	// MinSampleWeight is the combined weight under which a sample is dropped.
	MinSampleWeight = 1e-3

	// DefaultDuration is reported by controllers without any usable clip.
	DefaultDuration = 1.0

	// GraphDuration is the sentinel duration of a transition graph, whose
	// length depends on its state.
	GraphDuration = -1.0

	// Epsilon guards transition denominators and completion checks.
	Epsilon = 1e-4
)

// WeightedSample is one clip evaluated at a normalized time with a blend weight.
type WeightedSample struct {
	Clip   *clip.Clip
	Weight float32
	Time   float32
}

// Controller is a stateful unit that advances normalized time and emits
// weighted clip samples.
type Controller interface {
	// Duration returns the characteristic duration in seconds.
	Duration() float32

	// Update advances internal time by dt seconds. Negative dt is ignored.
	Update(dt float32)

	// CollectAnimations appends the controller's samples, each pre-multiplied
	// by weight, to out and returns the extended slice.
	CollectAnimations(out []WeightedSample, weight float32) []WeightedSample

	// SetParameters feeds blend coordinates. Controllers without parameters
	// ignore it.
	SetParameters(x, y float32)

	// Progress returns the normalized playback position in [0,1].
	Progress() float32

	// Reset rewinds to 0 and clears transient transition state.
	Reset()
}

// wrapProgress keeps p in [0,1) using the fractional part. A value of
// exactly 1 wraps to 0 so a clip played for its full duration closes the loop.
func wrapProgress(p float32) float32 {
	if p >= 1 || p < 0 {
		p -= float32(math.Floor(float64(p)))
		// Float rounding of tiny negatives can land exactly on 1.
		if p >= 1 {
			p = 0
		}
	}
	return p
}

// advance moves progress forward by dt over duration, treating non-positive
// durations and negative dt as no-ops.
func advance(progress, dt, duration float32) float32 {
	if dt <= 0 || duration <= 0 || math.IsNaN(float64(dt)) {
		return progress
	}
	return wrapProgress(progress + dt/duration)
}

// appendSample appends s to out when its weight is large enough.
func appendSample(out []WeightedSample, c *clip.Clip, weight, time float32) []WeightedSample {
	if c == nil || weight < MinSampleWeight {
		return out
	}
	return append(out, WeightedSample{Clip: c, Weight: weight, Time: time})
}
