package animation

import "github.com/Faultbox/skelanim/pkg/clip"

// SingleClip plays one clip on a loop.
type SingleClip struct {
	clip     *clip.Clip
	progress float32
}

var _ Controller = (*SingleClip)(nil)

// NewSingleClip creates a looping controller for c. A nil clip yields a
// disabled controller that emits nothing.
func NewSingleClip(c *clip.Clip) *SingleClip {
	return &SingleClip{clip: c}
}

// SetClip swaps the clip and restarts at the given progress.
func (s *SingleClip) SetClip(c *clip.Clip, progress float32) {
	s.clip = c
	s.progress = wrapProgress(progress)
}

// Clip returns the clip being played.
func (s *SingleClip) Clip() *clip.Clip {
	return s.clip
}

// Duration returns the clip duration, or DefaultDuration when disabled.
func (s *SingleClip) Duration() float32 {
	if s.clip == nil || s.clip.Duration() <= 0 {
		return DefaultDuration
	}
	return s.clip.Duration()
}

// Update advances the loop.
func (s *SingleClip) Update(dt float32) {
	if s.clip == nil {
		return
	}
	s.progress = advance(s.progress, dt, s.Duration())
}

// CollectAnimations emits a single sample at the current progress.
func (s *SingleClip) CollectAnimations(out []WeightedSample, weight float32) []WeightedSample {
	return appendSample(out, s.clip, weight, s.progress)
}

// SetParameters is a no-op; a single clip has no blend input.
func (s *SingleClip) SetParameters(x, y float32) {}

// Progress returns the normalized playback position.
func (s *SingleClip) Progress() float32 {
	return s.progress
}

// Reset rewinds to the start of the clip.
func (s *SingleClip) Reset() {
	s.progress = 0
}
