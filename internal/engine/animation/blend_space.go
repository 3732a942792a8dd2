package animation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/clip"
)

// blendSpace holds what 1-D and 2-D blend spaces share: the clips, a weight
// vector parallel to them, and one progress value that every clip is sampled
// at (all blended clips stay phase-aligned).
type blendSpace struct {
	clips    []*clip.Clip
	weights  []float32
	progress float32
}

// Duration returns the weight-averaged clip duration. If that is not
// positive it falls back to the first clip's duration, then DefaultDuration.
func (b *blendSpace) Duration() float32 {
	var weighted float32
	for i, c := range b.clips {
		weighted += c.Duration() * b.weights[i]
	}
	if weighted > 0 {
		return weighted
	}
	for _, c := range b.clips {
		if c.Duration() > 0 {
			return c.Duration()
		}
	}
	return DefaultDuration
}

// Update advances the shared progress.
func (b *blendSpace) Update(dt float32) {
	if len(b.clips) == 0 {
		return
	}
	b.progress = advance(b.progress, dt, b.Duration())
}

// CollectAnimations emits one sample per clip with non-negligible weight.
func (b *blendSpace) CollectAnimations(out []WeightedSample, weight float32) []WeightedSample {
	for i, c := range b.clips {
		out = appendSample(out, c, b.weights[i]*weight, b.progress)
	}
	return out
}

// Progress returns the shared normalized playback position.
func (b *blendSpace) Progress() float32 {
	return b.progress
}

// Reset rewinds the shared progress. Weights are kept.
func (b *blendSpace) Reset() {
	b.progress = 0
}

// Weights returns a copy of the current weight vector, parallel to the nodes.
func (b *blendSpace) Weights() []float32 {
	out := make([]float32, len(b.weights))
	copy(out, b.weights)
	return out
}

// Len returns the number of nodes.
func (b *blendSpace) Len() int {
	return len(b.clips)
}

func (b *blendSpace) clearWeights() {
	for i := range b.weights {
		b.weights[i] = 0
	}
}

// warnDroppedNode reports a node whose clip could not be resolved. Called
// only while building, so each bad node is reported once.
func warnDroppedNode(kind string, index int) {
	logger.Named("animation").Warn("blend space node has no clip, dropping it",
		zap.String("blend_space", kind),
		zap.Int("node", index),
	)
}
