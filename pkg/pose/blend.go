package pose

import "github.com/go-gl/mathgl/mgl32"

// DefaultBlendThreshold is the accumulated weight under which the rest pose
// starts filling in for missing layer weight.
const DefaultBlendThreshold = 0.01

// Layer is a sampled local pose with its blend weight.
type Layer struct {
	Pose   LocalPose
	Weight float32
}

// Blend merges weighted layers into out and returns it (resized to the rest
// pose length). Layers whose weight is below threshold are ignored. When the
// accumulated weight is below threshold, the rest pose contributes the
// remainder so a nearly empty layer set eases toward rest instead of popping.
//
// Rotations are accumulated as a normalized weighted sum (nlerp) with every
// quaternion flipped into the hemisphere of the first contributing layer.
func Blend(layers []Layer, rest LocalPose, threshold float32, out LocalPose) LocalPose {
	n := len(rest)
	out = out.Resize(n)

	var total float32
	for _, l := range layers {
		if l.Weight >= threshold && l.Weight > 0 && len(l.Pose) >= n {
			total += l.Weight
		}
	}

	restWeight := float32(0)
	if total < threshold {
		restWeight = threshold - total
	}
	if total+restWeight <= 0 {
		copy(out, rest)
		return out
	}
	inv := 1 / (total + restWeight)

	for j := 0; j < n; j++ {
		var translation, scale mgl32.Vec3
		var rotation mgl32.Quat
		first := true

		accumulate := func(t Transform, w float32) {
			q := t.Rotation
			if first {
				first = false
			} else if rotation.Dot(q) < 0 {
				q = q.Scale(-1)
			}
			translation = translation.Add(t.Translation.Mul(w))
			scale = scale.Add(t.Scale.Mul(w))
			rotation = rotation.Add(q.Scale(w))
		}

		for _, l := range layers {
			if l.Weight < threshold || l.Weight <= 0 || len(l.Pose) < n {
				continue
			}
			accumulate(l.Pose[j], l.Weight)
		}
		if restWeight > 0 {
			accumulate(rest[j], restWeight)
		}

		out[j] = Transform{
			Translation: translation.Mul(inv),
			Rotation:    rotation.Normalize(),
			Scale:       scale.Mul(inv),
		}
	}
	return out
}
