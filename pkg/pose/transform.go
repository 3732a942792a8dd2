// Package pose provides joint transforms, skeleton hierarchies, weighted pose
// blending and forward kinematics for skinned characters.
package pose

import "github.com/go-gl/mathgl/mgl32"

// Transform is a joint-local affine transform stored as translation,
// rotation and scale (TRS).
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns a transform with no translation, no rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform into a 4x4 matrix (T * R * S).
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	m = m.Mul4(t.Rotation.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// ApproxEqual reports whether two transforms match within threshold.
// Quaternions q and -q describe the same rotation and compare equal.
func (t Transform) ApproxEqual(other Transform, threshold float32) bool {
	if !t.Translation.ApproxEqualThreshold(other.Translation, threshold) {
		return false
	}
	if !t.Scale.ApproxEqualThreshold(other.Scale, threshold) {
		return false
	}
	q := other.Rotation
	if t.Rotation.Dot(q) < 0 {
		q = q.Scale(-1)
	}
	return t.Rotation.ApproxEqualThreshold(q, threshold)
}

// LocalPose holds one local transform per skeleton joint.
type LocalPose []Transform

// Resize grows or shrinks the pose to n joints, filling new slots with identity.
func (p LocalPose) Resize(n int) LocalPose {
	if cap(p) >= n {
		old := len(p)
		p = p[:n]
		for i := old; i < n; i++ {
			p[i] = Identity()
		}
		return p
	}
	grown := make(LocalPose, n)
	copy(grown, p)
	for i := len(p); i < n; i++ {
		grown[i] = Identity()
	}
	return grown
}
