package pose

import "github.com/go-gl/mathgl/mgl32"

// ForwardKinematics converts a local pose into world-space joint matrices.
// The root transform is applied to every joint without a parent. out is
// resized to the joint count and returned.
func ForwardKinematics(s *Skeleton, local LocalPose, root mgl32.Mat4, out []mgl32.Mat4) []mgl32.Mat4 {
	n := s.NumJoints()
	if cap(out) < n {
		out = make([]mgl32.Mat4, n)
	}
	out = out[:n]

	for i := 0; i < n; i++ {
		var m mgl32.Mat4
		if i < len(local) {
			m = local[i].Matrix()
		} else {
			m = mgl32.Ident4()
		}

		parent := s.Parents[i]
		if parent >= 0 && parent < i {
			out[i] = out[parent].Mul4(m)
		} else {
			out[i] = root.Mul4(m)
		}
	}
	return out
}

// JointPosition extracts the world-space translation of a joint matrix.
func JointPosition(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}
