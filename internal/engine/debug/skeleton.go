package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelanim/pkg/pose"
)

// SkeletonLineVertices creates line vertices joining every joint to its
// parent. Format: [x, y, z] per vertex, two vertices per bone.
func SkeletonLineVertices(s *pose.Skeleton, world []mgl32.Mat4) []float32 {
	n := len(world)
	if s.NumJoints() < n {
		n = s.NumJoints()
	}
	out := make([]float32, 0, n*6)
	for i := 0; i < n; i++ {
		parent := s.Parents[i]
		if parent < 0 || parent >= n {
			continue
		}
		a := pose.JointPosition(world[parent])
		b := pose.JointPosition(world[i])
		out = append(out, a.X(), a.Y(), a.Z(), b.X(), b.Y(), b.Z())
	}
	return out
}

// JointBounds returns the axis-aligned bounds of the joint positions as
// [minX, minY, minZ, maxX, maxY, maxZ]. ok is false when world is empty.
func JointBounds(world []mgl32.Mat4) (bbox [6]float32, ok bool) {
	if len(world) == 0 {
		return bbox, false
	}
	p := pose.JointPosition(world[0])
	bbox = [6]float32{p.X(), p.Y(), p.Z(), p.X(), p.Y(), p.Z()}
	for _, m := range world[1:] {
		p = pose.JointPosition(m)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < bbox[axis] {
				bbox[axis] = p[axis]
			}
			if p[axis] > bbox[axis+3] {
				bbox[axis+3] = p[axis]
			}
		}
	}
	return bbox, true
}

// BoxWireframeVertexCount is the number of vertices in a box wireframe.
const BoxWireframeVertexCount = 24

// BoxWireframe returns the 12 edges of bbox grown by padding, as line
// vertices in [x, y, z] format. bbox is [minX, minY, minZ, maxX, maxY, maxZ].
func BoxWireframe(bbox [6]float32, padding float32) []float32 {
	lo := mgl32.Vec3{bbox[0] - padding, bbox[1] - padding, bbox[2] - padding}
	hi := mgl32.Vec3{bbox[3] + padding, bbox[4] + padding, bbox[5] + padding}

	// Corner i takes hi on axis k when bit k of i is set.
	corner := func(i int) mgl32.Vec3 {
		c := lo
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[axis] = hi[axis]
			}
		}
		return c
	}

	out := make([]float32, 0, BoxWireframeVertexCount*3)
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			bit := 1 << axis
			if i&bit != 0 {
				continue
			}
			a, b := corner(i), corner(i|bit)
			out = append(out, a.X(), a.Y(), a.Z(), b.X(), b.Y(), b.Z())
		}
	}
	return out
}
