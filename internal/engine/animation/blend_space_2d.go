package animation

import (
	"math"
	"sort"

	"github.com/Faultbox/skelanim/pkg/clip"
)

// Node2D anchors a clip at a point of the 2-D parameter plane.
type Node2D struct {
	Clip *clip.Clip
	X, Y float32
}

// BlendSpace2D blends clips placed on a (possibly irregular) grid, e.g.
// strafe direction by speed. Inside a complete grid cell the four corners
// are weighted bilinearly; elsewhere the nearest node wins outright.
type BlendSpace2D struct {
	blendSpace
	nodes  []Node2D
	xs, ys []float32
	x, y   float32
}

var _ Controller = (*BlendSpace2D)(nil)

// NewBlendSpace2D creates a 2-D blend space. Nodes without a clip are dropped
// with a warning. The initial parameter is (0,0).
func NewBlendSpace2D(nodes []Node2D) *BlendSpace2D {
	kept := make([]Node2D, 0, len(nodes))
	for i, n := range nodes {
		if n.Clip == nil {
			warnDroppedNode("2d", i)
			continue
		}
		kept = append(kept, n)
	}

	b := &BlendSpace2D{nodes: kept}
	b.clips = make([]*clip.Clip, len(kept))
	for i, n := range kept {
		b.clips[i] = n.Clip
		b.xs = append(b.xs, n.X)
		b.ys = append(b.ys, n.Y)
	}
	b.xs = sortedUnique(b.xs)
	b.ys = sortedUnique(b.ys)
	b.weights = make([]float32, len(kept))
	b.SetParameter(0, 0)
	return b
}

// Nodes returns the nodes in declaration order.
func (b *BlendSpace2D) Nodes() []Node2D {
	return b.nodes
}

// Parameter returns the last parameter set.
func (b *BlendSpace2D) Parameter() (x, y float32) {
	return b.x, b.y
}

// SetParameters sets the blend point.
func (b *BlendSpace2D) SetParameters(x, y float32) {
	b.SetParameter(x, y)
}

// SetParameter recomputes the weights for the point (x, y).
func (b *BlendSpace2D) SetParameter(x, y float32) {
	if math.IsNaN(float64(x)) {
		x = 0
	}
	if math.IsNaN(float64(y)) {
		y = 0
	}
	b.x, b.y = x, y
	if len(b.nodes) == 0 {
		return
	}
	b.clearWeights()

	x0, x1 := bracket(b.xs, x)
	y0, y1 := bracket(b.ys, y)

	bottomLeft, bottomRight, topLeft, topRight := -1, -1, -1, -1
	for i, n := range b.nodes {
		switch {
		case n.X == x0 && n.Y == y0 && bottomLeft < 0:
			bottomLeft = i
		case n.X == x1 && n.Y == y0 && bottomRight < 0:
			bottomRight = i
		case n.X == x0 && n.Y == y1 && topLeft < 0:
			topLeft = i
		case n.X == x1 && n.Y == y1 && topRight < 0:
			topRight = i
		}
	}

	if bottomLeft < 0 || bottomRight < 0 || topLeft < 0 || topRight < 0 || x0 == x1 || y0 == y1 {
		b.weights[b.nearest(x, y)] = 1
		return
	}

	tx := (x - x0) / (x1 - x0)
	ty := (y - y0) / (y1 - y0)
	b.weights[bottomLeft] = (1 - tx) * (1 - ty)
	b.weights[bottomRight] = tx * (1 - ty)
	b.weights[topLeft] = (1 - tx) * ty
	b.weights[topRight] = tx * ty
}

// nearest returns the index of the node closest to (x, y); ties go to the
// earlier node.
func (b *BlendSpace2D) nearest(x, y float32) int {
	best := 0
	bestDist := float32(math.MaxFloat32)
	for i, n := range b.nodes {
		dx, dy := n.X-x, n.Y-y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// bracket returns the grid interval containing v. On or beyond either end
// of the grid both bounds collapse onto that end.
func bracket(values []float32, v float32) (lo, hi float32) {
	first, last := values[0], values[len(values)-1]
	if v <= first {
		return first, first
	}
	if v >= last {
		return last, last
	}
	for i := 1; i < len(values); i++ {
		if v < values[i] {
			return values[i-1], values[i]
		}
	}
	return last, last
}

func sortedUnique(values []float32) []float32 {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
