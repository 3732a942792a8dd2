package animation

import (
	"math"
	"sort"

	"github.com/Faultbox/skelanim/pkg/clip"
)

// Node1D anchors a clip at a scalar parameter value.
type Node1D struct {
	Clip      *clip.Clip
	Parameter float32
}

// BlendSpace1D blends between clips placed along one parameter axis
// (typically speed).
type BlendSpace1D struct {
	blendSpace
	nodes     []Node1D
	parameter float32
}

var _ Controller = (*BlendSpace1D)(nil)

// NewBlendSpace1D creates a 1-D blend space. Nodes without a clip are dropped
// with a warning. Nodes are sorted by parameter (stable) and the initial
// parameter is 0.
func NewBlendSpace1D(nodes []Node1D) *BlendSpace1D {
	kept := make([]Node1D, 0, len(nodes))
	for i, n := range nodes {
		if n.Clip == nil {
			warnDroppedNode("1d", i)
			continue
		}
		kept = append(kept, n)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Parameter < kept[j].Parameter })

	b := &BlendSpace1D{nodes: kept}
	b.clips = make([]*clip.Clip, len(kept))
	for i, n := range kept {
		b.clips[i] = n.Clip
	}
	b.weights = make([]float32, len(kept))
	b.SetParameter(0)
	return b
}

// Nodes returns the nodes in parameter order.
func (b *BlendSpace1D) Nodes() []Node1D {
	return b.nodes
}

// Parameter returns the last parameter set.
func (b *BlendSpace1D) Parameter() float32 {
	return b.parameter
}

// SetParameter recomputes the weights for p. Outside the node range the
// nearest end node takes the full weight; inside, the first bracketing pair
// is linearly interpolated.
func (b *BlendSpace1D) SetParameter(p float32) {
	if math.IsNaN(float64(p)) {
		p = 0
	}
	b.parameter = p
	n := len(b.nodes)
	if n == 0 {
		return
	}
	b.clearWeights()

	if p < b.nodes[0].Parameter {
		b.weights[0] = 1
		return
	}
	if p > b.nodes[n-1].Parameter {
		b.weights[n-1] = 1
		return
	}
	if n == 1 {
		b.weights[0] = 1
		return
	}

	for i := 0; i < n-1; i++ {
		lo, hi := b.nodes[i].Parameter, b.nodes[i+1].Parameter
		if lo <= p && p <= hi {
			span := hi - lo
			if span <= 0 {
				b.weights[i] = 1
				return
			}
			t := (p - lo) / span
			b.weights[i] = 1 - t
			b.weights[i+1] = t
			return
		}
	}
}

// SetParameters uses x as the blend parameter; y is ignored.
func (b *BlendSpace1D) SetParameters(x, y float32) {
	b.SetParameter(x)
}
