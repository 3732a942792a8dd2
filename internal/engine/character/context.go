package character

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/pkg/clip"
	"github.com/Faultbox/skelanim/pkg/pose"
)

// Layer is one weighted sample resolved into a local pose. Each layer owns
// its sampling cache.
type Layer struct {
	Sample animation.WeightedSample
	Cache  *clip.SamplingCache
	Pose   pose.LocalPose
}

// Context holds a character's layered poses and the evaluated result.
// Layer slots, caches and poses are reused across frames.
type Context struct {
	skeleton  *pose.Skeleton
	rest      pose.LocalPose
	threshold float32

	layers []Layer
	used   int

	blendInput []pose.Layer
	local      pose.LocalPose
	world      []mgl32.Mat4
}

// NewContext creates a context for skeleton s. A non-positive threshold uses
// pose.DefaultBlendThreshold.
func NewContext(s *pose.Skeleton, threshold float32) *Context {
	if threshold <= 0 {
		threshold = pose.DefaultBlendThreshold
	}
	c := &Context{
		skeleton:  s,
		rest:      s.RestPose(),
		threshold: threshold,
	}
	c.local = c.local.Resize(len(c.rest))
	copy(c.local, c.rest)
	c.world = pose.ForwardKinematics(s, c.local, mgl32.Ident4(), nil)
	return c
}

// Skeleton returns the skeleton the context evaluates.
func (c *Context) Skeleton() *pose.Skeleton {
	return c.skeleton
}

// Threshold returns the blend threshold.
func (c *Context) Threshold() float32 {
	return c.threshold
}

// ClearLayers drops all layers, keeping their storage.
func (c *Context) ClearLayers() {
	c.used = 0
}

// AddLayer appends a layer for s and returns it.
func (c *Context) AddLayer(s animation.WeightedSample) *Layer {
	joints := c.skeleton.NumJoints()
	if c.used == len(c.layers) {
		c.layers = append(c.layers, Layer{
			Cache: clip.NewSamplingCache(joints),
		})
	}
	l := &c.layers[c.used]
	c.used++

	l.Sample = s
	l.Pose = l.Pose.Resize(joints)
	return l
}

// Layers returns the active layers.
func (c *Context) Layers() []Layer {
	return c.layers[:c.used]
}

// Local returns the last blended local pose.
func (c *Context) Local() pose.LocalPose {
	return c.local
}

// World returns the last world-space joint matrices.
func (c *Context) World() []mgl32.Mat4 {
	return c.world
}

// Evaluate samples every layer, blends them and runs forward kinematics
// from root. A layer that fails to sample is left out of the blend; the
// failures are returned joined after the pose has been produced.
func (c *Context) Evaluate(sampler Sampler, blender Blender, root mgl32.Mat4) error {
	if sampler == nil {
		sampler = DefaultSampler
	}
	if blender == nil {
		blender = DefaultBlender
	}

	var errs []error
	c.blendInput = c.blendInput[:0]
	for i := range c.layers[:c.used] {
		l := &c.layers[i]
		copy(l.Pose, c.rest)
		if err := sampler.Sample(l.Sample.Clip, l.Sample.Time, l.Cache, l.Pose); err != nil {
			errs = append(errs, fmt.Errorf("layer %d (%s): %w", i, l.Sample.Clip.Name(), err))
			continue
		}
		c.blendInput = append(c.blendInput, pose.Layer{Pose: l.Pose, Weight: l.Sample.Weight})
	}

	c.local = blender.Blend(c.blendInput, c.rest, c.threshold, c.local)
	c.world = pose.ForwardKinematics(c.skeleton, c.local, root, c.world)
	return errors.Join(errs...)
}
