// Package character drives skeletal characters: it feeds gameplay inputs to
// a root animation controller, turns the emitted samples into pose layers,
// and runs sampling, blending and forward kinematics every frame.
package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/pkg/clip"
	"github.com/Faultbox/skelanim/pkg/pose"
)

// Inputs are the gameplay signals written into a character before Update.
type Inputs struct {
	Speed   float32
	Jumping bool

	// BlendX and BlendY are forwarded to the controllers' SetParameters.
	BlendX, BlendY float32

	// Goal is requested from the transition graph when non-empty.
	Goal animation.State

	// Params are extra named graph parameters.
	Params map[string]float32
}

// StateMachine is the part of a transition graph a character steers.
// *animation.TransitionGraph implements it.
type StateMachine interface {
	SetState(target animation.State)
	State() animation.State
	SetParameter(name string, value float32)
}

// Sampler evaluates a clip at a normalized time into a local pose.
type Sampler interface {
	Sample(c *clip.Clip, ratio float32, cache *clip.SamplingCache, out pose.LocalPose) error
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(c *clip.Clip, ratio float32, cache *clip.SamplingCache, out pose.LocalPose) error

// Sample calls f.
func (f SamplerFunc) Sample(c *clip.Clip, ratio float32, cache *clip.SamplingCache, out pose.LocalPose) error {
	return f(c, ratio, cache, out)
}

// Blender merges weighted local poses.
type Blender interface {
	Blend(layers []pose.Layer, rest pose.LocalPose, threshold float32, out pose.LocalPose) pose.LocalPose
}

// BlenderFunc adapts a function to Blender.
type BlenderFunc func(layers []pose.Layer, rest pose.LocalPose, threshold float32, out pose.LocalPose) pose.LocalPose

// Blend calls f.
func (f BlenderFunc) Blend(layers []pose.Layer, rest pose.LocalPose, threshold float32, out pose.LocalPose) pose.LocalPose {
	return f(layers, rest, threshold, out)
}

var (
	// DefaultSampler samples keyframed clips.
	DefaultSampler Sampler = SamplerFunc(clip.Sample)

	// DefaultBlender is the nlerp pose blender.
	DefaultBlender Blender = BlenderFunc(pose.Blend)
)

// RagdollDriver receives the evaluated world pose after forward kinematics.
// Physics solving happens behind it.
type RagdollDriver interface {
	DriveToPose(world []mgl32.Mat4)
}

// Ground provides terrain information for locomotion.
type Ground interface {
	// IsWalkable reports whether the world position can be stood on.
	IsWalkable(worldX, worldZ float32) bool
	// HeightAt returns the ground height at the world position.
	HeightAt(worldX, worldZ float32) float32
}

// Pathfinder plans a route across the ground. The returned waypoints exclude
// the start and end at the goal; nil means unreachable.
type Pathfinder interface {
	FindPath(fromX, fromZ, toX, toZ float32) []mgl32.Vec2
}
