package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/pose"
)

// Character is one animated skeleton with its root controller. It is updated
// from a single goroutine and holds no locks.
type Character struct {
	id   uuid.UUID
	name string

	ctx     *Context
	root    animation.Controller
	graph   StateMachine
	sampler Sampler
	blender Blender
	ragdoll RagdollDriver
	loco    *Locomotion

	transform mgl32.Mat4
	samples   []animation.WeightedSample

	log *zap.Logger
}

// Option configures a Character.
type Option func(*Character)

// WithID overrides the generated character ID.
func WithID(id uuid.UUID) Option {
	return func(c *Character) { c.id = id }
}

// WithTransform sets the initial root transform.
func WithTransform(m mgl32.Mat4) Option {
	return func(c *Character) { c.transform = m }
}

// WithSampler replaces the pose sampler.
func WithSampler(s Sampler) Option {
	return func(c *Character) { c.sampler = s }
}

// WithBlender replaces the pose blender.
func WithBlender(b Blender) Option {
	return func(c *Character) { c.blender = b }
}

// WithRagdoll attaches a ragdoll driven by the evaluated pose.
func WithRagdoll(r RagdollDriver) Option {
	return func(c *Character) { c.ragdoll = r }
}

// WithLocomotion lets l drive the root transform, the speed parameter and
// the blend coordinates.
func WithLocomotion(l *Locomotion) Option {
	return func(c *Character) { c.loco = l }
}

// WithBlendThreshold sets the pose blend threshold.
func WithBlendThreshold(threshold float32) Option {
	return func(c *Character) {
		c.ctx = NewContext(c.ctx.Skeleton(), threshold)
	}
}

// New creates a character. If root is a state machine, Inputs goals and
// parameters are routed to it.
func New(name string, skeleton *pose.Skeleton, root animation.Controller, opts ...Option) *Character {
	c := &Character{
		id:        uuid.New(),
		name:      name,
		ctx:       NewContext(skeleton, pose.DefaultBlendThreshold),
		root:      root,
		sampler:   DefaultSampler,
		blender:   DefaultBlender,
		transform: mgl32.Ident4(),
	}
	if sm, ok := root.(StateMachine); ok {
		c.graph = sm
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.ForCharacter(name).With(zap.String("id", c.id.String()))
	if root == nil {
		c.log.Warn("character has no controller, rest pose only")
	}
	return c
}

// ID returns the character ID.
func (c *Character) ID() uuid.UUID { return c.id }

// Name returns the character name.
func (c *Character) Name() string { return c.name }

// Controller returns the root controller.
func (c *Character) Controller() animation.Controller { return c.root }

// Context returns the animation context.
func (c *Character) Context() *Context { return c.ctx }

// Locomotion returns the locomotion driver, or nil.
func (c *Character) Locomotion() *Locomotion { return c.loco }

// Transform returns the root transform.
func (c *Character) Transform() mgl32.Mat4 { return c.transform }

// SetTransform sets the root transform. Locomotion overrides it each Update.
func (c *Character) SetTransform(m mgl32.Mat4) { c.transform = m }

// SetInputs writes gameplay signals into the controllers.
func (c *Character) SetInputs(in Inputs) {
	if c.root == nil {
		return
	}
	c.root.SetParameters(in.BlendX, in.BlendY)
	if c.graph == nil {
		return
	}
	c.graph.SetParameter(animation.ParamSpeed, in.Speed)
	if in.Jumping {
		c.graph.SetParameter(animation.ParamIsJumping, 1)
	} else {
		c.graph.SetParameter(animation.ParamIsJumping, 0)
	}
	for k, v := range in.Params {
		c.graph.SetParameter(k, v)
	}
	if in.Goal != "" {
		c.graph.SetState(in.Goal)
	}
}

// Update advances the controllers by dt seconds and evaluates the pose.
// Sampling errors are returned after the pose has been produced from the
// layers that did sample.
func (c *Character) Update(dt float32) error {
	if c.loco != nil {
		speed := c.loco.Step(dt)
		c.transform = c.loco.Transform()
		if c.root != nil {
			c.root.SetParameters(c.loco.Blend())
		}
		if c.graph != nil {
			c.graph.SetParameter(animation.ParamSpeed, speed)
		}
	}

	c.samples = c.samples[:0]
	if c.root != nil {
		c.root.Update(dt)
		c.samples = c.root.CollectAnimations(c.samples, 1)
	}
	if c.graph != nil {
		c.graph.SetParameter(animation.ParamWalkFoot, FootPhase(c.Progress()))
	}

	c.ctx.ClearLayers()
	for _, s := range c.samples {
		c.ctx.AddLayer(s)
	}
	err := c.ctx.Evaluate(c.sampler, c.blender, c.transform)

	if c.ragdoll != nil {
		c.ragdoll.DriveToPose(c.ctx.World())
	}
	return err
}

// Samples returns the samples collected by the last Update.
func (c *Character) Samples() []animation.WeightedSample {
	return c.samples
}

// State returns the graph state, or "" when the root is not a state machine.
func (c *Character) State() animation.State {
	if c.graph == nil {
		return ""
	}
	return c.graph.State()
}

// Progress returns the root controller's progress.
func (c *Character) Progress() float32 {
	if c.root == nil {
		return 0
	}
	return c.root.Progress()
}

// WorldTransforms returns the evaluated world-space joint matrices.
func (c *Character) WorldTransforms() []mgl32.Mat4 {
	return c.ctx.World()
}

// FootPhase maps locomotion progress to the leading foot: 0 for the left
// half of the cycle, 1 for the right.
func FootPhase(progress float32) float32 {
	if progress < 0.5 {
		return 0
	}
	return 1
}
