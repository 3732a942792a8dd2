package rig

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/character"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/pkg/clip"
	"github.com/Faultbox/skelanim/pkg/pose"
)

var (
	// ErrUnknownClip is returned in strict mode when a controller names a
	// clip that is neither defined in the rig nor in the supplied store.
	ErrUnknownClip = errors.New("unknown clip")
	// ErrUnknownController is returned in strict mode when a graph node, an
	// edge transition or root names a missing controller.
	ErrUnknownController = errors.New("unknown controller")
	// ErrUnknownJoint is returned when a parent or a clip track names a joint
	// the skeleton does not have.
	ErrUnknownJoint = errors.New("unknown joint")
	// ErrInvalidController is returned for malformed controller entries.
	ErrInvalidController = errors.New("invalid controller")
	// ErrInvalidGraph is returned for malformed graph edges or guards.
	ErrInvalidGraph = errors.New("invalid graph")
)

// Options control how a definition is turned into controllers.
type Options struct {
	// Strict turns unknown clip and controller references into errors.
	// Otherwise they are logged once and the reference is disabled.
	Strict bool

	// Crossfade is the graph policy when the rig does not name one.
	Crossfade animation.Crossfade

	// DefaultTransition is used for edges without an explicit duration.
	DefaultTransition float32

	Hooks animation.GraphHooks
}

// Event is a scripted input change.
type Event struct {
	At          float32
	Speed       *float32
	Jumping     *bool
	Goal        animation.State
	Blend       *mgl32.Vec2
	Destination *mgl32.Vec3
	Params      map[string]float32
}

// Rig is a built definition: one controller tree ready to drive a character.
// Controllers are stateful, so every character needs its own Rig.
type Rig struct {
	Name     string
	Skeleton *pose.Skeleton
	Clips    *clip.Database

	// Controllers holds every named controller. Names referenced several
	// times share one instance.
	Controllers map[string]animation.Controller

	// Graph is nil when the definition has no graph section.
	Graph *animation.TransitionGraph

	// Root is the controller to hand to the character: the graph when there
	// is one, otherwise the controller named by root.
	Root animation.Controller

	// Ground is nil when the definition has no ground section.
	Ground *character.Grid

	// Script is sorted by time.
	Script []Event
}

type builder struct {
	opts   Options
	log    *zap.Logger
	skel   *pose.Skeleton
	clips  *clip.Database
	store  clip.Store
	warned map[string]bool
}

// Build turns def into a Rig. Clips defined in the rig take precedence over
// store, which may be nil.
func Build(def *Definition, store clip.Store, opts Options) (*Rig, error) {
	if def == nil {
		return nil, errors.New("nil rig definition")
	}
	b := &builder{
		opts:   opts,
		log:    logger.Named("rig").With(zap.String("rig", def.Name)),
		store:  store,
		warned: make(map[string]bool),
	}

	skel, err := buildSkeleton(def.Skeleton)
	if err != nil {
		return nil, err
	}
	b.skel = skel

	if b.clips, err = buildClips(def.Clips, skel); err != nil {
		return nil, err
	}

	r := &Rig{
		Name:        def.Name,
		Skeleton:    skel,
		Clips:       b.clips,
		Controllers: make(map[string]animation.Controller, len(def.Controllers)),
	}

	names := make([]string, 0, len(def.Controllers))
	for name := range def.Controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		c, err := b.buildController(name, def.Controllers[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.Controllers[name] = c
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if def.Graph != nil {
		if r.Graph, err = b.buildGraph(def.Graph, r.Controllers); err != nil {
			return nil, err
		}
		r.Root = r.Graph
	} else if def.Root != "" {
		if r.Root, err = b.controller(def.Root, r.Controllers); err != nil {
			return nil, fmt.Errorf("root: %w", err)
		}
	}

	if def.Ground != nil {
		if r.Ground, err = buildGround(def.Ground); err != nil {
			return nil, err
		}
	}

	if r.Script, err = buildScript(def.Script); err != nil {
		return nil, err
	}

	b.log.Debug("rig built",
		zap.Int("joints", skel.NumJoints()),
		zap.Int("clips", b.clips.Len()),
		zap.Int("controllers", len(r.Controllers)),
		zap.Bool("graph", r.Graph != nil))
	return r, nil
}

func buildSkeleton(def SkeletonDef) (*pose.Skeleton, error) {
	if len(def.Joints) == 0 {
		return nil, fmt.Errorf("%w: skeleton has no joints", pose.ErrInvalidHierarchy)
	}
	s := &pose.Skeleton{
		Names:   make([]string, len(def.Joints)),
		Parents: make([]int, len(def.Joints)),
		Rest:    make(pose.LocalPose, len(def.Joints)),
	}
	index := make(map[string]int, len(def.Joints))
	for i, j := range def.Joints {
		if _, dup := index[j.Name]; dup || j.Name == "" {
			return nil, fmt.Errorf("%w: joint %d has empty or duplicate name %q", pose.ErrInvalidHierarchy, i, j.Name)
		}
		parent := -1
		if j.Parent != "" {
			p, ok := index[j.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: parent %q of %q (parents must be listed first)", ErrUnknownJoint, j.Parent, j.Name)
			}
			parent = p
		}
		index[j.Name] = i
		s.Names[i] = j.Name
		s.Parents[i] = parent
		t := pose.Identity()
		t.Translation = mgl32.Vec3(j.Translation)
		t.Rotation = eulerDegrees(j.Rotation)
		s.Rest[i] = t
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func buildClips(defs []ClipDef, skel *pose.Skeleton) (*clip.Database, error) {
	db := clip.NewDatabase()
	for _, d := range defs {
		tracks := make([]clip.Track, skel.NumJoints())
		for joint, td := range d.Tracks {
			i := skel.FindJoint(joint)
			if i < 0 {
				return nil, fmt.Errorf("clip %s: %w %q", d.Name, ErrUnknownJoint, joint)
			}
			tracks[i] = buildTrack(td)
		}
		if err := db.Add(clip.New(d.Name, d.Duration, tracks)); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func buildTrack(d TrackDef) clip.Track {
	var t clip.Track
	for _, k := range d.Translations {
		t.Translations = append(t.Translations, clip.Vec3Key{Time: k.Time, Value: mgl32.Vec3(k.Value)})
	}
	for _, k := range d.Rotations {
		t.Rotations = append(t.Rotations, clip.QuatKey{Time: k.Time, Value: eulerDegrees(k.Value)})
	}
	for _, k := range d.Scales {
		t.Scales = append(t.Scales, clip.Vec3Key{Time: k.Time, Value: mgl32.Vec3(k.Value)})
	}
	sort.SliceStable(t.Translations, func(i, j int) bool { return t.Translations[i].Time < t.Translations[j].Time })
	sort.SliceStable(t.Rotations, func(i, j int) bool { return t.Rotations[i].Time < t.Rotations[j].Time })
	sort.SliceStable(t.Scales, func(i, j int) bool { return t.Scales[i].Time < t.Scales[j].Time })
	return t
}

func eulerDegrees(v [3]float32) mgl32.Quat {
	return mgl32.AnglesToQuat(mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2]), mgl32.XYZ)
}

// clip resolves a clip name. Outside strict mode a missing clip is reported
// once and resolves to nil, which disables the referencing node.
func (b *builder) clip(name string) (*clip.Clip, error) {
	if c := b.clips.Find(name); c != nil {
		return c, nil
	}
	if b.store != nil {
		if c := b.store.Find(name); c != nil {
			return c, nil
		}
	}
	if b.opts.Strict {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	b.warnOnce("clip:"+name, "unknown clip, node disabled", zap.String("clip", name))
	return nil, nil
}

// controller resolves a controller name with the same strictness rules.
func (b *builder) controller(name string, controllers map[string]animation.Controller) (animation.Controller, error) {
	if c, ok := controllers[name]; ok {
		return c, nil
	}
	if b.opts.Strict {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, name)
	}
	b.warnOnce("controller:"+name, "unknown controller, reference disabled", zap.String("controller", name))
	return nil, nil
}

func (b *builder) warnOnce(key, msg string, fields ...zap.Field) {
	if b.warned[key] {
		return
	}
	b.warned[key] = true
	b.log.Warn(msg, fields...)
}

func (b *builder) buildGraph(def *GraphDef, controllers map[string]animation.Controller) (*animation.TransitionGraph, error) {
	gb := animation.NewGraphBuilder()
	for _, n := range def.Nodes {
		c, err := b.controller(n.Controller, controllers)
		if err != nil {
			return nil, fmt.Errorf("graph node %s: %w", n.State, err)
		}
		gb.AddNode(animation.State(n.State), c)
	}

	for i, e := range def.Edges {
		opts, err := b.edgeOptions(e, controllers)
		if err != nil {
			return nil, fmt.Errorf("graph edge %d (%s -> %s): %w", i, e.From, e.To, err)
		}
		gb.ConnectStates(animation.State(e.From), animation.State(e.To), opts...)
	}

	policy := b.opts.Crossfade
	if def.Crossfade != "" {
		p, err := animation.ParseCrossfade(def.Crossfade)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
		}
		policy = p
	}

	graphOpts := []animation.GraphOption{
		animation.WithCrossfade(policy),
		animation.WithHooks(b.opts.Hooks),
	}
	if len(def.Parameters) > 0 {
		graphOpts = append(graphOpts, animation.WithParameters(animation.Parameters(def.Parameters)))
	}
	return gb.Build(animation.State(def.Initial), graphOpts...)
}

func (b *builder) edgeOptions(e EdgeDef, controllers map[string]animation.Controller) ([]animation.EdgeOption, error) {
	duration := b.opts.DefaultTransition
	if e.Duration != nil {
		duration = *e.Duration
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %v", ErrInvalidGraph, duration)
	}
	opts := []animation.EdgeOption{animation.Over(duration)}

	trigger, err := animation.ParseTrigger(e.Trigger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	if trigger == animation.TriggerAutomatic {
		opts = append(opts, animation.Automatically(e.StartProgress))
	}

	if e.Crossfade != "" {
		c, err := animation.ParseCrossfade(e.Crossfade)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
		}
		opts = append(opts, animation.Fade(c))
	}

	switch {
	case len(e.Bezier) > 0:
		if len(e.Bezier) != 4 {
			return nil, fmt.Errorf("%w: bezier needs 4 control values, got %d", ErrInvalidGraph, len(e.Bezier))
		}
		opts = append(opts, animation.Eased(animation.CubicBezier(e.Bezier[0], e.Bezier[1], e.Bezier[2], e.Bezier[3])))
	case e.Easing != "":
		f, ok := animation.EasingByName(e.Easing)
		if !ok {
			return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidGraph, e.Easing)
		}
		opts = append(opts, animation.Eased(f))
	}

	if e.Transition != "" {
		c, err := b.controller(e.Transition, controllers)
		if err != nil {
			return nil, err
		}
		if c != nil {
			opts = append(opts, animation.Via(c))
		}
	}

	g, err := buildGuard(e.When)
	if err != nil {
		return nil, err
	}
	if g != nil {
		opts = append(opts, animation.When(g))
	}
	return opts, nil
}

func buildGround(d *GroundDef) (*character.Grid, error) {
	if d.Width < 1 || d.Depth < 1 {
		return nil, fmt.Errorf("ground must be at least 1x1 cells, got %dx%d", d.Width, d.Depth)
	}
	if d.CellSize < 0 {
		return nil, fmt.Errorf("ground cell_size must be positive, got %v", d.CellSize)
	}
	g := character.NewGrid(d.Width, d.Depth, d.CellSize)
	g.Origin = mgl32.Vec2(d.Origin)
	for _, c := range d.Blocked {
		g.Block(c[0], c[1])
	}
	for _, h := range d.Heights {
		g.SetHeight(h.Cell[0], h.Cell[1], h.Height)
	}
	return g, nil
}

func buildScript(defs []EventDef) ([]Event, error) {
	events := make([]Event, 0, len(defs))
	for i, d := range defs {
		if d.At < 0 {
			return nil, fmt.Errorf("script event %d: negative time %v", i, d.At)
		}
		ev := Event{
			At:      d.At,
			Speed:   d.Speed,
			Jumping: d.Jumping,
			Goal:    animation.State(d.Goal),
			Params:  d.Params,
		}
		if d.Blend != nil {
			if len(d.Blend) != 2 {
				return nil, fmt.Errorf("script event %d: blend needs 2 values, got %d", i, len(d.Blend))
			}
			ev.Blend = &mgl32.Vec2{d.Blend[0], d.Blend[1]}
		}
		if d.Destination != nil {
			if len(d.Destination) != 3 {
				return nil, fmt.Errorf("script event %d: destination needs 3 values, got %d", i, len(d.Destination))
			}
			ev.Destination = &mgl32.Vec3{d.Destination[0], d.Destination[1], d.Destination[2]}
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events, nil
}
