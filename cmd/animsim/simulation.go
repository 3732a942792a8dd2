package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/config"
	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/engine/character"
	"github.com/Faultbox/skelanim/internal/engine/debug"
	"github.com/Faultbox/skelanim/internal/logger"
	"github.com/Faultbox/skelanim/internal/metrics"
	"github.com/Faultbox/skelanim/internal/rig"
)

// spacing separates characters on the X axis.
const spacing = 1.5

// actor is one simulated character and the script cursor driving it.
type actor struct {
	char   *character.Character
	rig    *rig.Rig
	inputs character.Inputs
	next   int
}

// simulation plays a rig definition for a fixed number of frames.
type simulation struct {
	cfg     *config.Config
	out     io.Writer
	scene   *character.Scene
	actors  []*actor
	metrics *metrics.Metrics
	dumper  *debug.FrameDumper
	log     *zap.Logger
}

// rigOptions maps the animation config onto rig build options.
func rigOptions(c *config.Config) (rig.Options, error) {
	policy, err := c.CrossfadePolicy()
	if err != nil {
		return rig.Options{}, err
	}
	return rig.Options{
		Crossfade:         policy,
		DefaultTransition: c.Animation.DefaultTransition,
	}, nil
}

// newSimulation builds count characters from def. Each one gets its own
// controller tree. m may be nil.
func newSimulation(c *config.Config, def *rig.Definition, count int, m *metrics.Metrics, out io.Writer) (*simulation, error) {
	if count < 1 {
		count = 1
	}
	base, err := rigOptions(c)
	if err != nil {
		return nil, err
	}

	s := &simulation{cfg: c, out: out, metrics: m, log: logger.Named("sim")}
	if m != nil {
		s.scene = character.NewScene(m)
	} else {
		s.scene = character.NewScene(nil)
	}
	if c.Simulation.DumpDir != "" {
		s.dumper = debug.NewFrameDumper(c.Simulation.DumpDir, def.Name)
	}

	moves := false
	for _, ev := range def.Script {
		if ev.Destination != nil {
			moves = true
			break
		}
	}

	for i := 0; i < count; i++ {
		name := def.Name
		if count > 1 {
			name = fmt.Sprintf("%s-%d", def.Name, i)
		}

		opts := base
		opts.Hooks = s.hooks(name)
		r, err := rig.Build(def, nil, opts)
		if err != nil {
			return nil, err
		}

		pos := mgl32.Vec3{float32(i) * spacing, 0, 0}
		charOpts := []character.Option{
			character.WithBlendThreshold(c.Animation.BlendThreshold),
			character.WithTransform(mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())),
		}
		if moves {
			var ground character.Ground
			if r.Ground != nil {
				ground = r.Ground
				pos[1] = r.Ground.HeightAt(pos.X(), pos.Z())
			}
			charOpts = append(charOpts, character.WithLocomotion(character.NewLocomotion(pos, ground)))
		}
		ch := character.New(name, r.Skeleton, r.Root, charOpts...)
		if err := s.scene.Add(ch); err != nil {
			return nil, err
		}
		s.actors = append(s.actors, &actor{char: ch, rig: r})
	}
	return s, nil
}

// hooks logs transitions and, when metrics are on, counts them.
func (s *simulation) hooks(name string) animation.GraphHooks {
	log := logger.ForCharacter(name)
	h := animation.GraphHooks{
		OnTransitionStart: func(from, to animation.State) {
			log.Debug("transition started", zap.String("from", string(from)), zap.String("to", string(to)))
		},
		OnTransitionEnd: func(from, to animation.State) {
			log.Debug("transition finished", zap.String("from", string(from)), zap.String("to", string(to)))
		},
		OnTransitionAbort: func(from, to animation.State) {
			log.Debug("transition retargeted", zap.String("from", string(from)), zap.String("to", string(to)))
		},
	}
	if s.metrics != nil {
		return s.metrics.GraphHooks(h)
	}
	return h
}

// run advances every character frames times and returns the number of
// frames in which at least one character failed.
func (s *simulation) run(frames int, dt float32) int {
	failed := 0
	for frame := 0; frame < frames; frame++ {
		now := float32(frame) * dt
		for _, a := range s.actors {
			a.applyScript(now)
		}
		if s.scene.Update(dt) > 0 {
			failed++
		}
		s.report(frame, now+dt)
	}
	return failed
}

// applyScript feeds every event due at or before now.
func (a *actor) applyScript(now float32) {
	due := false
	for a.next < len(a.rig.Script) && a.rig.Script[a.next].At <= now {
		ev := a.rig.Script[a.next]
		a.next++
		due = true

		if ev.Speed != nil {
			a.inputs.Speed = *ev.Speed
		}
		if ev.Jumping != nil {
			a.inputs.Jumping = *ev.Jumping
		}
		if ev.Blend != nil {
			a.inputs.BlendX, a.inputs.BlendY = ev.Blend.X(), ev.Blend.Y()
		}
		if ev.Goal != "" {
			a.inputs.Goal = ev.Goal
		}
		if len(ev.Params) > 0 {
			if a.inputs.Params == nil {
				a.inputs.Params = make(map[string]float32)
			}
			for k, v := range ev.Params {
				a.inputs.Params[k] = v
			}
		}
		if ev.Destination != nil {
			if loco := a.char.Locomotion(); loco != nil {
				x, z := loco.Position.X()+ev.Destination.X(), loco.Position.Z()+ev.Destination.Z()
				if !loco.NavigateTo(x, z) {
					logger.ForCharacter(a.char.Name()).Warn("destination unreachable", zap.Float32("x", x), zap.Float32("z", z))
				}
			}
		}
	}
	if !due {
		return
	}
	a.char.SetInputs(a.inputs)
	// The goal is a one-shot request; later events must not repeat it.
	a.inputs.Goal = ""
}

func (s *simulation) report(frame int, now float32) {
	printEvery := s.cfg.Simulation.PrintEvery
	for _, a := range s.actors {
		c := a.char
		if s.dumper != nil {
			s.dumper.Record(debug.NewFrameRecord(frame, c.Name(), c.Context().Skeleton(), c.State(), c.Progress(), c.Samples(), c.WorldTransforms()))
		}
		if printEvery <= 0 || frame%printEvery != 0 {
			continue
		}
		fmt.Fprintf(s.out, "frame %4d t=%6.3fs %-10s state=%-10s progress=%.3f %s\n",
			frame, now, c.Name(), c.State(), c.Progress(), formatSamples(c.Samples()))
	}
}

func formatSamples(samples []animation.WeightedSample) string {
	if len(samples) == 0 {
		return "[]"
	}
	parts := make([]string, len(samples))
	for i, s := range samples {
		parts[i] = fmt.Sprintf("%s:%.2f@%.2f", s.Clip.Name(), s.Weight, s.Time)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// flush writes the frame dump if one was requested.
func (s *simulation) flush() error {
	if s.dumper == nil || s.dumper.Len() == 0 {
		return nil
	}
	records := s.dumper.Len()
	path, err := s.dumper.Flush()
	if err != nil {
		return fmt.Errorf("writing frame dump: %w", err)
	}
	s.log.Info("frame dump written", zap.String("path", path), zap.Int("records", records))
	return nil
}
