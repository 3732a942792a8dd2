package animation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/logger"
)

// State tags a graph node. It is an open set; the constants below are the
// states used by the stock locomotion rig.
type State string

const (
	StateIdle      State = "idle"
	StateMovement  State = "movement"
	StateRun       State = "run"
	StateJumpLeft  State = "jump_left"
	StateJumpRight State = "jump_right"
)

// Trigger selects how an edge is started.
type Trigger int

const (
	// TriggerExplicit edges start when SetState requests their destination.
	TriggerExplicit Trigger = iota
	// TriggerAutomatic edges are scanned every Update while idle in the node.
	TriggerAutomatic
)

func (t Trigger) String() string {
	switch t {
	case TriggerExplicit:
		return "explicit"
	case TriggerAutomatic:
		return "automatic"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// ParseTrigger converts a rig-file name into a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "", "explicit":
		return TriggerExplicit, nil
	case "automatic", "auto":
		return TriggerAutomatic, nil
	default:
		return TriggerExplicit, fmt.Errorf("unknown trigger %q", s)
	}
}

// Crossfade selects how an active edge weights its controllers.
type Crossfade int

const (
	// CrossfadeDefault defers to the graph-wide policy.
	CrossfadeDefault Crossfade = iota
	// CrossfadeAuto is triangular when the edge has a transition controller
	// and direct otherwise.
	CrossfadeAuto
	// CrossfadeDirect fades from -> to as (1-e, e) with e = easing(p).
	CrossfadeDirect
	// CrossfadeTriangular ramps from -> transition -> to over the edge.
	CrossfadeTriangular
)

func (c Crossfade) String() string {
	switch c {
	case CrossfadeDefault:
		return "default"
	case CrossfadeAuto:
		return "auto"
	case CrossfadeDirect:
		return "direct"
	case CrossfadeTriangular:
		return "triangular"
	default:
		return fmt.Sprintf("Crossfade(%d)", int(c))
	}
}

// ParseCrossfade converts a config or rig-file name into a Crossfade.
func ParseCrossfade(s string) (Crossfade, error) {
	switch s {
	case "", "default":
		return CrossfadeDefault, nil
	case "auto":
		return CrossfadeAuto, nil
	case "direct":
		return CrossfadeDirect, nil
	case "triangular":
		return CrossfadeTriangular, nil
	default:
		return CrossfadeDefault, fmt.Errorf("unknown crossfade policy %q", s)
	}
}

// GraphEdge is an outgoing transition. To indexes the graph's node slice.
type GraphEdge struct {
	To int

	// Transition optionally plays in between the two nodes.
	Transition Controller

	// Duration of the crossfade in seconds.
	Duration float32

	// StartProgress is the source node progress an automatic edge waits for.
	StartProgress float32

	Easing    EasingFunc
	Guard     Guard
	Trigger   Trigger
	Crossfade Crossfade
}

// GraphNode is a state of the graph and the controller playing in it.
// Controllers may be shared between nodes and edges; they must be pointer
// types so they can be told apart by identity.
type GraphNode struct {
	Controller Controller
	State      State
	Edges      []GraphEdge
}

// GraphHooks observe transitions. Any field may be nil. Every started
// transition is followed by exactly one end or abort call; an abort is
// reported when a retarget replaces the active edge.
type GraphHooks struct {
	OnTransitionStart func(from, to State)
	OnTransitionEnd   func(from, to State)
	OnTransitionAbort func(from, to State)
}

// GraphOption configures a TransitionGraph.
type GraphOption func(*TransitionGraph)

// WithCrossfade sets the graph-wide crossfade policy (default CrossfadeAuto).
// Edges without a transition controller always fade directly.
func WithCrossfade(c Crossfade) GraphOption {
	return func(g *TransitionGraph) {
		if c != CrossfadeDefault {
			g.crossfade = c
		}
	}
}

// WithHooks installs transition observers.
func WithHooks(h GraphHooks) GraphOption {
	return func(g *TransitionGraph) {
		g.hooks = h
	}
}

// WithParameters seeds the parameter map.
func WithParameters(p Parameters) GraphOption {
	return func(g *TransitionGraph) {
		for k, v := range p {
			g.params[k] = v
		}
	}
}

type activeEdge struct {
	node     int
	edge     int
	progress float32
}

// TransitionGraph is a state machine of controller-bearing nodes joined by
// guarded, timed crossfade edges. It is itself a Controller, so graphs nest.
//
// The graph moves one hop at a time toward its goal state: SetState records
// the goal and starts a matching edge if one is eligible; every Update retries
// a pending goal, then scans automatic edges. Requesting a new goal while an
// edge is active restarts from the source node and discards the progress of
// the edge in flight.
type TransitionGraph struct {
	nodes       []GraphNode
	controllers []Controller
	current     int
	goal        State
	active      *activeEdge
	params      Parameters
	crossfade   Crossfade
	hooks       GraphHooks
}

var _ Controller = (*TransitionGraph)(nil)

// NewTransitionGraph creates a graph that starts in the first node tagged
// initial. Edges pointing outside the node slice are dropped. If no node
// matches initial the graph stays disabled and emits nothing; both problems
// are logged once here.
func NewTransitionGraph(nodes []GraphNode, initial State, opts ...GraphOption) *TransitionGraph {
	log := logger.Named("graph")

	g := &TransitionGraph{
		nodes:     make([]GraphNode, len(nodes)),
		current:   -1,
		goal:      initial,
		params:    make(Parameters),
		crossfade: CrossfadeAuto,
	}
	for i, n := range nodes {
		kept := make([]GraphEdge, 0, len(n.Edges))
		for _, e := range n.Edges {
			if e.To < 0 || e.To >= len(nodes) {
				log.Warn("dropping edge to unknown node",
					zap.String("from", string(n.State)),
					zap.Int("to", e.To),
				)
				continue
			}
			kept = append(kept, e)
		}
		n.Edges = kept
		g.nodes[i] = n
		if g.current < 0 && n.State == initial {
			g.current = i
		}
	}
	if g.current < 0 {
		log.Warn("initial state not found, graph disabled", zap.String("initial", string(initial)))
	}

	for _, opt := range opts {
		opt(g)
	}
	g.controllers = g.collectControllers()
	return g
}

func (g *TransitionGraph) collectControllers() []Controller {
	var out []Controller
	add := func(c Controller) {
		if c == nil {
			return
		}
		for _, seen := range out {
			if seen == c {
				return
			}
		}
		out = append(out, c)
	}
	for _, n := range g.nodes {
		add(n.Controller)
		for _, e := range n.Edges {
			add(e.Transition)
		}
	}
	return out
}

// Enabled reports whether the graph found its initial state.
func (g *TransitionGraph) Enabled() bool {
	return g.current >= 0
}

// State returns the current node's tag, or "" when disabled.
func (g *TransitionGraph) State() State {
	if g.current < 0 {
		return ""
	}
	return g.nodes[g.current].State
}

// Goal returns the state the graph is heading to.
func (g *TransitionGraph) Goal() State {
	return g.goal
}

// InTransition reports whether an edge is active.
func (g *TransitionGraph) InTransition() bool {
	return g.active != nil
}

// ActiveTransition describes the active edge, if any.
func (g *TransitionGraph) ActiveTransition() (from, to State, progress float32, ok bool) {
	if g.active == nil {
		return "", "", 0, false
	}
	e := g.edge(g.active)
	return g.nodes[g.active.node].State, g.nodes[e.To].State, g.active.progress, true
}

// SetState requests a transition toward target. The request is kept as the
// goal and retried every Update until an eligible edge exists.
func (g *TransitionGraph) SetState(target State) {
	if g.current < 0 || g.goal == target {
		return
	}
	g.goal = target
	g.tryGoal()
}

// SetParameter writes a named parameter.
func (g *TransitionGraph) SetParameter(name string, value float32) {
	g.params[name] = value
}

// Parameter reads a named parameter.
func (g *TransitionGraph) Parameter(name string) (float32, bool) {
	return g.params.Get(name)
}

// Parameters returns a read-only view of the parameter map.
func (g *TransitionGraph) Parameters() ParameterView {
	return g.params
}

// SetSpeed sets the "speed" parameter.
func (g *TransitionGraph) SetSpeed(v float32) { g.params[ParamSpeed] = v }

// Speed returns the "speed" parameter (0 when unset).
func (g *TransitionGraph) Speed() float32 { return g.params[ParamSpeed] }

// SetJumping sets the "isJumping" parameter to 1 or 0.
func (g *TransitionGraph) SetJumping(jumping bool) {
	if jumping {
		g.params[ParamIsJumping] = 1
	} else {
		g.params[ParamIsJumping] = 0
	}
}

// Jumping reports whether "isJumping" is non-zero.
func (g *TransitionGraph) Jumping() bool { return g.params[ParamIsJumping] != 0 }

// SetWalkFoot sets the "walkFoot" parameter.
func (g *TransitionGraph) SetWalkFoot(v float32) { g.params[ParamWalkFoot] = v }

// WalkFoot returns the "walkFoot" parameter (0 when unset).
func (g *TransitionGraph) WalkFoot() float32 { return g.params[ParamWalkFoot] }

// Duration is not defined for a graph and returns GraphDuration.
func (g *TransitionGraph) Duration() float32 {
	return GraphDuration
}

// Progress returns the current node's progress.
func (g *TransitionGraph) Progress() float32 {
	if g.current < 0 || g.nodes[g.current].Controller == nil {
		return 0
	}
	return g.nodes[g.current].Controller.Progress()
}

// TransitionProgress returns the active edge's progress, 0 when idle.
func (g *TransitionGraph) TransitionProgress() float32 {
	if g.active == nil {
		return 0
	}
	return g.active.progress
}

// SetParameters forwards blend coordinates to every controller in the graph,
// so a node entered later already has the right weights.
func (g *TransitionGraph) SetParameters(x, y float32) {
	for _, c := range g.controllers {
		c.SetParameters(x, y)
	}
}

// Reset drops any active edge, rewinds the current node and makes the
// current state the goal.
func (g *TransitionGraph) Reset() {
	if g.current < 0 {
		return
	}
	g.active = nil
	if c := g.nodes[g.current].Controller; c != nil {
		c.Reset()
	}
	g.goal = g.nodes[g.current].State
}

// Update advances the active edge or the current node.
func (g *TransitionGraph) Update(dt float32) {
	if g.current < 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	if g.active == nil {
		if g.nodes[g.current].State != g.goal {
			g.tryGoal()
		}
		if g.active == nil {
			g.tryAutomatic()
		}
	}

	if g.active == nil {
		if c := g.nodes[g.current].Controller; c != nil {
			c.Update(dt)
		}
		return
	}

	from, trans, to := g.edgeControllers(g.active)
	updateDistinct(dt, from, trans, to)

	e := g.edge(g.active)
	duration := e.Duration
	if duration < Epsilon {
		duration = Epsilon
	}
	p := g.active.progress + dt/duration
	if p > 1 {
		p = 1
	}
	g.active.progress = p
	if p >= 1-Epsilon {
		g.complete()
	}
}

// CollectAnimations emits the current node's samples, or the crossfade of
// the active edge.
func (g *TransitionGraph) CollectAnimations(out []WeightedSample, weight float32) []WeightedSample {
	if g.current < 0 {
		return out
	}
	if g.active == nil {
		return collect(g.nodes[g.current].Controller, out, weight)
	}

	from, trans, to := g.edgeControllers(g.active)
	e := g.edge(g.active)
	p := g.active.progress

	if g.policy(e) == CrossfadeTriangular {
		wFrom, wTrans, wTo := TriangularWeights(p)
		out = collect(from, out, weight*wFrom)
		out = collect(trans, out, weight*wTrans)
		return collect(to, out, weight*wTo)
	}

	wFrom, wTo := DirectWeights(p, e.Easing)
	out = collect(from, out, weight*wFrom)
	return collect(to, out, weight*wTo)
}

// TriangularWeights returns the (from, transition, to) weights of a
// three-way crossfade at progress p.
func TriangularWeights(p float32) (from, transition, to float32) {
	p = clamp01(p)
	if p < 0.5 {
		return 1 - 2*p, 2 * p, 0
	}
	return 0, 2 - 2*p, 2*p - 1
}

// DirectWeights returns the (from, to) weights of a two-way crossfade at
// progress p after easing.
func DirectWeights(p float32, easing EasingFunc) (from, to float32) {
	e := clamp01(p)
	if easing != nil {
		e = clamp01(easing(e))
	}
	return 1 - e, e
}

func (g *TransitionGraph) policy(e *GraphEdge) Crossfade {
	c := e.Crossfade
	if c == CrossfadeDefault {
		c = g.crossfade
	}
	if e.Transition == nil {
		return CrossfadeDirect
	}
	if c == CrossfadeAuto || c == CrossfadeDefault {
		return CrossfadeTriangular
	}
	return c
}

// tryGoal starts an eligible edge from the current node to the goal state.
// While an edge is active, a matching edge from the source node retargets it.
func (g *TransitionGraph) tryGoal() {
	if g.active != nil {
		if g.nodes[g.edge(g.active).To].State == g.goal {
			return
		}
	} else if g.nodes[g.current].State == g.goal {
		return
	}

	for i := range g.nodes[g.current].Edges {
		e := &g.nodes[g.current].Edges[i]
		if g.nodes[e.To].State != g.goal || !g.guardPasses(e) {
			continue
		}
		g.start(i)
		return
	}
}

// tryAutomatic starts the first automatic edge whose guard passes and whose
// start threshold has been reached. Its destination becomes the goal.
func (g *TransitionGraph) tryAutomatic() {
	node := &g.nodes[g.current]
	var progress float32
	if node.Controller != nil {
		progress = node.Controller.Progress()
	}
	for i := range node.Edges {
		e := &node.Edges[i]
		if e.Trigger != TriggerAutomatic || !g.guardPasses(e) || progress < e.StartProgress {
			continue
		}
		g.goal = g.nodes[e.To].State
		g.start(i)
		return
	}
}

func (g *TransitionGraph) guardPasses(e *GraphEdge) bool {
	return e.Guard == nil || e.Guard(g.params)
}

func (g *TransitionGraph) start(edge int) {
	if g.active != nil && g.hooks.OnTransitionAbort != nil {
		g.hooks.OnTransitionAbort(g.nodes[g.active.node].State, g.nodes[g.edge(g.active).To].State)
	}
	g.active = &activeEdge{node: g.current, edge: edge}
	if g.hooks.OnTransitionStart != nil {
		e := g.edge(g.active)
		g.hooks.OnTransitionStart(g.nodes[g.current].State, g.nodes[e.To].State)
	}
}

func (g *TransitionGraph) complete() {
	from, trans, to := g.edgeControllers(g.active)
	resetDistinct(from, trans, to)

	fromState := g.nodes[g.active.node].State
	g.current = g.edge(g.active).To
	g.active = nil

	if g.hooks.OnTransitionEnd != nil {
		g.hooks.OnTransitionEnd(fromState, g.nodes[g.current].State)
	}
	if g.nodes[g.current].State != g.goal {
		g.tryGoal()
	}
}

func (g *TransitionGraph) edge(a *activeEdge) *GraphEdge {
	return &g.nodes[a.node].Edges[a.edge]
}

func (g *TransitionGraph) edgeControllers(a *activeEdge) (from, trans, to Controller) {
	e := g.edge(a)
	return g.nodes[a.node].Controller, e.Transition, g.nodes[e.To].Controller
}

// GraphEdgeInfo describes an edge for debug tooling.
type GraphEdgeInfo struct {
	To            State
	ToIndex       int
	Duration      float32
	StartProgress float32
	Trigger       Trigger
	Crossfade     Crossfade
	HasGuard      bool
	HasTransition bool
	HasEasing     bool
}

// GraphNodeInfo describes a node for debug tooling.
type GraphNodeInfo struct {
	Index   int
	State   State
	Current bool
	Edges   []GraphEdgeInfo
}

// Describe returns a snapshot of the graph structure with the effective
// crossfade policy of each edge.
func (g *TransitionGraph) Describe() []GraphNodeInfo {
	out := make([]GraphNodeInfo, len(g.nodes))
	for i, n := range g.nodes {
		info := GraphNodeInfo{Index: i, State: n.State, Current: i == g.current}
		for j := range n.Edges {
			e := &n.Edges[j]
			info.Edges = append(info.Edges, GraphEdgeInfo{
				To:            g.nodes[e.To].State,
				ToIndex:       e.To,
				Duration:      e.Duration,
				StartProgress: e.StartProgress,
				Trigger:       e.Trigger,
				Crossfade:     g.policy(e),
				HasGuard:      e.Guard != nil,
				HasTransition: e.Transition != nil,
				HasEasing:     e.Easing != nil,
			})
		}
		out[i] = info
	}
	return out
}

func collect(c Controller, out []WeightedSample, weight float32) []WeightedSample {
	if c == nil || weight < MinSampleWeight {
		return out
	}
	return c.CollectAnimations(out, weight)
}

func updateDistinct(dt float32, a, b, c Controller) {
	if a != nil {
		a.Update(dt)
	}
	if b != nil && b != a {
		b.Update(dt)
	}
	if c != nil && c != a && c != b {
		c.Update(dt)
	}
}

func resetDistinct(a, b, c Controller) {
	if a != nil {
		a.Reset()
	}
	if b != nil && b != a {
		b.Reset()
	}
	if c != nil && c != a && c != b {
		c.Reset()
	}
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
