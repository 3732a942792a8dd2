package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingController records calls so tests can check identity de-duplication.
type countingController struct {
	SingleClip
	updates int
	resets  int
	params  int
}

func newCounting(name string, duration float32) *countingController {
	return &countingController{SingleClip: SingleClip{clip: staticClip(name, duration)}}
}

func (c *countingController) Update(dt float32) {
	c.updates++
	c.SingleClip.Update(dt)
}

func (c *countingController) Reset() {
	c.resets++
	c.SingleClip.Reset()
}

func (c *countingController) SetParameters(x, y float32) {
	c.params++
}

func idleMovementGraph(t *testing.T, opts ...EdgeOption) (*TransitionGraph, *countingController, *countingController) {
	t.Helper()
	idle := newCounting("idle", 2)
	move := newCounting("walk", 1)

	b := NewGraphBuilder()
	i := b.AddNode(StateIdle, idle)
	m := b.AddNode(StateMovement, move)
	b.Connect(i, m, append([]EdgeOption{Over(0.4)}, opts...)...)
	b.Connect(m, i, Over(0.2))

	g, err := b.Build(StateIdle)
	require.NoError(t, err)
	return g, idle, move
}

func TestGraphIdleToMovement(t *testing.T) {
	g, _, _ := idleMovementGraph(t)
	require.Equal(t, StateIdle, g.State())

	g.SetState(StateMovement)
	require.True(t, g.InTransition())

	var elapsed float32
	for elapsed < 0.4 {
		g.Update(0.4)
		elapsed += 0.4
	}

	assert.Equal(t, StateMovement, g.State())
	assert.False(t, g.InTransition())
	assert.Zero(t, g.TransitionProgress())
}

func TestGraphTransitionInSmallSteps(t *testing.T) {
	g, idle, move := idleMovementGraph(t)
	g.SetState(StateMovement)

	for i := 0; i < 9; i++ {
		g.Update(0.04)
	}
	require.True(t, g.InTransition())
	assert.InDelta(t, 0.9, g.TransitionProgress(), 1e-4)

	g.Update(0.04)
	assert.Equal(t, StateMovement, g.State())
	assert.Equal(t, 10, idle.updates)
	assert.Equal(t, 10, move.updates)
	assert.Equal(t, 1, idle.resets)
	assert.Equal(t, 1, move.resets)
}

func TestGraphGuardedEdge(t *testing.T) {
	guard := All(Greater(ParamSpeed, 0.1), Equal(ParamIsJumping, 0))
	g, _, _ := idleMovementGraph(t, When(guard))
	g.SetSpeed(0)
	g.SetJumping(false)

	g.SetState(StateMovement)
	assert.False(t, g.InTransition())
	assert.Equal(t, StateMovement, g.Goal())

	g.Update(0.1)
	assert.False(t, g.InTransition(), "guard must hold the edge")

	g.SetSpeed(0.5)
	g.Update(0.1)
	require.True(t, g.InTransition())
	from, to, _, ok := g.ActiveTransition()
	require.True(t, ok)
	assert.Equal(t, StateIdle, from)
	assert.Equal(t, StateMovement, to)
}

func TestGraphGuardMissingParameter(t *testing.T) {
	g, _, _ := idleMovementGraph(t, When(Greater("lean", 0)))
	g.SetState(StateMovement)
	g.Update(0.1)
	assert.False(t, g.InTransition())
}

func TestGraphAutomaticEdge(t *testing.T) {
	idle := NewSingleClip(staticClip("idle", 1))
	move := NewSingleClip(staticClip("walk", 1))

	b := NewGraphBuilder()
	b.AddNode(StateIdle, idle)
	b.AddNode(StateMovement, move)
	b.ConnectStates(StateIdle, StateMovement, Over(0.25), When(Greater(ParamSpeed, 0.1)), Automatically(0))
	b.ConnectStates(StateMovement, StateIdle, Over(0.25), When(LessEqual(ParamSpeed, 0.1)), Automatically(0))
	g, err := b.Build(StateIdle)
	require.NoError(t, err)

	g.SetSpeed(0)
	g.Update(0.1)
	assert.False(t, g.InTransition())

	g.SetSpeed(1)
	g.Update(0.1)
	require.True(t, g.InTransition())
	assert.Equal(t, StateMovement, g.Goal())
	g.Update(0.25)
	assert.Equal(t, StateMovement, g.State())

	g.SetSpeed(0)
	g.Update(0.3)
	assert.Equal(t, StateIdle, g.State())
}

func TestGraphAutomaticStartProgress(t *testing.T) {
	jump := NewSingleClip(staticClip("jump", 1))
	idle := NewSingleClip(staticClip("idle", 1))

	b := NewGraphBuilder()
	b.AddNode(StateJumpLeft, jump)
	b.AddNode(StateIdle, idle)
	b.ConnectStates(StateJumpLeft, StateIdle, Over(0.1), Automatically(0.8))
	g, err := b.Build(StateJumpLeft)
	require.NoError(t, err)

	g.Update(0.5)
	assert.False(t, g.InTransition())
	g.Update(0.35)
	assert.False(t, g.InTransition(), "threshold is checked before the node advances")
	g.Update(0.01)
	assert.True(t, g.InTransition())
}

func TestGraphMultiHopTowardGoal(t *testing.T) {
	b := NewGraphBuilder()
	b.AddNode(StateIdle, NewSingleClip(staticClip("idle", 1)))
	b.AddNode(StateMovement, NewSingleClip(staticClip("walk", 1)))
	b.AddNode(StateRun, NewSingleClip(staticClip("run", 1)))
	b.ConnectStates(StateIdle, StateMovement, Over(0.2))
	b.ConnectStates(StateMovement, StateRun, Over(0.2))
	b.ConnectStates(StateRun, StateIdle, Over(0.2))
	g, err := b.Build(StateIdle)
	require.NoError(t, err)

	g.SetState(StateRun)
	assert.False(t, g.InTransition(), "no direct edge to run")

	g.SetState(StateMovement)
	require.True(t, g.InTransition())
	g.Update(0.2)
	assert.Equal(t, StateMovement, g.State())

	g.SetState(StateRun)
	g.Update(0.2)
	assert.Equal(t, StateRun, g.State())
}

func TestGraphChainsHopOnCompletion(t *testing.T) {
	b := NewGraphBuilder()
	b.AddNode(StateIdle, NewSingleClip(staticClip("idle", 1)))
	b.AddNode(StateMovement, NewSingleClip(staticClip("walk", 1)))
	b.AddNode(StateRun, NewSingleClip(staticClip("run", 1)))
	b.ConnectStates(StateIdle, StateMovement, Over(0.2))
	b.ConnectStates(StateMovement, StateIdle, Over(0.2))
	b.ConnectStates(StateIdle, StateRun, Over(0.2))
	g, err := b.Build(StateMovement)
	require.NoError(t, err)

	g.SetState(StateIdle)
	g.Update(0.1)
	// No movement -> run edge, so the goal retarget finds nothing and the
	// edge to idle keeps running.
	g.SetState(StateRun)
	_, to, p, ok := g.ActiveTransition()
	require.True(t, ok)
	assert.Equal(t, StateIdle, to)
	assert.InDelta(t, 0.5, p, 1e-4)

	g.Update(0.1)
	// Completed into idle, then immediately hopped toward run.
	assert.Equal(t, StateIdle, g.State())
	_, to, p, ok = g.ActiveTransition()
	require.True(t, ok)
	assert.Equal(t, StateRun, to)
	assert.Zero(t, p)
}

func TestGraphRetargetDiscardsProgress(t *testing.T) {
	b := NewGraphBuilder()
	b.AddNode(StateIdle, NewSingleClip(staticClip("idle", 1)))
	b.AddNode(StateMovement, NewSingleClip(staticClip("walk", 1)))
	b.AddNode(StateJumpLeft, NewSingleClip(staticClip("jump", 1)))
	b.ConnectStates(StateIdle, StateMovement, Over(1))
	b.ConnectStates(StateIdle, StateJumpLeft, Over(1))
	g, err := b.Build(StateIdle)
	require.NoError(t, err)

	g.SetState(StateMovement)
	g.Update(0.6)
	require.InDelta(t, 0.6, g.TransitionProgress(), 1e-4)

	g.SetState(StateJumpLeft)
	_, to, p, ok := g.ActiveTransition()
	require.True(t, ok)
	assert.Equal(t, StateJumpLeft, to)
	assert.Zero(t, p)
}

func TestGraphHooks(t *testing.T) {
	var started, ended [][2]State
	idle := NewSingleClip(staticClip("idle", 1))
	move := NewSingleClip(staticClip("walk", 1))
	nodes := []GraphNode{
		{Controller: idle, State: StateIdle, Edges: []GraphEdge{{To: 1, Duration: 0.2}}},
		{Controller: move, State: StateMovement},
	}
	g := NewTransitionGraph(nodes, StateIdle, WithHooks(GraphHooks{
		OnTransitionStart: func(from, to State) { started = append(started, [2]State{from, to}) },
		OnTransitionEnd:   func(from, to State) { ended = append(ended, [2]State{from, to}) },
	}))

	g.SetState(StateMovement)
	g.Update(0.2)
	assert.Equal(t, [][2]State{{StateIdle, StateMovement}}, started)
	assert.Equal(t, [][2]State{{StateIdle, StateMovement}}, ended)
}

func TestGraphHooksReportRetarget(t *testing.T) {
	var started, ended, aborted [][2]State
	b := NewGraphBuilder()
	b.AddNode(StateIdle, NewSingleClip(staticClip("idle", 1)))
	b.AddNode(StateMovement, NewSingleClip(staticClip("walk", 1)))
	b.AddNode(StateJumpLeft, NewSingleClip(staticClip("jump", 1)))
	b.ConnectStates(StateIdle, StateMovement, Over(1))
	b.ConnectStates(StateIdle, StateJumpLeft, Over(1))
	g, err := b.Build(StateIdle, WithHooks(GraphHooks{
		OnTransitionStart: func(from, to State) { started = append(started, [2]State{from, to}) },
		OnTransitionEnd:   func(from, to State) { ended = append(ended, [2]State{from, to}) },
		OnTransitionAbort: func(from, to State) { aborted = append(aborted, [2]State{from, to}) },
	}))
	require.NoError(t, err)

	g.SetState(StateMovement)
	g.Update(0.5)
	g.SetState(StateJumpLeft)
	g.Update(1)

	assert.Equal(t, [][2]State{{StateIdle, StateMovement}, {StateIdle, StateJumpLeft}}, started)
	assert.Equal(t, [][2]State{{StateIdle, StateMovement}}, aborted)
	assert.Equal(t, [][2]State{{StateIdle, StateJumpLeft}}, ended)
	assert.Equal(t, len(started), len(ended)+len(aborted))
}

func TestGraphDirectCrossfade(t *testing.T) {
	g, _, _ := idleMovementGraph(t)
	g.SetState(StateMovement)
	g.Update(0.1)

	out := g.CollectAnimations(nil, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "idle", out[0].Clip.Name())
	assert.InDelta(t, 0.75, out[0].Weight, 1e-4)
	assert.Equal(t, "walk", out[1].Clip.Name())
	assert.InDelta(t, 0.25, out[1].Weight, 1e-4)
}

func TestGraphDirectCrossfadeEasing(t *testing.T) {
	g, _, _ := idleMovementGraph(t, Eased(EaseIn))
	g.SetState(StateMovement)
	g.Update(0.2)

	out := g.CollectAnimations(nil, 1)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.75, out[0].Weight, 1e-4)
	assert.InDelta(t, 0.25, out[1].Weight, 1e-4)
}

func TestGraphTriangularCrossfade(t *testing.T) {
	idle := NewSingleClip(staticClip("idle", 1))
	land := NewSingleClip(staticClip("land", 1))
	move := NewSingleClip(staticClip("walk", 1))

	b := NewGraphBuilder()
	b.AddNode(StateIdle, idle)
	b.AddNode(StateMovement, move)
	b.ConnectStates(StateIdle, StateMovement, Over(1), Via(land))
	g, err := b.Build(StateIdle)
	require.NoError(t, err)

	g.SetState(StateMovement)
	g.Update(0.25)
	out := g.CollectAnimations(nil, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "idle", out[0].Clip.Name())
	assert.InDelta(t, 0.5, out[0].Weight, 1e-4)
	assert.Equal(t, "land", out[1].Clip.Name())
	assert.InDelta(t, 0.5, out[1].Weight, 1e-4)

	g.Update(0.5)
	out = g.CollectAnimations(nil, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "land", out[0].Clip.Name())
	assert.InDelta(t, 0.5, out[0].Weight, 1e-4)
	assert.Equal(t, "walk", out[1].Clip.Name())
	assert.InDelta(t, 0.5, out[1].Weight, 1e-4)
}

func TestGraphCrossfadePolicyOverride(t *testing.T) {
	land := NewSingleClip(staticClip("land", 1))
	nodes := []GraphNode{
		{Controller: NewSingleClip(staticClip("idle", 1)), State: StateIdle, Edges: []GraphEdge{{To: 1, Duration: 1, Transition: land}}},
		{Controller: NewSingleClip(staticClip("walk", 1)), State: StateMovement},
	}
	g := NewTransitionGraph(nodes, StateIdle, WithCrossfade(CrossfadeDirect))

	g.SetState(StateMovement)
	g.Update(0.5)
	out := g.CollectAnimations(nil, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "idle", out[0].Clip.Name())
	assert.Equal(t, "walk", out[1].Clip.Name())

	info := g.Describe()
	assert.Equal(t, CrossfadeDirect, info[0].Edges[0].Crossfade)
}

func TestGraphTriangularPolicyWithoutTransition(t *testing.T) {
	g, _, _ := idleMovementGraph(t, Fade(CrossfadeTriangular))
	other, _, _ := idleMovementGraph(t)
	other.crossfade = CrossfadeTriangular

	for _, g := range []*TransitionGraph{g, other} {
		g.SetState(StateMovement)
		for i := 0; i < 3; i++ {
			g.Update(0.1)
			out := g.CollectAnimations(nil, 1)
			require.Len(t, out, 2)
			assert.InDelta(t, 1, out[0].Weight+out[1].Weight, 1e-4)
		}
		assert.Equal(t, CrossfadeDirect, g.Describe()[0].Edges[0].Crossfade)
	}
}

func TestTriangularWeights(t *testing.T) {
	tests := []struct {
		p            float32
		from, tr, to float32
	}{
		{0, 1, 0, 0},
		{0.25, 0.5, 0.5, 0},
		{0.5, 0, 1, 0},
		{0.75, 0, 0.5, 0.5},
		{1, 0, 0, 1},
	}
	for _, tt := range tests {
		from, tr, to := TriangularWeights(tt.p)
		assert.InDelta(t, tt.from, from, 1e-6, "p=%v", tt.p)
		assert.InDelta(t, tt.tr, tr, 1e-6, "p=%v", tt.p)
		assert.InDelta(t, tt.to, to, 1e-6, "p=%v", tt.p)
		assert.InDelta(t, 1, from+tr+to, 1e-6)
	}
}

func TestGraphSharedControllerUpdatedOnce(t *testing.T) {
	shared := newCounting("loco", 1)
	nodes := []GraphNode{
		{Controller: shared, State: StateMovement, Edges: []GraphEdge{{To: 1, Duration: 1, Transition: shared}}},
		{Controller: shared, State: StateRun},
	}
	g := NewTransitionGraph(nodes, StateMovement)

	g.SetState(StateRun)
	g.Update(0.5)
	assert.Equal(t, 1, shared.updates)

	g.SetParameters(1, 0)
	assert.Equal(t, 1, shared.params)

	g.Update(0.5)
	assert.Equal(t, StateRun, g.State())
	assert.Equal(t, 1, shared.resets)
}

func TestGraphSetParametersReachesAllNodes(t *testing.T) {
	g, idle, move := idleMovementGraph(t)
	g.SetParameters(0.5, 0)
	assert.Equal(t, 1, idle.params)
	assert.Equal(t, 1, move.params)
}

func TestGraphReset(t *testing.T) {
	g, idle, _ := idleMovementGraph(t)
	g.Update(0.5)
	g.SetState(StateMovement)
	g.Update(0.1)

	g.Reset()
	assert.False(t, g.InTransition())
	assert.Equal(t, StateIdle, g.State())
	assert.Equal(t, StateIdle, g.Goal())
	assert.Zero(t, idle.Progress())
}

func TestGraphDurationAndProgress(t *testing.T) {
	g, _, _ := idleMovementGraph(t)
	assert.Equal(t, float32(GraphDuration), g.Duration())
	g.Update(0.5)
	assert.InDelta(t, 0.25, g.Progress(), 1e-6)
}

func TestGraphUnknownInitialIsDisabled(t *testing.T) {
	nodes := []GraphNode{{Controller: NewSingleClip(staticClip("idle", 1)), State: StateIdle}}
	g := NewTransitionGraph(nodes, StateRun)
	assert.False(t, g.Enabled())
	assert.Equal(t, State(""), g.State())

	g.SetState(StateIdle)
	g.Update(0.1)
	assert.Empty(t, g.CollectAnimations(nil, 1))
}

func TestGraphDropsDanglingEdges(t *testing.T) {
	nodes := []GraphNode{
		{Controller: NewSingleClip(staticClip("idle", 1)), State: StateIdle, Edges: []GraphEdge{{To: 7}}},
	}
	g := NewTransitionGraph(nodes, StateIdle)
	assert.Empty(t, g.Describe()[0].Edges)
}

func TestGraphZeroDurationCompletesInOneUpdate(t *testing.T) {
	nodes := []GraphNode{
		{Controller: NewSingleClip(staticClip("idle", 1)), State: StateIdle, Edges: []GraphEdge{{To: 1}}},
		{Controller: NewSingleClip(staticClip("walk", 1)), State: StateMovement},
	}
	g := NewTransitionGraph(nodes, StateIdle)
	g.SetState(StateMovement)
	g.Update(0.016)
	assert.Equal(t, StateMovement, g.State())
}

func TestGraphNested(t *testing.T) {
	inner, _, _ := idleMovementGraph(t)
	outer := NewTransitionGraph([]GraphNode{{Controller: inner, State: "locomotion"}}, "locomotion")

	outer.Update(0.5)
	out := outer.CollectAnimations(nil, 0.5)
	require.Len(t, out, 1)
	assert.Equal(t, "idle", out[0].Clip.Name())
	assert.InDelta(t, 0.5, out[0].Weight, 1e-6)
}

func TestGraphParameters(t *testing.T) {
	g := NewTransitionGraph(nil, StateIdle, WithParameters(Parameters{ParamWalkFoot: 1}))
	assert.Equal(t, float32(1), g.WalkFoot())

	g.SetJumping(true)
	assert.True(t, g.Jumping())
	g.SetParameter("lean", -0.5)
	v, ok := g.Parameter("lean")
	assert.True(t, ok)
	assert.Equal(t, float32(-0.5), v)

	_, ok = g.Parameters().Get("missing")
	assert.False(t, ok)
}

func TestGraphBuilderErrors(t *testing.T) {
	b := NewGraphBuilder()
	b.AddNode(StateIdle, nil)
	b.AddNode(StateIdle, nil)
	b.Connect(0, 5)
	b.ConnectStates(StateIdle, StateRun)

	_, err := b.Build(StateMovement)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateState)
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestParseTriggerAndCrossfade(t *testing.T) {
	tr, err := ParseTrigger("automatic")
	require.NoError(t, err)
	assert.Equal(t, TriggerAutomatic, tr)
	_, err = ParseTrigger("sometimes")
	assert.Error(t, err)

	c, err := ParseCrossfade("triangular")
	require.NoError(t, err)
	assert.Equal(t, CrossfadeTriangular, c)
	assert.Equal(t, "triangular", c.String())
	_, err = ParseCrossfade("wipe")
	assert.Error(t, err)
}
