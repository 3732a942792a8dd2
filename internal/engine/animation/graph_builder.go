package animation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when an edge references a node index that
	// was never added.
	ErrUnknownNode = errors.New("unknown graph node")
	// ErrUnknownState is returned when the initial state has no node.
	ErrUnknownState = errors.New("unknown graph state")
	// ErrDuplicateState is returned when two nodes share a state tag.
	ErrDuplicateState = errors.New("duplicate graph state")
)

// EdgeOption configures an edge added through GraphBuilder.Connect.
type EdgeOption func(*GraphEdge)

// Over sets the crossfade duration in seconds.
func Over(seconds float32) EdgeOption {
	return func(e *GraphEdge) { e.Duration = seconds }
}

// Via plays c in between the two nodes.
func Via(c Controller) EdgeOption {
	return func(e *GraphEdge) { e.Transition = c }
}

// When gates the edge on g.
func When(g Guard) EdgeOption {
	return func(e *GraphEdge) { e.Guard = g }
}

// Eased applies f to the direct crossfade.
func Eased(f EasingFunc) EdgeOption {
	return func(e *GraphEdge) { e.Easing = f }
}

// Automatically makes the edge automatic, starting once the source node has
// reached startProgress.
func Automatically(startProgress float32) EdgeOption {
	return func(e *GraphEdge) {
		e.Trigger = TriggerAutomatic
		e.StartProgress = startProgress
	}
}

// Fade overrides the graph crossfade policy for this edge.
func Fade(c Crossfade) EdgeOption {
	return func(e *GraphEdge) { e.Crossfade = c }
}

// GraphBuilder assembles graph nodes by state name and reports wiring errors
// at Build time rather than dropping them.
type GraphBuilder struct {
	nodes   []GraphNode
	byState map[State]int
	errs    []error
}

// NewGraphBuilder returns an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{byState: make(map[State]int)}
}

// AddNode adds a node and returns its index.
func (b *GraphBuilder) AddNode(state State, c Controller) int {
	if _, dup := b.byState[state]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateState, state))
	} else {
		b.byState[state] = len(b.nodes)
	}
	b.nodes = append(b.nodes, GraphNode{Controller: c, State: state})
	return len(b.nodes) - 1
}

// Node returns the index of the node tagged state.
func (b *GraphBuilder) Node(state State) (int, bool) {
	i, ok := b.byState[state]
	return i, ok
}

// Connect adds an edge between two node indices.
func (b *GraphBuilder) Connect(from, to int, opts ...EdgeOption) *GraphBuilder {
	if from < 0 || from >= len(b.nodes) || to < 0 || to >= len(b.nodes) {
		b.errs = append(b.errs, fmt.Errorf("%w: edge %d -> %d", ErrUnknownNode, from, to))
		return b
	}
	e := GraphEdge{To: to}
	for _, opt := range opts {
		opt(&e)
	}
	b.nodes[from].Edges = append(b.nodes[from].Edges, e)
	return b
}

// ConnectStates adds an edge between two states.
func (b *GraphBuilder) ConnectStates(from, to State, opts ...EdgeOption) *GraphBuilder {
	fi, ok := b.byState[from]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrUnknownState, from))
		return b
	}
	ti, ok := b.byState[to]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrUnknownState, to))
		return b
	}
	return b.Connect(fi, ti, opts...)
}

// Build creates the graph. All wiring errors are joined into one.
func (b *GraphBuilder) Build(initial State, opts ...GraphOption) (*TransitionGraph, error) {
	errs := b.errs
	if _, ok := b.byState[initial]; !ok {
		errs = append(errs, fmt.Errorf("%w: initial %q", ErrUnknownState, initial))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewTransitionGraph(b.nodes, initial, opts...), nil
}
