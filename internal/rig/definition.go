// Package rig loads character rigs from YAML: a skeleton, placeholder or
// keyframed clips, named controllers, a transition graph and an optional
// input script for the simulator.
package rig

// Definition is the decoded rig file.
type Definition struct {
	Name     string      `yaml:"name"`
	Skeleton SkeletonDef `yaml:"skeleton"`
	Clips    []ClipDef   `yaml:"clips"`

	// Controllers maps a name to a raw controller description. The shape
	// depends on its "type" key and is decoded in a second pass.
	Controllers map[string]map[string]any `yaml:"controllers"`

	Graph *GraphDef `yaml:"graph"`

	// Root names the controller used when there is no graph.
	Root string `yaml:"root"`

	Ground *GroundDef `yaml:"ground"`

	Script []EventDef `yaml:"script"`
}

// SkeletonDef lists joints parent-first.
type SkeletonDef struct {
	Joints []JointDef `yaml:"joints"`
}

// JointDef is one joint of the rest pose. Rotation is XYZ Euler degrees.
type JointDef struct {
	Name        string     `yaml:"name"`
	Parent      string     `yaml:"parent"`
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    [3]float32 `yaml:"rotation,flow"`
}

// ClipDef describes a clip. Without tracks it is a static placeholder that
// leaves the rest pose in place.
type ClipDef struct {
	Name     string              `yaml:"name"`
	Duration float32             `yaml:"duration"`
	Tracks   map[string]TrackDef `yaml:"tracks"`
}

// TrackDef holds the keys of one joint, addressed by joint name.
type TrackDef struct {
	Translations []KeyDef `yaml:"translations"`
	Rotations    []KeyDef `yaml:"rotations"` // XYZ Euler degrees
	Scales       []KeyDef `yaml:"scales"`
}

// KeyDef is a keyframe; Time is in seconds.
type KeyDef struct {
	Time  float32    `yaml:"time"`
	Value [3]float32 `yaml:"value,flow"`
}

// GraphDef describes a transition graph.
type GraphDef struct {
	Initial    string             `yaml:"initial"`
	Crossfade  string             `yaml:"crossfade"`
	Parameters map[string]float32 `yaml:"parameters"`
	Nodes      []NodeDef          `yaml:"nodes"`
	Edges      []EdgeDef          `yaml:"edges"`
}

// NodeDef binds a state to a named controller.
type NodeDef struct {
	State      string `yaml:"state"`
	Controller string `yaml:"controller"`
}

// EdgeDef describes a transition between two states.
type EdgeDef struct {
	From          string    `yaml:"from"`
	To            string    `yaml:"to"`
	Trigger       string    `yaml:"trigger"`
	Duration      *float32  `yaml:"duration"`
	StartProgress float32   `yaml:"start_progress"`
	Easing        string    `yaml:"easing"`
	Bezier        []float32 `yaml:"bezier,flow"`
	Transition    string    `yaml:"transition"`
	Crossfade     string    `yaml:"crossfade"`
	When          *GuardDef `yaml:"when"`
}

// GuardDef is a guard expression tree. Exactly one of the comparison
// (Param/Op/Value), All, Any or Not forms is used.
type GuardDef struct {
	Param string  `yaml:"param"`
	Op    string  `yaml:"op"`
	Value float32 `yaml:"value"`

	All []GuardDef `yaml:"all"`
	Any []GuardDef `yaml:"any"`
	Not *GuardDef  `yaml:"not"`
}

// GroundDef is a walkability grid. Cells are addressed as [x, z].
type GroundDef struct {
	Width    int         `yaml:"width"`
	Depth    int         `yaml:"depth"`
	CellSize float32     `yaml:"cell_size"`
	Origin   [2]float32  `yaml:"origin,flow"`
	Blocked  [][2]int    `yaml:"blocked,flow"`
	Heights  []HeightDef `yaml:"heights"`
}

// HeightDef raises one cell.
type HeightDef struct {
	Cell   [2]int  `yaml:"cell,flow"`
	Height float32 `yaml:"height"`
}

// EventDef is a scripted input change applied at time At (seconds).
// Destination is an offset from the character's position when the event fires.
type EventDef struct {
	At          float32            `yaml:"at"`
	Speed       *float32           `yaml:"speed"`
	Jumping     *bool              `yaml:"jumping"`
	Goal        string             `yaml:"goal"`
	Blend       []float32          `yaml:"blend,flow"`
	Destination []float32          `yaml:"destination,flow"`
	Params      map[string]float32 `yaml:"params"`
}

// singleSpec, blend1DSpec and blend2DSpec are the typed controller shapes.
type singleSpec struct {
	Type string `mapstructure:"type"`
	Clip string `mapstructure:"clip"`
}

type node1DSpec struct {
	Clip  string  `mapstructure:"clip"`
	Param float32 `mapstructure:"param"`
}

type blend1DSpec struct {
	Type  string       `mapstructure:"type"`
	Nodes []node1DSpec `mapstructure:"nodes"`
}

type node2DSpec struct {
	Clip string  `mapstructure:"clip"`
	X    float32 `mapstructure:"x"`
	Y    float32 `mapstructure:"y"`
}

type blend2DSpec struct {
	Type  string       `mapstructure:"type"`
	Nodes []node2DSpec `mapstructure:"nodes"`
}
