package debug

import (
	"os"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/pkg/clip"
	"github.com/Faultbox/skelanim/pkg/pose"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []animation.GraphNodeInfo
		overlay  *GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Current Node Shape",
			nodes: []animation.GraphNodeInfo{
				{State: animation.StateIdle, Current: true},
				{State: animation.StateRun},
			},
			contains: []string{
				"idle((\"idle\"))",
				"run[\"run\"]",
			},
		},
		{
			name: "Automatic Edge",
			nodes: []animation.GraphNodeInfo{
				{State: animation.StateJumpLeft, Edges: []animation.GraphEdgeInfo{
					{To: animation.StateIdle, Duration: 0.2, StartProgress: 0.8, Trigger: animation.TriggerAutomatic, Crossfade: animation.CrossfadeDirect},
				}},
			},
			contains: []string{
				"jump_left{{\"jump_left\"}}",
				"jump_left -. \"0.2s direct @0.8\" .-> idle",
			},
		},
		{
			name: "Explicit Guarded Edge",
			nodes: []animation.GraphNodeInfo{
				{State: animation.StateIdle, Edges: []animation.GraphEdgeInfo{
					{To: animation.StateMovement, Duration: 0.4, Crossfade: animation.CrossfadeTriangular, HasGuard: true, HasEasing: true},
				}},
			},
			contains: []string{
				"idle -- \"0.4s triangular guarded eased\" --> movement",
			},
		},
		{
			name:  "ID Sanitization",
			nodes: []animation.GraphNodeInfo{{State: "air/falling-fast"}},
			contains: []string{
				"air_falling_fast[\"air/falling-fast\"]",
			},
		},
		{
			name:  "Overlay",
			nodes: []animation.GraphNodeInfo{{State: animation.StateIdle}, {State: animation.StateMovement}},
			overlay: &GraphOverlay{
				VisitedStates: []animation.State{animation.StateIdle, animation.StateIdle},
				CurrentState:  animation.StateMovement,
			},
			contains: []string{
				"classDef visited",
				"class idle visited;",
				"class movement current;",
			},
		},
		{
			name:     "No Overlay",
			nodes:    []animation.GraphNodeInfo{{State: animation.StateIdle}},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateMermaid(tt.nodes, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("unexpected %q in:\n%s", bad, got)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class idle visited;") != 1 {
				t.Errorf("visited states should be deduplicated:\n%s", got)
			}
		})
	}
}

func TestGenerateMermaidFromGraph(t *testing.T) {
	nodes := []animation.GraphNode{
		{Controller: animation.NewSingleClip(nil), State: animation.StateIdle, Edges: []animation.GraphEdge{{To: 1, Duration: 0.25}}},
		{Controller: animation.NewSingleClip(nil), State: animation.StateMovement},
	}
	g := animation.NewTransitionGraph(nodes, animation.StateIdle)

	got := GenerateMermaid(g.Describe(), nil)
	want := "idle -- \"0.25s direct\" --> movement"
	if !strings.Contains(got, want) {
		t.Errorf("expected %q in:\n%s", want, got)
	}
}

func chain() (*pose.Skeleton, []mgl32.Mat4) {
	up := pose.Identity()
	up.Translation = mgl32.Vec3{0, 1, 0}
	s := &pose.Skeleton{
		Names:   []string{"root", "spine", "head"},
		Parents: []int{-1, 0, 1},
		Rest:    pose.LocalPose{pose.Identity(), up, up},
	}
	return s, pose.ForwardKinematics(s, s.Rest, mgl32.Translate3D(1, 0, 0), nil)
}

func TestSkeletonLineVertices(t *testing.T) {
	s, world := chain()
	got := SkeletonLineVertices(s, world)
	want := []float32{1, 0, 0, 1, 1, 0, 1, 1, 0, 1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("vertex[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestJointBounds(t *testing.T) {
	_, world := chain()
	bbox, ok := JointBounds(world)
	if !ok {
		t.Fatal("expected bounds")
	}
	want := [6]float32{1, 0, 0, 1, 2, 0}
	for i := range want {
		if diff := bbox[i] - want[i]; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("bbox[%d] = %v, want %v", i, bbox[i], want[i])
		}
	}

	if _, ok := JointBounds(nil); ok {
		t.Error("empty world should have no bounds")
	}
}

func TestBoxWireframe(t *testing.T) {
	verts := BoxWireframe([6]float32{0, 0, 0, 1, 2, 3}, 0.5)
	if len(verts) != BoxWireframeVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(verts), BoxWireframeVertexCount*3)
	}

	// Every edge runs along exactly one axis between padded extremes.
	lo := [3]float32{-0.5, -0.5, -0.5}
	hi := [3]float32{1.5, 2.5, 3.5}
	axes := [3]int{}
	for e := 0; e < len(verts); e += 6 {
		moved := -1
		for axis := 0; axis < 3; axis++ {
			a, b := verts[e+axis], verts[e+3+axis]
			if a != lo[axis] && a != hi[axis] {
				t.Fatalf("edge %d: coordinate %v is not a box extreme", e/6, a)
			}
			if a != b {
				if moved >= 0 {
					t.Fatalf("edge %d is diagonal", e/6)
				}
				moved = axis
			}
		}
		if moved < 0 {
			t.Fatalf("edge %d is degenerate", e/6)
		}
		axes[moved]++
	}
	if axes != [3]int{4, 4, 4} {
		t.Errorf("edges per axis = %v, want 4 each", axes)
	}
}

func TestFrameDumper(t *testing.T) {
	dir := t.TempDir()
	d := NewFrameDumper(dir, "frames")

	s, world := chain()
	samples := []animation.WeightedSample{{Clip: clip.NewStatic("walk", 1, 3), Weight: 0.75, Time: 0.5}}
	d.Record(NewFrameRecord(7, "hero", s, animation.StateMovement, 0.5, samples, world))
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}

	path, err := d.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("unexpected path %q", path)
	}
	if d.Len() != 0 {
		t.Errorf("Flush should clear frames")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	var frames []FrameRecord
	if err := yaml.Unmarshal(data, &frames); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	f := frames[0]
	if f.Frame != 7 || f.Character != "hero" || f.State != "movement" {
		t.Errorf("frame header = %+v", f)
	}
	if len(f.Samples) != 1 || f.Samples[0].Clip != "walk" || f.Samples[0].Weight != 0.75 {
		t.Errorf("samples = %+v", f.Samples)
	}
	if len(f.Joints) != 3 || f.Joints[2][1] != 2 {
		t.Errorf("joints = %v", f.Joints)
	}
	if len(f.Bones) != 12 {
		t.Errorf("bones = %v, want two bone lines", f.Bones)
	}
	if len(f.Box) != BoxWireframeVertexCount*3 || f.Box[0]-(1-BoxPadding) > 1e-5 || f.Box[0]-(1-BoxPadding) < -1e-5 {
		t.Errorf("box = %v", f.Box)
	}
}
