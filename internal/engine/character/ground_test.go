package character

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// gridWith creates a width x depth grid with unit cells and blocked cells.
func gridWith(width, depth int, blocked [][2]int) *Grid {
	g := NewGrid(width, depth, 1)
	for _, b := range blocked {
		g.Block(b[0], b[1])
	}
	return g
}

func TestFindCellPathSimple(t *testing.T) {
	g := gridWith(5, 5, nil)

	path := g.FindCellPath(0, 0, 4, 4)
	if path == nil {
		t.Fatal("expected path, got nil")
	}
	if path[0] != [2]int{0, 0} {
		t.Errorf("path should start at (0,0), got %v", path[0])
	}
	if last := path[len(path)-1]; last != [2]int{4, 4} {
		t.Errorf("path should end at (4,4), got %v", last)
	}
	// Straight diagonal on an open grid.
	if len(path) != 5 {
		t.Errorf("expected 5 cells, got %d", len(path))
	}
}

func TestFindCellPathAroundWall(t *testing.T) {
	g := gridWith(5, 5, [][2]int{{2, 0}, {2, 1}, {2, 2}, {2, 3}})

	path := g.FindCellPath(0, 2, 4, 2)
	if path == nil {
		t.Fatal("expected path around obstacle, got nil")
	}
	for _, p := range path {
		if p[0] == 2 && p[1] < 4 {
			t.Errorf("path went through blocked cell at %v", p)
		}
	}
}

func TestFindCellPathNoPath(t *testing.T) {
	g := gridWith(5, 5, [][2]int{{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}})

	if path := g.FindCellPath(0, 2, 4, 2); path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestFindCellPathEdgeCases(t *testing.T) {
	tests := []struct {
		name                         string
		blocked                      [][2]int
		startX, startZ, goalX, goalZ int
		wantLen                      int
	}{
		{"same start and goal", nil, 2, 2, 2, 2, 1},
		{"start out of bounds", nil, -1, 0, 4, 4, 0},
		{"goal out of bounds", nil, 0, 0, 10, 10, 0},
		{"blocked goal", [][2]int{{4, 4}}, 0, 0, 4, 4, 0},
		{"no corner cutting", [][2]int{{1, 0}, {0, 1}}, 0, 0, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridWith(5, 5, tt.blocked)
			path := g.FindCellPath(tt.startX, tt.startZ, tt.goalX, tt.goalZ)
			if len(path) != tt.wantLen {
				t.Errorf("expected path length %d, got %v", tt.wantLen, path)
			}
		})
	}
}

func TestGridGround(t *testing.T) {
	g := NewGrid(4, 4, 0.5)
	g.Origin = mgl32.Vec2{-1, -1}
	g.Block(0, 0)
	g.SetHeight(3, 3, 0.25)

	if x, z := g.Cell(-1, -1); x != 0 || z != 0 {
		t.Errorf("expected cell (0,0), got (%d,%d)", x, z)
	}
	if x, z := g.Cell(-1.1, 0); x != -1 || z != 2 {
		t.Errorf("expected cell (-1,2), got (%d,%d)", x, z)
	}
	if g.IsWalkable(-0.9, -0.9) {
		t.Error("expected blocked cell to be unwalkable")
	}
	if g.IsWalkable(5, 5) {
		t.Error("expected outside to be unwalkable")
	}
	if !g.IsWalkable(0.1, 0.1) {
		t.Error("expected open cell to be walkable")
	}
	if h := g.HeightAt(0.75, 0.75); h != 0.25 {
		t.Errorf("expected height 0.25, got %f", h)
	}
	if h := g.HeightAt(9, 9); h != 0 {
		t.Errorf("expected height 0 outside, got %f", h)
	}
}

func TestGridFindPathEndsAtGoal(t *testing.T) {
	g := gridWith(6, 6, [][2]int{{3, 1}, {3, 2}, {3, 3}, {3, 4}, {3, 5}})

	path := g.FindPath(0.5, 3.5, 5.2, 3.7)
	if len(path) == 0 {
		t.Fatal("expected waypoints")
	}
	if last := path[len(path)-1]; last != (mgl32.Vec2{5.2, 3.7}) {
		t.Errorf("expected last waypoint at goal, got %v", last)
	}
	for _, p := range path {
		if !g.IsWalkable(p.X(), p.Y()) {
			t.Errorf("waypoint %v is not walkable", p)
		}
	}

	if path := g.FindPath(0.5, 0.5, 0.7, 0.7); len(path) != 1 {
		t.Errorf("expected a single waypoint inside one cell, got %v", path)
	}
}

func TestLocomotionNavigatesAroundWall(t *testing.T) {
	g := gridWith(6, 6, [][2]int{{3, 1}, {3, 2}, {3, 3}, {3, 4}, {3, 5}})
	l := NewLocomotion(mgl32.Vec3{0.5, 0, 3.5}, g)

	if !l.NavigateTo(5.5, 3.5) {
		t.Fatal("expected goal to be reachable")
	}
	for i := 0; i < 1000 && l.HasDestination(); i++ {
		l.Step(0.05)
		if !g.IsWalkable(l.Position.X(), l.Position.Z()) {
			t.Fatalf("walked into blocked cell at %v", l.Position)
		}
	}
	if l.HasDestination() {
		t.Fatal("expected to arrive")
	}
	if d := l.Position.Sub(mgl32.Vec3{5.5, 0, 3.5}).Len(); d > ArrivalThreshold {
		t.Errorf("ended %f away from goal", d)
	}

	g.Block(5, 0)
	if l.NavigateTo(5.5, 0.5) {
		t.Error("expected blocked goal to be unreachable")
	}
	if l.HasDestination() {
		t.Error("unreachable goal should stop the character")
	}
}
