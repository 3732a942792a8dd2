package character

import (
	"container/heap"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid is a walkability and height grid on the XZ plane, with cell (0,0)
// starting at Origin. It implements Ground and Pathfinder.
type Grid struct {
	Origin   mgl32.Vec2
	CellSize float32

	width, depth int
	blocked      []bool
	heights      []float32
}

var (
	_ Ground     = (*Grid)(nil)
	_ Pathfinder = (*Grid)(nil)
)

// NewGrid creates a fully walkable flat grid.
func NewGrid(width, depth int, cellSize float32) *Grid {
	if width < 1 {
		width = 1
	}
	if depth < 1 {
		depth = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		CellSize: cellSize,
		width:    width,
		depth:    depth,
		blocked:  make([]bool, width*depth),
		heights:  make([]float32, width*depth),
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, depth int) {
	return g.width, g.depth
}

// Block marks a cell as not walkable.
func (g *Grid) Block(x, z int) {
	if g.inBounds(x, z) {
		g.blocked[g.key(x, z)] = true
	}
}

// SetHeight sets the ground height of a cell.
func (g *Grid) SetHeight(x, z int, h float32) {
	if g.inBounds(x, z) {
		g.heights[g.key(x, z)] = h
	}
}

// Cell returns the cell containing a world position.
func (g *Grid) Cell(worldX, worldZ float32) (x, z int) {
	fx := (worldX - g.Origin.X()) / g.CellSize
	fz := (worldZ - g.Origin.Y()) / g.CellSize
	return int(gomath.Floor(float64(fx))), int(gomath.Floor(float64(fz)))
}

// CellCenter returns the world position of a cell's center.
func (g *Grid) CellCenter(x, z int) (worldX, worldZ float32) {
	return g.Origin.X() + (float32(x)+0.5)*g.CellSize,
		g.Origin.Y() + (float32(z)+0.5)*g.CellSize
}

// Walkable reports whether a cell is inside the grid and not blocked.
func (g *Grid) Walkable(x, z int) bool {
	return g.inBounds(x, z) && !g.blocked[g.key(x, z)]
}

// IsWalkable implements Ground.
func (g *Grid) IsWalkable(worldX, worldZ float32) bool {
	return g.Walkable(g.Cell(worldX, worldZ))
}

// HeightAt implements Ground. Positions outside the grid report 0.
func (g *Grid) HeightAt(worldX, worldZ float32) float32 {
	x, z := g.Cell(worldX, worldZ)
	if !g.inBounds(x, z) {
		return 0
	}
	return g.heights[g.key(x, z)]
}

// FindPath implements Pathfinder. The waypoints are cell centers after the
// start cell; the last one is replaced by the exact goal.
func (g *Grid) FindPath(fromX, fromZ, toX, toZ float32) []mgl32.Vec2 {
	sx, sz := g.Cell(fromX, fromZ)
	gx, gz := g.Cell(toX, toZ)
	cells := g.FindCellPath(sx, sz, gx, gz)
	if len(cells) == 0 {
		return nil
	}
	out := make([]mgl32.Vec2, 0, len(cells)-1)
	for _, c := range cells[1:] {
		wx, wz := g.CellCenter(c[0], c[1])
		out = append(out, mgl32.Vec2{wx, wz})
	}
	if len(out) == 0 {
		return []mgl32.Vec2{{toX, toZ}}
	}
	out[len(out)-1] = mgl32.Vec2{toX, toZ}
	return out
}

// pathNode is an A* search node.
type pathNode struct {
	x, z    int
	g, h, f float32
	parent  *pathNode
	index   int
}

type pathHeap []*pathNode

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pathHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// neighbours in 8-way order; odd indices are diagonal.
var neighbours = [8][2]int{
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
}

const (
	straightCost = float32(1)
	diagonalCost = float32(1.414)
)

// FindCellPath runs A* between two cells, start and goal included.
// It returns nil when either end is blocked or no path exists.
func (g *Grid) FindCellPath(startX, startZ, goalX, goalZ int) [][2]int {
	if !g.Walkable(startX, startZ) || !g.Walkable(goalX, goalZ) {
		return nil
	}

	open := &pathHeap{}
	closed := make(map[int]bool)
	nodes := make(map[int]*pathNode)

	start := &pathNode{x: startX, z: startZ, h: octile(startX, startZ, goalX, goalZ)}
	start.f = start.h
	heap.Push(open, start)
	nodes[g.key(startX, startZ)] = start

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.x == goalX && cur.z == goalZ {
			return reconstruct(cur)
		}
		closed[g.key(cur.x, cur.z)] = true

		for i, d := range neighbours {
			nx, nz := cur.x+d[0], cur.z+d[1]
			if !g.Walkable(nx, nz) || closed[g.key(nx, nz)] {
				continue
			}
			cost := straightCost
			if i%2 == 1 {
				// No corner cutting.
				if !g.Walkable(cur.x+d[0], cur.z) || !g.Walkable(cur.x, cur.z+d[1]) {
					continue
				}
				cost = diagonalCost
			}

			gScore := cur.g + cost
			n, seen := nodes[g.key(nx, nz)]
			if !seen {
				n = &pathNode{x: nx, z: nz, g: gScore, h: octile(nx, nz, goalX, goalZ), parent: cur}
				n.f = n.g + n.h
				nodes[g.key(nx, nz)] = n
				heap.Push(open, n)
			} else if gScore < n.g {
				n.g = gScore
				n.f = n.g + n.h
				n.parent = cur
				heap.Fix(open, n.index)
			}
		}
	}
	return nil
}

func (g *Grid) inBounds(x, z int) bool {
	return x >= 0 && x < g.width && z >= 0 && z < g.depth
}

func (g *Grid) key(x, z int) int {
	return z*g.width + x
}

// octile is the 8-way distance heuristic.
func octile(x1, z1, x2, z2 int) float32 {
	dx, dz := absInt(x2-x1), absInt(z2-z1)
	if dx < dz {
		return float32(dx)*diagonalCost + float32(dz-dx)
	}
	return float32(dz)*diagonalCost + float32(dx-dz)
}

func reconstruct(n *pathNode) [][2]int {
	var path [][2]int
	for ; n != nil; n = n.parent {
		path = append(path, [2]int{n.x, n.z})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
