package nav

import (
	"container/heap"
	"errors"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNoPath  = errors.New("nav: no path")
	ErrOffMesh = errors.New("nav: position is off the mesh")
)

// PathStatus describes the last computed path.
type PathStatus int

const (
	PathComplete PathStatus = iota
	PathPartial
	PathInvalid
)

func (s PathStatus) String() string {
	switch s {
	case PathComplete:
		return "complete"
	case PathPartial:
		return "partial"
	case PathInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

const (
	defaultCellSize = 0.5
	// defaultSurfaceTolerance is how far above or below the surface a point
	// may be and still count as on the mesh.
	defaultSurfaceTolerance = 0.6
)

// Mesh is a walkability grid laid over the XZ plane. Each walkable cell
// carries the height of the surface it was built from.
type Mesh struct {
	minX, minZ float32
	cellSize   float32
	cols, rows int

	walkable []bool
	blocked  []bool
	height   []float32

	tolerance float32
	version   uint64
}

// NewMesh creates an empty mesh covering [minX,maxX]x[minZ,maxZ].
func NewMesh(minX, minZ, maxX, maxZ, cellSize float32) *Mesh {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	cols := int(math32.Ceil((maxX - minX) / cellSize))
	rows := int(math32.Ceil((maxZ - minZ) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Mesh{
		minX:      minX,
		minZ:      minZ,
		cellSize:  cellSize,
		cols:      cols,
		rows:      rows,
		walkable:  make([]bool, cols*rows),
		blocked:   make([]bool, cols*rows),
		height:    make([]float32, cols*rows),
		tolerance: defaultSurfaceTolerance,
	}
}

func (m *Mesh) CellSize() float32 { return m.cellSize }
func (m *Mesh) Cols() int          { return m.cols }
func (m *Mesh) Rows() int          { return m.rows }

// Version increments whenever the walkable area changes. Paths built against
// an older version are stale.
func (m *Mesh) Version() uint64 { return m.version }

// SetSurfaceTolerance sets the vertical slack used by OnMesh.
func (m *Mesh) SetSurfaceTolerance(t float32) {
	if t > 0 {
		m.tolerance = t
	}
}

// AddSurface marks every cell whose centre lies over the box top as walkable.
func (m *Mesh) AddSurface(box cube.BBox) {
	top := box.Max().Y()
	m.eachCell(box, 0, func(idx int) {
		if !m.walkable[idx] || top > m.height[idx] {
			m.height[idx] = top
		}
		m.walkable[idx] = true
	})
	m.version++
}

// RemoveSurface clears the cells under box.
func (m *Mesh) RemoveSurface(box cube.BBox) {
	m.eachCell(box, 0, func(idx int) {
		m.walkable[idx] = false
		m.height[idx] = 0
	})
	m.version++
}

// Carve blocks the cells under box, grown by padding on X and Z.
func (m *Mesh) Carve(box cube.BBox, padding float32) {
	m.eachCell(box, padding, func(idx int) {
		m.blocked[idx] = true
	})
	m.version++
}

func (m *Mesh) eachCell(box cube.BBox, padding float32, fn func(idx int)) {
	lo, hi := box.Min(), box.Max()
	c0, r0 := m.cellOf(lo.X()-padding, lo.Z()-padding)
	c1, r1 := m.cellOf(hi.X()+padding, hi.Z()+padding)
	for r := max(r0, 0); r <= min(r1, m.rows-1); r++ {
		for c := max(c0, 0); c <= min(c1, m.cols-1); c++ {
			cx, cz := m.cellCenter(c, r)
			if cx < lo.X()-padding || cx > hi.X()+padding || cz < lo.Z()-padding || cz > hi.Z()+padding {
				continue
			}
			fn(r*m.cols + c)
		}
	}
}

func (m *Mesh) cellOf(x, z float32) (int, int) {
	return int(math32.Floor((x - m.minX) / m.cellSize)), int(math32.Floor((z - m.minZ) / m.cellSize))
}

func (m *Mesh) cellCenter(c, r int) (float32, float32) {
	return m.minX + (float32(c)+0.5)*m.cellSize, m.minZ + (float32(r)+0.5)*m.cellSize
}

func (m *Mesh) inBounds(c, r int) bool {
	return c >= 0 && r >= 0 && c < m.cols && r < m.rows
}

// Walkable reports whether a cell can be stood on.
func (m *Mesh) Walkable(c, r int) bool {
	if !m.inBounds(c, r) {
		return false
	}
	idx := r*m.cols + c
	return m.walkable[idx] && !m.blocked[idx]
}

// SurfaceHeight returns the surface height below p.
func (m *Mesh) SurfaceHeight(p mgl32.Vec3) (float32, bool) {
	c, r := m.cellOf(p.X(), p.Z())
	if !m.Walkable(c, r) {
		return 0, false
	}
	return m.height[r*m.cols+c], true
}

// OnMesh reports whether p stands on a walkable cell.
func (m *Mesh) OnMesh(p mgl32.Vec3) bool {
	h, ok := m.SurfaceHeight(p)
	return ok && math32.Abs(p.Y()-h) <= m.tolerance
}

const sampleInset = 1e-3

// Sample finds the closest point on the walkable surface within radius of p.
func (m *Mesh) Sample(p mgl32.Vec3, radius float32) (mgl32.Vec3, bool) {
	if radius < 0 {
		return mgl32.Vec3{}, false
	}
	c0, r0 := m.cellOf(p.X()-radius, p.Z()-radius)
	c1, r1 := m.cellOf(p.X()+radius, p.Z()+radius)

	var best mgl32.Vec3
	bestDist := radius * radius
	found := false
	// stay strictly inside the cell so cellOf maps the result back to it
	half := m.cellSize * (0.5 - sampleInset)
	for r := max(r0, 0); r <= min(r1, m.rows-1); r++ {
		for c := max(c0, 0); c <= min(c1, m.cols-1); c++ {
			if !m.Walkable(c, r) {
				continue
			}
			cx, cz := m.cellCenter(c, r)
			q := mgl32.Vec3{
				mgl32.Clamp(p.X(), cx-half, cx+half),
				m.height[r*m.cols+c],
				mgl32.Clamp(p.Z(), cz-half, cz+half),
			}
			d := q.Sub(p)
			if dist := d.Dot(d); dist <= bestDist {
				best, bestDist, found = q, dist, true
			}
		}
	}
	return best, found
}

type gridPos struct {
	x int
	y int
}

// FindPath runs A* between the cells under from and to. When the goal cell
// cannot be reached the path ends at the reachable cell closest to it and the
// status is PathPartial.
func (m *Mesh) FindPath(from, to mgl32.Vec3) ([]mgl32.Vec3, PathStatus, error) {
	sc, sr := m.cellOf(from.X(), from.Z())
	if !m.Walkable(sc, sr) {
		return nil, PathInvalid, ErrOffMesh
	}
	gc, gr := m.cellOf(to.X(), to.Z())
	gc = min(max(gc, 0), m.cols-1)
	gr = min(max(gr, 0), m.rows-1)

	start := gridPos{x: sc, y: sr}
	goal := gridPos{x: gc, y: gr}
	cells, reached := m.astar(start, goal)
	if len(cells) == 0 {
		return nil, PathInvalid, ErrNoPath
	}

	path := make([]mgl32.Vec3, 0, len(cells))
	for _, p := range cells[1:] {
		cx, cz := m.cellCenter(p.x, p.y)
		path = append(path, mgl32.Vec3{cx, m.height[p.y*m.cols+p.x], cz})
	}
	if !reached {
		return path, PathPartial, nil
	}
	// finish at the exact requested point rather than the cell centre
	end := mgl32.Vec3{to.X(), m.height[gr*m.cols+gc], to.Z()}
	if len(path) == 0 {
		path = append(path, end)
	} else {
		path[len(path)-1] = end
	}
	return path, PathComplete, nil
}

func (m *Mesh) astar(start, goal gridPos) ([]gridPos, bool) {
	n := m.cols * m.rows
	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, n)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float32, n)
	for i := range gScore {
		gScore[i] = math32.Inf(1)
	}
	startIdx := start.y*m.cols + start.x
	goalIdx := goal.y*m.cols + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal)})

	closest := startIdx
	closestH := heuristic(start, goal)

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*m.cols + cur.x
		if current.g > gScore[curIdx] {
			continue
		}
		if curIdx == goalIdx {
			return reconstructPath(cameFrom, m.cols, startIdx, goalIdx), true
		}
		if h := heuristic(cur, goal); h < closestH {
			closest, closestH = curIdx, h
		}

		for _, nb := range m.neighbors(cur) {
			idx := nb.y*m.cols + nb.x
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: nb, f: tentativeG + heuristic(nb, goal), g: tentativeG})
			}
		}
	}

	return reconstructPath(cameFrom, m.cols, startIdx, closest), false
}

func (m *Mesh) neighbors(p gridPos) []gridPos {
	out := make([]gridPos, 0, 4)
	for _, d := range [4]gridPos{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nb := gridPos{x: p.x + d.x, y: p.y + d.y}
		if m.Walkable(nb.x, nb.y) {
			out = append(out, nb)
		}
	}
	return out
}

func reconstructPath(cameFrom []int, cols int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % cols, y: startIdx / cols}}
	}
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	cur := goalIdx
	for cur != -1 {
		path = append(path, gridPos{x: cur % cols, y: cur / cols})
		if cur == startIdx {
			break
		}
		cur = cameFrom[cur]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(a, b gridPos) float32 {
	return math32.Abs(float32(a.x-b.x)) + math32.Abs(float32(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float32
	g     float32
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
