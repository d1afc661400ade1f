package engine

import "fmt"

// geometry holds, for every cell and direction, the number of cells a robot
// can travel before hitting a static obstacle. Robot occupancy is never
// stored here.
type geometry struct {
	width  int
	height int
	dist   [4][]int
}

func newGeometry(width, height int) *geometry {
	g := &geometry{width: width, height: height}
	size := width * height
	for i := range g.dist {
		g.dist[i] = make([]int, size)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			g.dist[North.index()][idx] = y
			g.dist[South.index()][idx] = height - 1 - y
			g.dist[East.index()][idx] = width - 1 - x
			g.dist[West.index()][idx] = x
		}
	}
	return g
}

func (g *geometry) valid(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *geometry) index(p Position) int {
	return p.Y*g.width + p.X
}

func (g *geometry) distance(p Position, d Direction) int {
	return g.dist[d.index()][g.index(p)]
}

// insertSemiWall places a wall on the d side of pos. Every cell that has to
// pass through pos to reach the wall gets its distance clamped. Propagation
// stops at the first cell that is already at least as constrained. With
// ownCell set, pos itself keeps its distance so a robot can still land on it.
func (g *geometry) insertSemiWall(pos Position, d Direction, ownCell bool) error {
	if !g.valid(pos) {
		return fmt.Errorf("%w: semi-wall at %s", ErrOutOfBounds, pos)
	}
	if !d.Valid() {
		return fmt.Errorf("semi-wall at %s: invalid direction %d", pos, d)
	}

	table := g.dist[d.index()]
	back := d.Opposite()
	for k := 0; ; k++ {
		cell := pos.Step(back, k)
		if !g.valid(cell) {
			break
		}
		if k == 0 && ownCell {
			continue
		}
		idx := g.index(cell)
		if table[idx] <= k {
			break
		}
		table[idx] = k
	}
	return nil
}

// insertWall places a full wall between pos and its neighbour in d. One side
// may be off the board.
func (g *geometry) insertWall(pos Position, d Direction) error {
	errNear := g.insertSemiWall(pos, d, false)
	errFar := g.insertSemiWall(pos.Step(d, 1), d.Opposite(), false)
	if errNear != nil && errFar != nil {
		return fmt.Errorf("wall %s of %s: %w", d, pos, errNear)
	}
	return nil
}
