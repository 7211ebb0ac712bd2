package board

import "fmt"

// Point identifies a single cell on the board. Points are plain values and
// are used as lookup keys everywhere in the interaction layer.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// Geometry describes the shape of a board.
type Geometry struct {
	Width, Height, MineCount int
}

func (g Geometry) Validate() error {
	if g.Width < 1 || g.Height < 1 {
		return fmt.Errorf("invalid board size %dx%d", g.Width, g.Height)
	}
	if g.MineCount < 1 || g.MineCount > g.Width*g.Height-1 {
		return fmt.Errorf("invalid mine count %d for a %dx%d board",
			g.MineCount, g.Width, g.Height)
	}
	return nil
}

func (g Geometry) CellCount() int {
	return g.Width * g.Height
}

func (g Geometry) Contains(p Point) bool {
	return 0 <= p.X && p.X < g.Width && 0 <= p.Y && p.Y < g.Height
}

// Index maps a point to its offset in row-major cell slices.
func (g Geometry) Index(p Point) int {
	return p.Y*g.Width + p.X
}

func (g Geometry) PointAt(i int) Point {
	return Point{X: i % g.Width, Y: i / g.Width}
}

// Neighbors returns the up to 8 cells directly adjacent to p, in row-major
// order.
func (g Geometry) Neighbors(p Point) []Point {
	ps := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Point{X: p.X + dx, Y: p.Y + dy}
			if g.Contains(n) {
				ps = append(ps, n)
			}
		}
	}
	return ps
}

// Points yields every cell of the board in row-major order.
func (g Geometry) Points() []Point {
	ps := make([]Point, 0, g.CellCount())
	for y := range g.Height {
		for x := range g.Width {
			ps = append(ps, Point{X: x, Y: y})
		}
	}
	return ps
}
