// Package geometry provides board coordinates and path enumeration
// shared by the piece/geometry layer and the move engine.
package geometry

import "fmt"

// Point is an integer board coordinate, (0,0) at the top-left.
type Point struct {
	X, Y int
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Neg() Point        { return Point{-p.X, -p.Y} }
func (p Point) Equals(o Point) bool { return p.X == o.X && p.Y == o.Y }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// sign returns -1, 0 or 1.
func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Path returns the strictly-interior squares between source and target
// along a row, column, or diagonal. Empty for any other delta,
// including the knight L-shape and source==target.
func Path(source, target Point) []Point {
	delta := target.Sub(source)
	if delta.X == 0 && delta.Y == 0 {
		return nil
	}

	isStraight := delta.X == 0 || delta.Y == 0
	isDiagonal := abs(delta.X) == abs(delta.Y)
	if !isStraight && !isDiagonal {
		return nil
	}

	stepX, stepY := sign(delta.X), sign(delta.Y)
	steps := abs(delta.X)
	if steps < abs(delta.Y) {
		steps = abs(delta.Y)
	}

	path := make([]Point, 0, steps-1)
	cur := source
	for i := 1; i < steps; i++ {
		cur = Point{cur.X + stepX, cur.Y + stepY}
		path = append(path, cur)
	}
	return path
}
