// Package board implements the classical possible-position map
// (spec.md §3's Board and invariant I1): a W×H grid of pieces, where
// a piece listed on a square means it might occupy that square in
// some branch of the quantum state.
package board

import (
	"fmt"

	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
)

// Board is the classical[W][H] grid from spec.md §3. Linear index
// idx(x,y) = W*y + x.
type Board struct {
	W, H      int
	classical []piece.Piece
}

// New returns a board of the given size with every square holding
// NullPiece.
func New(w, h int) *Board {
	b := &Board{W: w, H: h, classical: make([]piece.Piece, w*h)}
	for i := range b.classical {
		b.classical[i] = piece.NullPiece
	}
	return b
}

// Idx converts (x,y) to a linear index.
func (b *Board) Idx(p geometry.Point) int { return b.W*p.Y + p.X }

// Pt converts a linear index back to a point.
func (b *Board) Pt(i int) geometry.Point { return geometry.Point{X: i % b.W, Y: i / b.W} }

// InBounds reports whether p lies within [0,W)×[0,H).
func (b *Board) InBounds(p geometry.Point) bool {
	return p.X >= 0 && p.X < b.W && p.Y >= 0 && p.Y < b.H
}

// Get returns the piece classically recorded at p. Panics if p is out
// of bounds — callers must check InBounds first (the move engine
// always does, per spec.md §4.4's precondition ordering).
func (b *Board) Get(p geometry.Point) piece.Piece {
	if !b.InBounds(p) {
		panic(fmt.Sprintf("board: point %v out of bounds for %dx%d board", p, b.W, b.H))
	}
	return b.classical[b.Idx(p)]
}

// Set overwrites the classical entry at p.
func (b *Board) Set(p geometry.Point, pc piece.Piece) {
	b.classical[b.Idx(p)] = pc
}

// IsOccupied reports whether p holds a non-null piece.
func (b *Board) IsOccupied(p geometry.Point) bool { return !b.Get(p).IsNull() }

// PathPieces returns the (point, piece) pairs of every occupied square
// strictly between source and target (used by entangle_path and the
// slide gadgets' path-clear ancilla computation).
func (b *Board) PathPieces(source, target geometry.Point) []PointPiece {
	path := geometry.Path(source, target)
	var out []PointPiece
	for _, p := range path {
		pc := b.Get(p)
		if !pc.IsNull() {
			out = append(out, PointPiece{Point: p, Piece: pc})
		}
	}
	return out
}

// PathPoints returns every square on the interior path (occupied or
// not) — the gadgets map these to qubits to flip/unflip them around
// the controlled-slide gadgets.
func (b *Board) PathPoints(source, target geometry.Point) []geometry.Point {
	return geometry.Path(source, target)
}

// PointPiece pairs a square with the piece classically recorded there.
type PointPiece struct {
	Point geometry.Point
	Piece piece.Piece
}

// IsPathEmpty reports whether every interior square between source and
// target is classically unoccupied.
func (b *Board) IsPathEmpty(source, target geometry.Point) bool {
	return len(b.PathPieces(source, target)) == 0
}
