package engine

import (
	"fmt"

	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
)

// Castle moves king and rook simultaneously along a configured
// castling rule. Both target squares are measured up front; the
// combined interior path (king's and rook's, minus the target squares
// themselves and minus classically empty squares) then decides between
// an unconditional move and a path-conditioned one that entangles king
// and rook with the blockers.
func (e *Engine) Castle(kingSource, rookSource, kingTarget, rookTarget geometry.Point) error {
	for _, p := range []geometry.Point{kingSource, rookSource, kingTarget, rookTarget} {
		if !e.Board.InBounds(p) {
			return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
		}
	}
	if !e.Board.IsOccupied(kingSource) {
		return fmt.Errorf("%w: %v", ErrEmptySource, kingSource)
	}
	if !e.Board.IsOccupied(rookSource) {
		return fmt.Errorf("%w: %v", ErrEmptySource, rookSource)
	}

	if err := e.collapse(e.Board.Get(kingTarget).QFlag); err != nil {
		return err
	}
	if err := e.collapse(e.Board.Get(rookTarget).QFlag); err != nil {
		return err
	}
	if e.Board.IsOccupied(kingTarget) || e.Board.IsOccupied(rookTarget) {
		return nil
	}

	path := e.castlePath(kingSource, rookSource, kingTarget, rookTarget)

	king := e.Board.Get(kingSource)
	rook := e.Board.Get(rookSource)

	if err := e.backendErr(e.performCastle(kingSource, rookSource, kingTarget, rookTarget, path)); err != nil {
		return err
	}

	if len(path) == 0 {
		e.Board.Set(kingSource, piece.NullPiece)
		e.Board.Set(rookSource, piece.NullPiece)
		e.Board.Set(kingTarget, king)
		e.Board.Set(rookTarget, rook)
		return nil
	}

	// Blocked branches keep both pieces at their sources: ghosts stay,
	// and everyone involved becomes correlated.
	e.tracker.Entangle(king.QFlag, rook.QFlag)
	for _, p := range path {
		e.tracker.Entangle(e.Board.Get(kingSource).QFlag, e.Board.Get(p).QFlag)
	}

	king = e.Board.Get(kingSource)
	king.Collapsed = false
	rook = e.Board.Get(rookSource)
	rook.Collapsed = false

	e.Board.Set(kingSource, king)
	e.Board.Set(rookSource, rook)
	e.Board.Set(kingTarget, king)
	e.Board.Set(rookTarget, rook)
	return nil
}

// castlePath returns the squares that must be empty for the castle to
// go through: the union of both interior paths, without the castle's
// own target squares, filtered to classically occupied squares.
func (e *Engine) castlePath(kingSource, rookSource, kingTarget, rookTarget geometry.Point) []geometry.Point {
	seen := make(map[geometry.Point]bool)
	var path []geometry.Point

	add := func(points []geometry.Point) {
		for _, p := range points {
			if seen[p] || p.Equals(kingTarget) || p.Equals(rookTarget) {
				continue
			}
			seen[p] = true
			if e.Board.IsOccupied(p) {
				path = append(path, p)
			}
		}
	}
	add(geometry.Path(kingSource, kingTarget))
	add(geometry.Path(rookSource, rookTarget))
	return path
}
