package engine

import (
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
)

// standardPawnMove dispatches an already-validated pawn move on its
// move type. Pawn captures are the only moves that must collapse the
// target up front: a pawn cannot be on the diagonal unless it is
// capturing.
//
// The default outcome republishes whatever the board holds after the
// forced measurements, so a branch in which the move failed to
// materialise leaves the measurement results intact.
func (e *Engine) standardPawnMove(source, target geometry.Point, mt piece.MoveType, epVictim *geometry.Point) error {
	pawn := e.Board.Get(source)
	pawn.HasMoved = true

	newSource := pawn
	newTarget := e.Board.Get(target)

	switch mt {
	case piece.SingleStep, piece.DoubleStep:
		if err := e.collapse(e.Board.Get(target).QFlag); err != nil {
			return err
		}
		newSource, newTarget = e.Board.Get(source), e.Board.Get(target)

		if !newSource.IsNull() && newTarget.IsNull() {
			pawn = newSource
			pawn.HasMoved = true

			if mt == piece.SingleStep {
				if err := e.backendErr(e.performStandardJump(source, target)); err != nil {
					return err
				}
				newSource = piece.NullPiece
			} else {
				if e.tracker.EntanglePath(pawn.QFlag, source, target) {
					pawn = e.Board.Get(source)
					pawn.HasMoved = true
					pawn.Collapsed = false
					newSource = pawn
				} else {
					newSource = piece.NullPiece
				}
				if err := e.backendErr(e.performStandardSlide(source, target)); err != nil {
					return err
				}
			}
			newTarget = pawn
		}

	case piece.Capture:
		if err := e.collapse(pawn.QFlag | e.Board.Get(target).QFlag); err != nil {
			return err
		}
		newSource, newTarget = e.Board.Get(source), e.Board.Get(target)

		if !newSource.IsNull() && !newTarget.IsNull() {
			pawn = newSource
			pawn.HasMoved = true
			if err := e.backendErr(e.performCaptureJump(source, target)); err != nil {
				return err
			}
			newSource = piece.NullPiece
			newTarget = pawn
		}

	case piece.EnPassant:
		return e.enPassant(source, target, *epVictim)
	}

	if !newSource.IsNull() && newSource.Type == piece.TypePawn {
		newSource.HasMoved = true
	}
	e.Board.Set(source, newSource)
	e.Board.Set(target, newTarget)
	return nil
}

// enPassant handles the three sub-cases driven by the diagonal
// target's occupant. A successful en passant always clears the victim
// pawn classically.
func (e *Engine) enPassant(source, target, epVictim geometry.Point) error {
	pawn := e.Board.Get(source)
	pawn.HasMoved = true
	targetPiece := e.Board.Get(target)

	newSource := pawn
	newTarget := targetPiece

	switch {
	case targetPiece.IsNull():
		if err := e.backendErr(e.performStandardEnPassant(source, target, epVictim)); err != nil {
			return err
		}
		newSource = piece.NullPiece
		newTarget = pawn
		e.Board.Set(epVictim, piece.NullPiece)

	case targetPiece.Color == pawn.Color:
		// A friendly ghost on the diagonal: resolve it first.
		if err := e.collapse(targetPiece.QFlag); err != nil {
			return err
		}
		newSource, newTarget = e.Board.Get(source), e.Board.Get(target)

		if !newSource.IsNull() && newTarget.IsNull() {
			pawn = newSource
			pawn.HasMoved = true
			if err := e.backendErr(e.performStandardEnPassant(source, target, epVictim)); err != nil {
				return err
			}
			newSource = piece.NullPiece
			newTarget = pawn
			e.Board.Set(epVictim, piece.NullPiece)
		}

	default:
		// An enemy piece on the diagonal: the move may capture it and
		// the en-passant victim in the same conditional sequence.
		if err := e.collapse(pawn.QFlag); err != nil {
			return err
		}
		newSource, newTarget = e.Board.Get(source), e.Board.Get(target)

		if !newSource.IsNull() {
			pawn = newSource
			pawn.HasMoved = true
			if err := e.backendErr(e.performCaptureEnPassant(source, target, epVictim)); err != nil {
				return err
			}
			newSource = piece.NullPiece
			newTarget = pawn
			e.Board.Set(epVictim, piece.NullPiece)
		}
	}

	if !newSource.IsNull() && newSource.Type == piece.TypePawn {
		newSource.HasMoved = true
	}
	e.Board.Set(source, newSource)
	e.Board.Set(target, newTarget)
	return nil
}
