package engine

import (
	"fmt"

	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
)

// Standard performs a standard move from source to target. force skips
// the piece's geometry predicate (used by scripted positions); a
// forced pawn move goes through the generic piece path instead of the
// pawn dispatch.
//
// All rejections happen before the first gate, so an error implies the
// state is untouched.
func (e *Engine) Standard(source, target geometry.Point, force bool) error {
	if !e.Board.InBounds(source) {
		return fmt.Errorf("%w: source %v", ErrOutOfBounds, source)
	}
	if !e.Board.InBounds(target) {
		return fmt.Errorf("%w: target %v", ErrOutOfBounds, target)
	}
	if !e.Board.IsOccupied(source) {
		return fmt.Errorf("%w: %v", ErrEmptySource, source)
	}

	pc := e.Board.Get(source)

	if pc.Type == piece.TypePawn && !force {
		mt, epVictim := piece.PawnMoveType(pc, source, target, e.Board.Get(target), e.epPawnPoint)
		if mt == piece.Invalid {
			return fmt.Errorf("%w: %v to %v", ErrInvalidPawnMove, source, target)
		}

		if err := e.standardPawnMove(source, target, mt, epVictim); err != nil {
			return err
		}
		if mt == piece.DoubleStep {
			t := target
			e.epPawnPoint = &t
			e.justMovedEP = true
		}
		return nil
	}

	if !force && !pc.IsMoveValid(source, target) {
		return fmt.Errorf("%w: %s %v to %v", ErrIllegalGeometry, pc.Type, source, target)
	}

	targetPiece := e.Board.Get(target)

	switch {
	case targetPiece.IsNull() || targetPiece.Equals(pc):
		// Empty target, or a ghost of the same piece.
		return e.moveToFreeSquare(source, target)

	case targetPiece.Color == pc.Color:
		// A different same-color piece: measure whether it actually
		// occupies the target, then move into the vacancy if it does not.
		if err := e.collapse(targetPiece.QFlag); err != nil {
			return err
		}
		if e.Board.IsOccupied(source) && !e.Board.IsOccupied(target) {
			return e.moveToFreeSquare(source, target)
		}
		return nil

	default:
		return e.capture(source, target)
	}
}

// moveToFreeSquare issues the jump or controlled-slide gadget for a
// target that is empty or holds a ghost of the moving piece, then
// publishes the classical outcome.
func (e *Engine) moveToFreeSquare(source, target geometry.Point) error {
	pc := e.Board.Get(source)
	targetPiece := e.Board.Get(target)

	if pc.IsMoveSlide() {
		entangled := e.tracker.EntanglePath(pc.QFlag, source, target)
		pc = e.Board.Get(source)
		targetPiece = e.Board.Get(target)

		if entangled && targetPiece.IsNull() {
			// In branches where the path is blocked the piece stays at
			// source, so a ghost remains there.
			pc.Collapsed = false
			targetPiece = pc
		}

		if err := e.backendErr(e.performStandardSlide(source, target)); err != nil {
			return err
		}
	} else {
		if err := e.backendErr(e.performStandardJump(source, target)); err != nil {
			return err
		}
	}

	e.Board.Set(source, targetPiece)
	e.Board.Set(target, pc)
	return nil
}

// capture resolves the mover by measurement, then issues the jump or
// slide capture gadget.
func (e *Engine) capture(source, target geometry.Point) error {
	if err := e.collapse(e.Board.Get(source).QFlag); err != nil {
		return err
	}
	if !e.Board.IsOccupied(source) {
		// The mover resolved off its square; the capture evaporates.
		return nil
	}
	pc := e.Board.Get(source)

	if !pc.IsMoveSlide() || e.Board.IsPathEmpty(source, target) {
		// Jump capture, or a slide whose path is classically clear.
		if err := e.backendErr(e.performCaptureJump(source, target)); err != nil {
			return err
		}
		e.Board.Set(source, piece.NullPiece)
		e.Board.Set(target, pc)
		return nil
	}

	sampled, err := e.performCaptureSlide(source, target)
	if err != nil {
		return e.backendErr(err)
	}

	if !sampled {
		// The capture did not occur: every surviving branch has the path
		// blocked and the target occupied. Resolve them, and publish the
		// mover if the capture branch materialised after all.
		return e.collapseSlideAftermath(source, target)
	}

	if e.doesSlideViolateDoubleOccupancy(source, target) {
		e.log.Warn().Str("source", source.String()).Str("target", target.String()).
			Msg("possible double occupancy, forcing collapse of path and endpoints")
		return e.collapseSlideAftermath(source, target)
	}

	if e.tracker.EntanglePath(pc.QFlag, source, target) {
		pc = e.Board.Get(source)
		pc.Collapsed = false
		e.Board.Set(source, pc)
	} else {
		e.Board.Set(source, piece.NullPiece)
	}
	e.Board.Set(target, pc)
	return nil
}

// collapseSlideAftermath force-collapses the path and both endpoints
// of a slide capture, then publishes the mover to the target if the
// path resolved clear and the source resolved empty — the branch in
// which the mover actually slid through.
func (e *Engine) collapseSlideAftermath(source, target geometry.Point) error {
	pc := e.Board.Get(source)

	pathClear, err := e.tracker.CollapsePath(source, target, true)
	if err != nil {
		return e.backendErr(err)
	}
	if pathClear && !e.Board.IsOccupied(source) {
		pc.Collapsed = true
		pc.QFlag = e.tracker.NextFlag()
		e.Board.Set(target, pc)
	}
	return nil
}

func (e *Engine) collapse(qflag uint64) error {
	if err := e.tracker.CollapseByFlag(qflag, false); err != nil {
		return e.backendErr(err)
	}
	return nil
}
