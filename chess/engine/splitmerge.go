package engine

import (
	"fmt"

	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
)

// Split distributes the piece at source across target1 and target2.
// Each target must be empty or hold a ghost of the same piece.
func (e *Engine) Split(source, target1, target2 geometry.Point, force bool) error {
	if !e.Board.InBounds(source) {
		return fmt.Errorf("%w: source %v", ErrOutOfBounds, source)
	}
	if !e.Board.InBounds(target1) {
		return fmt.Errorf("%w: target %v", ErrOutOfBounds, target1)
	}
	if !e.Board.InBounds(target2) {
		return fmt.Errorf("%w: target %v", ErrOutOfBounds, target2)
	}
	if target1.Equals(target2) {
		return fmt.Errorf("%w: split targets %v", ErrSameSquare, target1)
	}
	if !e.Board.IsOccupied(source) {
		return fmt.Errorf("%w: %v", ErrEmptySource, source)
	}

	pc := e.Board.Get(source)

	if !force {
		if pc.Type == piece.TypePawn {
			return fmt.Errorf("%w: pawns cannot split", ErrIllegalGeometry)
		}
		if !pc.IsMoveValid(source, target1) || !pc.IsMoveValid(source, target2) {
			return fmt.Errorf("%w: %s split %v to %v/%v", ErrIllegalGeometry, pc.Type, source, target1, target2)
		}
	}

	targetPiece1 := e.Board.Get(target1)
	targetPiece2 := e.Board.Get(target2)
	if !targetPiece1.IsNull() && !targetPiece1.Equals(pc) {
		return fmt.Errorf("%w: %v", ErrTargetOccupiedWrongPiece, target1)
	}
	if !targetPiece2.IsNull() && !targetPiece2.Equals(pc) {
		return fmt.Errorf("%w: %v", ErrTargetOccupiedWrongPiece, target2)
	}

	keepSource := false

	if pc.IsMoveSlide() {
		if err := e.backendErr(e.performSplitSlide(source, target1, target2)); err != nil {
			return err
		}

		path1Blocked := e.tracker.EntanglePath(pc.QFlag, source, target1)
		path2Blocked := e.tracker.EntanglePath(pc.QFlag, source, target2)

		// If either path is open the piece always slides out through
		// one of them; only two possibly-blocked paths can pin it.
		keepSource = path1Blocked && path2Blocked
	} else {
		if err := e.backendErr(e.performSplitJump(source, target1, target2)); err != nil {
			return err
		}
	}

	pc = e.Board.Get(source)
	e.tracker.Entangle(pc.QFlag, targetPiece1.QFlag)
	e.tracker.Entangle(pc.QFlag, targetPiece2.QFlag)
	pc = e.Board.Get(source)
	pc.Collapsed = false

	if targetPiece1.IsNull() {
		e.Board.Set(target1, pc)
	}
	if targetPiece2.IsNull() {
		e.Board.Set(target2, pc)
	}
	if targetPiece1.IsNull() && targetPiece2.IsNull() {
		if keepSource {
			e.Board.Set(source, pc)
		} else {
			e.Board.Set(source, piece.NullPiece)
		}
	}
	return nil
}

// Merge recombines two ghosts of one piece into target. The dual of
// Split.
func (e *Engine) Merge(source1, source2, target geometry.Point, force bool) error {
	if !e.Board.InBounds(source1) {
		return fmt.Errorf("%w: source %v", ErrOutOfBounds, source1)
	}
	if !e.Board.InBounds(source2) {
		return fmt.Errorf("%w: source %v", ErrOutOfBounds, source2)
	}
	if !e.Board.InBounds(target) {
		return fmt.Errorf("%w: target %v", ErrOutOfBounds, target)
	}
	if source1.Equals(source2) {
		return fmt.Errorf("%w: merge sources %v", ErrSameSquare, source1)
	}
	if !e.Board.IsOccupied(source1) {
		return fmt.Errorf("%w: %v", ErrEmptySource, source1)
	}
	if !e.Board.IsOccupied(source2) {
		return fmt.Errorf("%w: %v", ErrEmptySource, source2)
	}

	pc1 := e.Board.Get(source1)
	pc2 := e.Board.Get(source2)

	if !force {
		if pc1.Type == piece.TypePawn || pc2.Type == piece.TypePawn {
			return fmt.Errorf("%w: pawns cannot merge", ErrIllegalGeometry)
		}
		if !pc1.IsMoveValid(source1, target) || !pc2.IsMoveValid(source2, target) {
			return fmt.Errorf("%w: %s merge %v/%v to %v", ErrIllegalGeometry, pc1.Type, source1, source2, target)
		}
	}

	if !pc1.Equals(pc2) {
		return fmt.Errorf("%w: %v holds %s %s, %v holds %s %s", ErrMergeMismatch,
			source1, pc1.Color, pc1.Type, source2, pc2.Color, pc2.Type)
	}

	targetPiece := e.Board.Get(target)
	if !targetPiece.IsNull() && !targetPiece.Equals(pc1) {
		return fmt.Errorf("%w: %v", ErrTargetOccupiedWrongPiece, target)
	}

	keepSource1 := false
	keepSource2 := false

	if pc1.IsMoveSlide() {
		if err := e.backendErr(e.performMergeSlide(source1, source2, target)); err != nil {
			return err
		}

		// A blocked path may pin that ghost at its source.
		keepSource1 = e.tracker.EntanglePath(pc1.QFlag, source1, target)
		keepSource2 = e.tracker.EntanglePath(e.Board.Get(source2).QFlag, source2, target)
	} else {
		if err := e.backendErr(e.performMergeJump(source1, source2, target)); err != nil {
			return err
		}
	}

	pc1 = e.Board.Get(source1)
	e.tracker.Entangle(pc1.QFlag, e.Board.Get(source2).QFlag)
	e.tracker.Entangle(pc1.QFlag, targetPiece.QFlag)
	pc1 = e.Board.Get(source1)
	pc1.Collapsed = false

	e.Board.Set(target, pc1)

	if targetPiece.IsNull() {
		if keepSource1 {
			ghost := e.Board.Get(source1)
			ghost.Collapsed = false
			e.Board.Set(source1, ghost)
		} else {
			e.Board.Set(source1, piece.NullPiece)
		}
		if keepSource2 {
			ghost := e.Board.Get(source2)
			ghost.Collapsed = false
			e.Board.Set(source2, ghost)
		} else {
			e.Board.Set(source2, piece.NullPiece)
		}
	}
	return nil
}
