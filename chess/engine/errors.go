package engine

import "errors"

// Typed rejections. Every one of these is returned before the first
// gate of the move is issued, so a rejected move leaves both the
// classical board and the register untouched. ErrBackendFailure is the
// exception: it means the quantum backend itself misbehaved mid-move,
// the engine instance should be discarded.
var (
	ErrOutOfBounds              = errors.New("square out of bounds")
	ErrEmptySource              = errors.New("source square is empty")
	ErrIllegalGeometry          = errors.New("incorrect move for piece type")
	ErrSameSquare               = errors.New("duplicate square in move")
	ErrTargetOccupiedWrongPiece = errors.New("target square occupied by a different piece")
	ErrMergeMismatch            = errors.New("merge sources hold different pieces")
	ErrInvalidPawnMove          = errors.New("incorrect move for pawn")
	ErrBackendFailure           = errors.New("quantum backend failure")
)
