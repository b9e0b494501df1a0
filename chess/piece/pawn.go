package piece

import "github.com/kegliz/qchess/chess/geometry"

// MoveType classifies a pawn's (source,target) pair, grounded on
// original_source/qchess/pawn.py's Pawn.is_move_valid.
type MoveType int

const (
	Invalid MoveType = iota
	SingleStep
	DoubleStep
	Capture
	EnPassant
)

func (mt MoveType) String() string {
	switch mt {
	case SingleStep:
		return "SingleStep"
	case DoubleStep:
		return "DoubleStep"
	case Capture:
		return "Capture"
	case EnPassant:
		return "EnPassant"
	default:
		return "Invalid"
	}
}

// PawnMoveType computes the move type of a pawn move, mirroring
// pawn.py exactly: forward direction is -y for White, +y for Black;
// en passant takes priority over a same-diagonal capture; en passant
// returns the victim pawn's point.
//
// targetPiece is classical[target] (used to test occupancy/color for
// straight-ahead blocking and diagonal capture); epPawnPoint is the
// engine's current en-passant eligibility square, or nil.
func PawnMoveType(p Piece, source, target geometry.Point, targetPiece Piece, epPawnPoint *geometry.Point) (MoveType, *geometry.Point) {
	if p.Type != TypePawn {
		return Invalid, nil
	}
	if source.Equals(target) {
		return Invalid, nil
	}

	dy := 1
	if p.Color == ColorWhite {
		dy = -1
	}

	if target.X == source.X {
		if target.Y == source.Y+2*dy {
			if p.HasMoved || !p.DoubleStepAllowed {
				return Invalid, nil
			}
			return DoubleStep, nil
		}
		if target.Y == source.Y+dy {
			return SingleStep, nil
		}
		return Invalid, nil
	}

	if (target.X == source.X+1 || target.X == source.X-1) && target.Y == source.Y+dy {
		victim := geometry.Point{X: target.X, Y: target.Y - dy}
		if epPawnPoint != nil && epPawnPoint.Equals(victim) {
			return EnPassant, &victim
		}
		if !targetPiece.IsNull() && targetPiece.Color != p.Color {
			return Capture, nil
		}
		return Invalid, nil
	}

	return Invalid, nil
}
