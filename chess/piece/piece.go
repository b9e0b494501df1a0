// Package piece implements the piece/geometry layer: piece identity,
// move predicates, and the pawn move-type classifier (spec.md §4.3).
// Dynamic dispatch on piece type in the original source is replaced
// here with a tagged variant, per spec.md §9's Design Notes.
package piece

import "github.com/kegliz/qchess/chess/geometry"

type Color int

const (
	ColorNone Color = iota - 1
	ColorBlack
	ColorWhite
)

// Opposite returns the other color, or ColorNone unchanged.
func (c Color) Opposite() Color {
	switch c {
	case ColorWhite:
		return ColorBlack
	case ColorBlack:
		return ColorWhite
	default:
		return ColorNone
	}
}

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

type Type int

const (
	TypeNone Type = iota - 1
	TypePawn
	TypeKnight
	TypeBishop
	TypeRook
	TypeQueen
	TypeKing
)

func (t Type) String() string {
	switch t {
	case TypePawn:
		return "Pawn"
	case TypeKnight:
		return "Knight"
	case TypeBishop:
		return "Bishop"
	case TypeRook:
		return "Rook"
	case TypeQueen:
		return "Queen"
	case TypeKing:
		return "King"
	default:
		return "None"
	}
}

// Piece is a tagged variant covering every piece kind. QFlag is the
// entanglement-tracker bitmask naming this piece's identity; see
// spec.md §3's qflag_counter.
type Piece struct {
	Type     Type
	Color    Color
	HasMoved bool
	// Collapsed is true iff the piece's square is certain (spec.md I3).
	Collapsed bool
	QFlag     uint64

	// DoubleStepAllowed gates Pawn's DoubleStep move type; set from the
	// game mode's pawn_double_step_allowed flag at add_piece time
	// (spec.md §6), defaulting to true.
	DoubleStepAllowed bool
}

// NullPiece is the unique sentinel occupying empty squares.
var NullPiece = Piece{Type: TypeNone, Color: ColorNone, Collapsed: true, QFlag: 0}

// IsNull reports whether p is the null sentinel (by identity, not by
// the Equals relation below — a captured piece of the same type/color
// as Null never exists, so this is unambiguous).
func (p Piece) IsNull() bool { return p.Type == TypeNone }

// Equals holds iff type and color match (spec.md §3: "Two pieces are
// equal iff type and color match").
func (p Piece) Equals(o Piece) bool { return p.Type == o.Type && p.Color == o.Color }

// IsMoveSlide reports whether the piece's legality requires its path
// to be empty (Rook, Bishop, Queen; pawn double-step is handled
// separately by PawnMoveType).
func (p Piece) IsMoveSlide() bool {
	return p.Type == TypeBishop || p.Type == TypeRook || p.Type == TypeQueen
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// IsMoveValid evaluates the jump/slide geometry predicate for every
// type except Pawn, whose move types are computed by PawnMoveType.
func (p Piece) IsMoveValid(source, target geometry.Point) bool {
	if source.Equals(target) {
		return false
	}
	switch p.Type {
	case TypeKing:
		d := target.Sub(source)
		return abs(d.X) <= 1 && abs(d.Y) <= 1
	case TypeKnight:
		d := target.Sub(source)
		ax, ay := abs(d.X), abs(d.Y)
		return (ax == 1 && ay == 2) || (ax == 2 && ay == 1)
	case TypeRook:
		return source.X == target.X || source.Y == target.Y
	case TypeBishop:
		d := target.Sub(source)
		return abs(d.X) == abs(d.Y)
	case TypeQueen:
		rook := Piece{Type: TypeRook, Color: p.Color}
		bishop := Piece{Type: TypeBishop, Color: p.Color}
		return rook.IsMoveValid(source, target) || bishop.IsMoveValid(source, target)
	default:
		return false
	}
}
