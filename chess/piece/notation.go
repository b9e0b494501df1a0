package piece

import (
	"fmt"
	"unicode"
)

// Notation returns the single-character board code for p: upper case
// for White, lower case for Black, 'N' for knights, '0' for the null
// sentinel.
func (p Piece) Notation() string {
	var c byte
	switch p.Type {
	case TypeNone:
		return "0"
	case TypePawn:
		c = 'P'
	case TypeKnight:
		c = 'N'
	case TypeBishop:
		c = 'B'
	case TypeRook:
		c = 'R'
	case TypeQueen:
		c = 'Q'
	case TypeKing:
		c = 'K'
	}
	if p.Color == ColorBlack {
		c += 'a' - 'A'
	}
	return string(c)
}

// FromNotation builds a piece from its board code. New pieces start
// collapsed with DoubleStepAllowed set; the engine's add-piece step
// assigns the qflag and applies the game mode's pawn rule.
func FromNotation(r rune) (Piece, error) {
	if r == '0' {
		return NullPiece, nil
	}

	color := ColorWhite
	if unicode.IsLower(r) {
		color = ColorBlack
		r = unicode.ToUpper(r)
	}

	var t Type
	switch r {
	case 'P':
		t = TypePawn
	case 'N':
		t = TypeKnight
	case 'B':
		t = TypeBishop
	case 'R':
		t = TypeRook
	case 'Q':
		t = TypeQueen
	case 'K':
		t = TypeKing
	default:
		return NullPiece, fmt.Errorf("piece: unknown notation %q", r)
	}

	return Piece{Type: t, Color: color, Collapsed: true, DoubleStepAllowed: true}, nil
}
