package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kegliz/qchess/chess/piece"
)

// End-to-end distribution scenarios. Each runs 500 independent games
// and accepts a ±0.07 deviation per outcome.

const (
	trials = 500
	delta  = 0.07
)

func whiteKing() piece.Piece  { return piece.Piece{Type: piece.TypeKing, Color: piece.ColorWhite} }
func blackKing() piece.Piece  { return piece.Piece{Type: piece.TypeKing, Color: piece.ColorBlack} }
func whiteQueen() piece.Piece { return piece.Piece{Type: piece.TypeQueen, Color: piece.ColorWhite} }
func whiteRook() piece.Piece  { return piece.Piece{Type: piece.TypeRook, Color: piece.ColorWhite} }
func blackBishop() piece.Piece {
	return piece.Piece{Type: piece.TypeBishop, Color: piece.ColorBlack}
}
func whitePawn() piece.Piece {
	return piece.Piece{Type: piece.TypePawn, Color: piece.ColorWhite, DoubleStepAllowed: true}
}
func blackPawn() piece.Piece {
	return piece.Piece{Type: piece.TypePawn, Color: piece.ColorBlack, DoubleStepAllowed: true}
}

// A split king lands on each target with probability 1/2; the
// classical board shows both ghosts until measurement.
func TestScenario_SplitJump(t *testing.T) {
	trial := distributionTrial{
		w: 3, h: 3,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(0, 0), whiteKing()))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Split(pt(0, 0), pt(1, 0), pt(0, 1), false))

			require.Equal(t, []string{"0K0", "K00", "000"}, simplifiedMatrix(e))

			require.NoError(t, e.Tracker().CollapseAll())
		},
	}

	runDistribution(t, trial, []outcome{
		{state: []string{"0K0", "000", "000"}, prob: 0.5},
		{state: []string{"000", "K00", "000"}, prob: 0.5},
	}, trials, delta)
}

// Capturing with a twice-split king first resolves the attacker: the
// capture only goes through when the king turns out to be on the
// attacking square.
func TestScenario_CaptureAcrossSplit(t *testing.T) {
	trial := distributionTrial{
		w: 3, h: 3,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(0, 0), whiteKing()))
			require.NoError(t, e.Split(pt(0, 0), pt(1, 0), pt(0, 1), false))
			require.NoError(t, e.Split(pt(1, 0), pt(1, 1), pt(2, 1), false))
			require.NoError(t, e.AddPiece(pt(1, 2), blackKing()))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Standard(pt(1, 1), pt(1, 2), false))
		},
	}

	runDistribution(t, trial, []outcome{
		// attacker resolved elsewhere, black king untouched
		{state: []string{"000", "K00", "0k0"}, prob: 0.5},
		{state: []string{"000", "00K", "0k0"}, prob: 0.25},
		// attacker was there and captured
		{state: []string{"000", "000", "0K0"}, prob: 0.25},
	}, trials, delta)
}

// A slide capture through a superposed blocker either finds the path
// clear and captures, or pins the blocker onto the path.
func TestScenario_SlideCaptureWithBlocker(t *testing.T) {
	trial := distributionTrial{
		w: 3, h: 3,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(0, 0), whiteQueen()))
			require.NoError(t, e.AddPiece(pt(1, 0), whiteKing()))
			require.NoError(t, e.Split(pt(1, 0), pt(1, 1), pt(0, 1), false))
			require.NoError(t, e.AddPiece(pt(2, 2), blackBishop()))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Standard(pt(0, 0), pt(2, 2), false))
		},
	}

	runDistribution(t, trial, []outcome{
		// blocker resolved off the diagonal, queen captured
		{state: []string{"000", "K00", "00Q"}, prob: 0.5},
		// blocker resolved onto the path, queen stayed home
		{state: []string{"Q00", "0K0", "00b"}, prob: 0.5},
	}, trials, delta)
}

// En passant against a double-stepped pawn whose diagonal is shadowed
// by a split king: the white pawn always arrives, and measurement
// decides whether it took the king or the pawn.
func TestScenario_EnPassantOnSplitPawn(t *testing.T) {
	trial := distributionTrial{
		w: 3, h: 3,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(2, 2), whitePawn()))
			require.NoError(t, e.AddPiece(pt(1, 0), blackPawn()))
			require.NoError(t, e.AddPiece(pt(0, 0), blackKing()))
			require.NoError(t, e.Split(pt(0, 0), pt(1, 1), pt(0, 1), false))
			require.NoError(t, e.Standard(pt(1, 0), pt(1, 2), false))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Standard(pt(2, 2), pt(1, 1), false))
			require.NoError(t, e.Tracker().CollapseAll())
		},
	}

	runDistribution(t, trial, []outcome{
		// king was on the diagonal: black pawn never got past it
		{state: []string{"0p0", "0P0", "000"}, prob: 0.5},
		// king resolved aside: the double-stepped pawn fell en passant
		{state: []string{"000", "kP0", "000"}, prob: 0.5},
	}, trials, delta)
}

// Castling with a queen ghost sitting on the king's target square:
// the up-front target measurement decides everything.
func TestScenario_CastlingWithBlocker(t *testing.T) {
	trial := distributionTrial{
		w: 5, h: 2,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(0, 1), whiteRook()))
			require.NoError(t, e.AddPiece(pt(4, 1), whiteKing()))
			require.NoError(t, e.AddPiece(pt(1, 0), whiteQueen()))
			require.NoError(t, e.Split(pt(1, 0), pt(2, 0), pt(2, 1), false))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Castle(pt(4, 1), pt(0, 1), pt(2, 1), pt(3, 1)))
		},
	}

	runDistribution(t, trial, []outcome{
		// queen resolved onto the target: nothing moved
		{state: []string{"00000", "R0Q0K"}, prob: 0.5},
		// queen resolved aside: the castle went through
		{state: []string{"00Q00", "00KR0"}, prob: 0.5},
	}, trials, delta)
}

// Triple-split king versus a sliding bishop: the capture-slide gadget
// plus the double-occupancy guard spread the outcomes 1/4, 1/2, 1/4.
func TestScenario_FullCollapseAfterTripleSplit(t *testing.T) {
	trial := distributionTrial{
		w: 4, h: 4,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(0, 0), whiteKing()))
			require.NoError(t, e.Split(pt(0, 0), pt(2, 0), pt(2, 2), true))
			require.NoError(t, e.Split(pt(2, 2), pt(0, 0), pt(2, 0), true))
			require.NoError(t, e.AddPiece(pt(3, 3), blackBishop()))

			require.Equal(t, []string{"K0K0", "0000", "00K0", "000b"}, simplifiedMatrix(e))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Standard(pt(3, 3), pt(0, 0), false))
			require.NoError(t, e.Tracker().CollapseAll())
		},
	}

	runDistribution(t, trial, []outcome{
		// path clear, king elsewhere: bishop slid onto the empty corner
		{state: []string{"b0K0", "0000", "0000", "0000"}, prob: 0.25},
		// king blocked the diagonal: bishop stayed home
		{state: []string{"0000", "0000", "00K0", "000b"}, prob: 0.5},
		// king was on the corner and fell to the bishop
		{state: []string{"b000", "0000", "0000", "0000"}, prob: 0.25},
	}, trials, delta)
}

// Splitting a jump piece and merging it back restores the original
// square with certainty.
func TestScenario_SplitMergeRoundTrip(t *testing.T) {
	trial := distributionTrial{
		w: 3, h: 3,
		factory: func(t *testing.T, e *Engine) {
			require.NoError(t, e.AddPiece(pt(1, 1), whiteKing()))
		},
		action: func(t *testing.T, e *Engine) {
			require.NoError(t, e.Split(pt(1, 1), pt(0, 1), pt(1, 0), false))
			require.NoError(t, e.Merge(pt(0, 1), pt(1, 0), pt(1, 1), false))
			require.NoError(t, e.Tracker().CollapseAll())
		},
	}

	runDistribution(t, trial, []outcome{
		{state: []string{"000", "0K0", "000"}, prob: 1.0},
	}, 100, 0.001)
}
