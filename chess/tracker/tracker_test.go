package tracker

import (
	"math/bits"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qchess/chess/board"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
	"github.com/kegliz/qchess/chess/quantum"
	"github.com/kegliz/qchess/internal/logger"
)

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

func newTracker(w, h int) (*Tracker, *board.Board, *quantum.Register) {
	b := board.New(w, h)
	reg := quantum.New(w, h)
	tr := New(b, reg, &logger.Logger{Logger: zerolog.Nop()})
	return tr, b, reg
}

// addPiece places a collapsed piece with a fresh flag and a |1⟩ qubit,
// the way the engine's add-piece step does.
func addPiece(t *testing.T, tr *Tracker, b *board.Board, reg *quantum.Register, p geometry.Point, pc piece.Piece) {
	t.Helper()
	pc.Collapsed = true
	pc.QFlag = tr.NextFlag()
	b.Set(p, pc)
	require.NoError(t, reg.X(reg.Qubit(b.Idx(p))))
}

func king(c piece.Color) piece.Piece { return piece.Piece{Type: piece.TypeKing, Color: c} }

func TestNextFlag_Singletons(t *testing.T) {
	tr, _, _ := newTracker(2, 2)
	a := tr.NextFlag()
	b := tr.NextFlag()
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
}

func TestEntangle_MergesClasses(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(2, 2), king(piece.ColorBlack))

	f1 := b.Get(pt(0, 0)).QFlag
	f2 := b.Get(pt(2, 2)).QFlag
	tr.Entangle(f1, f2)

	assert.Equal(t, f1|f2, b.Get(pt(0, 0)).QFlag)
	assert.Equal(t, f1|f2, b.Get(pt(2, 2)).QFlag)
}

func TestEntangle_Transitive(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(1, 1), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(2, 2), king(piece.ColorBlack))

	f1 := b.Get(pt(0, 0)).QFlag
	f2 := b.Get(pt(1, 1)).QFlag
	tr.Entangle(f1, f2)
	// entangling with one member of the class pulls in the whole class
	tr.Entangle(b.Get(pt(2, 2)).QFlag, b.Get(pt(1, 1)).QFlag)

	want := f1 | f2 | b.Get(pt(2, 2)).QFlag
	for _, p := range []geometry.Point{pt(0, 0), pt(1, 1), pt(2, 2)} {
		assert.Equal(t, want, b.Get(p).QFlag)
	}
}

func TestEntangle_NoOps(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	f := b.Get(pt(0, 0)).QFlag

	tr.Entangle(f, 0)
	tr.Entangle(0, f)
	tr.Entangle(f, f)
	assert.Equal(t, f, b.Get(pt(0, 0)).QFlag)
}

func TestEntanglePath_ReportsBlockers(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(1, 1), king(piece.ColorBlack))

	f := b.Get(pt(0, 0)).QFlag
	assert.True(t, tr.EntanglePath(f, pt(0, 0), pt(2, 2)))
	assert.NotZero(t, b.Get(pt(0, 0)).QFlag&b.Get(pt(1, 1)).QFlag)

	assert.False(t, tr.EntanglePath(f, pt(0, 0), pt(0, 2)))
}

func TestCollapseAll_DeterministicBoard(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(2, 2), king(piece.ColorBlack))

	require.NoError(t, tr.CollapseAll())

	// deterministic pieces survive in place, collapsed, with distinct
	// power-of-two flags, and the register was rebuilt
	flags := map[uint64]bool{}
	for _, p := range []geometry.Point{pt(0, 0), pt(2, 2)} {
		pc := b.Get(p)
		require.False(t, pc.IsNull())
		assert.True(t, pc.Collapsed)
		assert.Equal(t, 1, bits.OnesCount64(pc.QFlag))
		assert.False(t, flags[pc.QFlag])
		flags[pc.QFlag] = true
	}

	// flag allocation restarted from bit zero
	assert.Equal(t, uint64(4), tr.NextFlag())
}

func TestCollapseAll_Idempotent(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(1, 2), king(piece.ColorBlack))

	require.NoError(t, tr.CollapseAll())
	first := []piece.Piece{b.Get(pt(0, 0)), b.Get(pt(1, 2))}

	require.NoError(t, tr.CollapseAll())
	assert.Equal(t, first, []piece.Piece{b.Get(pt(0, 0)), b.Get(pt(1, 2))})
}

func TestCollapseByFlag_ZeroMaskIsNoOp(t *testing.T) {
	tr, b, reg := newTracker(2, 2)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	before := b.Get(pt(0, 0))

	require.NoError(t, tr.CollapseByFlag(0, false))
	assert.Equal(t, before, b.Get(pt(0, 0)))
}

func TestCollapsePoint_RemovesAbsentGhost(t *testing.T) {
	tr, b, reg := newTracker(2, 2)

	// fabricate a ghost entry whose qubit is |0⟩: measurement must
	// delete it from the classical board
	ghost := king(piece.ColorWhite)
	ghost.QFlag = tr.NextFlag()
	ghost.Collapsed = false
	b.Set(pt(1, 1), ghost)

	require.NoError(t, tr.CollapsePoint(pt(1, 1)))
	assert.True(t, b.Get(pt(1, 1)).IsNull())
	_ = reg
}

func TestGetEntangled(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(1, 1), king(piece.ColorBlack))
	addPiece(t, tr, b, reg, pt(2, 2), king(piece.ColorWhite))

	assert.Nil(t, tr.GetEntangled(pt(0, 1)))

	tr.Entangle(b.Get(pt(0, 0)).QFlag, b.Get(pt(1, 1)).QFlag)
	got := tr.GetEntangled(pt(0, 0))
	assert.Equal(t, []geometry.Point{pt(0, 0), pt(1, 1)}, got)
}

func TestCollapsePath_CollapsesEndpointsOnRequest(t *testing.T) {
	tr, b, reg := newTracker(3, 3)
	addPiece(t, tr, b, reg, pt(0, 0), king(piece.ColorWhite))
	addPiece(t, tr, b, reg, pt(1, 1), king(piece.ColorBlack))
	addPiece(t, tr, b, reg, pt(2, 2), king(piece.ColorWhite))

	clear, err := tr.CollapsePath(pt(0, 0), pt(2, 2), true)
	require.NoError(t, err)
	assert.False(t, clear) // the blocker is deterministic
	assert.True(t, b.Get(pt(0, 0)).Collapsed)
	assert.True(t, b.Get(pt(1, 1)).Collapsed)
	assert.True(t, b.Get(pt(2, 2)).Collapsed)
}
