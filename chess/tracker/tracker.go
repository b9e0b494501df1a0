// Package tracker implements the entanglement tracker (spec.md §4.2):
// classical bookkeeping of which pieces' amplitudes are not separable,
// and the measurement-driven collapse procedure that reconciles the
// classical board with the quantum register.
//
// Qflag bit positions are piece identities, not square identities. Two
// pieces share a qflag bit iff their amplitudes are correlated; the
// relation is kept transitively closed by Entangle.
package tracker

import (
	"fmt"

	"github.com/kegliz/qchess/chess/board"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/piece"
	"github.com/kegliz/qchess/chess/quantum"
	"github.com/kegliz/qchess/internal/logger"
)

// maxLiveFlags is the number of distinct piece identities a uint64
// qflag can name. NextFlag panics past this; CollapseAll resets the
// counter whenever the board fully classicalizes, so a real game never
// gets close.
const maxLiveFlags = 63

// Tracker maintains qflag equivalence classes for one game. It holds
// the same board and register the move engine does (the engine owns
// both; the tracker is a member of the engine, per the single-owner
// layout).
type Tracker struct {
	board *board.Board
	reg   *quantum.Register
	log   *logger.Logger

	flagIndex uint
}

func New(b *board.Board, reg *quantum.Register, log *logger.Logger) *Tracker {
	return &Tracker{board: b, reg: reg, log: log.SpawnForService("tracker")}
}

// NextFlag returns a fresh singleton qflag bit for a newly added or
// freshly collapsed piece.
func (t *Tracker) NextFlag() uint64 {
	if t.flagIndex >= maxLiveFlags {
		panic(fmt.Sprintf("tracker: qflag space exhausted (%d identities live)", t.flagIndex))
	}
	f := uint64(1) << t.flagIndex
	t.flagIndex++
	return f
}

// Entangle merges the equivalence classes named by flag1 and flag2: every
// piece carrying bits of one ends up carrying bits of the other. No-op
// when either flag is 0 (NullPiece) or the classes already intersect.
func (t *Tracker) Entangle(flag1, flag2 uint64) {
	if flag1 == 0 || flag2 == 0 {
		return
	}
	if flag1&flag2 != 0 {
		return
	}

	for i := 0; i < t.board.W*t.board.H; i++ {
		p := t.board.Pt(i)
		pc := t.board.Get(p)
		if pc.QFlag&flag1 != 0 {
			pc.QFlag |= flag2
			t.board.Set(p, pc)
		} else if pc.QFlag&flag2 != 0 {
			pc.QFlag |= flag1
			t.board.Set(p, pc)
		}
	}
}

// EntanglePath union-entangles flag with the qflags of every piece on
// the open path between source and target (endpoints excluded).
// Returns whether any such piece existed — i.e. whether the path may
// be blocked in some branch.
func (t *Tracker) EntanglePath(flag uint64, source, target geometry.Point) bool {
	pathPieces := t.board.PathPieces(source, target)

	var all uint64
	for _, pp := range pathPieces {
		all |= pp.Piece.QFlag
	}
	t.Entangle(all, flag)

	return len(pathPieces) > 0
}

// CollapseByFlag measures every occupied square whose piece's qflag
// intersects mask (every occupied square when collapseAll), reads the
// outcome, and mirrors it back: a 0 removes the piece from the
// classical board and resets its qubit; a 1 resets the qubit to a
// clean |1⟩ and marks the piece collapsed. Each surviving measured
// piece is re-assigned a fresh singleton qflag so future entanglements
// are tracked from a clean slate. Once every piece on the board is
// collapsed, the circuit is rebuilt from the deterministic classical
// state and the flag counter restarts.
func (t *Tracker) CollapseByFlag(mask uint64, collapseAll bool) error {
	if mask == 0 && !collapseAll {
		return nil
	}

	var measured []int
	for i := 0; i < t.board.W*t.board.H; i++ {
		pc := t.board.Get(t.board.Pt(i))
		if pc.IsNull() {
			continue
		}
		if collapseAll || pc.QFlag&mask != 0 {
			measured = append(measured, i)
		}
	}
	if len(measured) == 0 {
		return nil
	}

	for _, i := range measured {
		p := t.board.Pt(i)
		q := t.reg.Qubit(i)

		present, err := t.reg.Measure(q, i)
		if err != nil {
			return fmt.Errorf("tracker: measuring square %v: %w", p, err)
		}

		if !present {
			t.board.Set(p, piece.NullPiece)
			if err := t.reg.Reset(q); err != nil {
				return fmt.Errorf("tracker: resetting square %v: %w", p, err)
			}
			t.log.Debug().Str("square", p.String()).Msg("piece measured off board")
			continue
		}

		if err := t.reg.Reset(q); err != nil {
			return fmt.Errorf("tracker: resetting square %v: %w", p, err)
		}
		if err := t.reg.X(q); err != nil {
			return fmt.Errorf("tracker: re-preparing square %v: %w", p, err)
		}

		pc := t.board.Get(p)
		pc.Collapsed = true
		pc.QFlag = t.NextFlag()
		t.board.Set(p, pc)
		t.log.Debug().Str("square", p.String()).Msg("piece collapsed in place")
	}

	if t.allCollapsed() {
		if err := t.rebuild(); err != nil {
			return err
		}
	}
	return nil
}

// CollapsePoint measures the entanglement class of whatever occupies
// (x,y).
func (t *Tracker) CollapsePoint(p geometry.Point) error {
	return t.CollapseByFlag(t.board.Get(p).QFlag, false)
}

// CollapseAll measures every piece on the board.
func (t *Tracker) CollapseAll() error {
	return t.CollapseByFlag(0, true)
}

// CollapsePath measures everything on the open path between source and
// target, plus — when collapseSource is set — both endpoints' classes.
// Reports whether the path is clear after the collapse.
func (t *Tracker) CollapsePath(source, target geometry.Point, collapseSource bool) (bool, error) {
	var qflag uint64
	for _, pp := range t.board.PathPieces(source, target) {
		qflag |= pp.Piece.QFlag
	}

	if collapseSource {
		if sp := t.board.Get(source); !sp.IsNull() {
			qflag |= sp.QFlag
		}
		if tp := t.board.Get(target); !tp.IsNull() {
			qflag |= tp.QFlag
		}
	}

	if err := t.CollapseByFlag(qflag, false); err != nil {
		return false, err
	}
	return len(t.board.PathPieces(source, target)) == 0, nil
}

// GetEntangled returns every square sharing a qflag bit with the piece
// at p (including p itself when occupied).
func (t *Tracker) GetEntangled(p geometry.Point) []geometry.Point {
	qflag := t.board.Get(p).QFlag
	if qflag == 0 {
		return nil
	}

	var points []geometry.Point
	for i := 0; i < t.board.W*t.board.H; i++ {
		pt := t.board.Pt(i)
		if t.board.Get(pt).QFlag&qflag != 0 {
			points = append(points, pt)
		}
	}
	return points
}

func (t *Tracker) allCollapsed() bool {
	for i := 0; i < t.board.W*t.board.H; i++ {
		pc := t.board.Get(t.board.Pt(i))
		if !pc.IsNull() && !pc.Collapsed {
			return false
		}
	}
	return true
}

// rebuild discards the circuit and re-prepares it from the (now fully
// deterministic) classical board, restarting qflag allocation from bit
// zero.
func (t *Tracker) rebuild() error {
	var occupied []int
	for i := 0; i < t.board.W*t.board.H; i++ {
		if t.board.IsOccupied(t.board.Pt(i)) {
			occupied = append(occupied, t.reg.Qubit(i))
		}
	}

	if err := t.reg.Rebuild(occupied); err != nil {
		return fmt.Errorf("tracker: rebuilding register: %w", err)
	}

	t.flagIndex = 0
	for _, i := range occupied {
		p := t.board.Pt(i)
		pc := t.board.Get(p)
		pc.QFlag = t.NextFlag()
		t.board.Set(p, pc)
	}

	t.log.Debug().Int("pieces", len(occupied)).Msg("board fully classical, register rebuilt")
	return nil
}
