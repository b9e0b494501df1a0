package engine

import (
	"github.com/kegliz/qchess/chess/geometry"
)

// Gadgets: the fixed gate sequences behind each move case. Every
// gadget resets the ancillas it uses at the start; that is the only
// ancilla lifecycle discipline. Control ancillas hold the literal
// condition they name — a path-clear ancilla reads |1⟩ iff the path is
// clear — and the controlled iSwap family fires on |1⟩.

// preparePathClear flips every path qubit, computes "all path squares
// empty" into anc with a multi-controlled-X, and unflips. An empty
// path degenerates to an unconditional flip, leaving anc |1⟩.
func (e *Engine) preparePathClear(path []geometry.Point, anc int) error {
	qubits := make([]int, len(path))
	for i, p := range path {
		qubits[i] = e.qubit(p)
		if err := e.reg.X(qubits[i]); err != nil {
			return err
		}
	}

	if err := e.reg.Reset(anc); err != nil {
		return err
	}
	if err := e.reg.MCX(qubits, anc, e.reg.Scratch()); err != nil {
		return err
	}

	for _, q := range qubits {
		if err := e.reg.X(q); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) performStandardJump(source, target geometry.Point) error {
	return e.reg.Apply("ISWAP", []int{e.qubit(source), e.qubit(target)})
}

func (e *Engine) performCaptureJump(source, target geometry.Point) error {
	// The captured piece's amplitude moves into an ancilla, where it is
	// unreachable from the game.
	captured := e.reg.Ancilla(0)
	if err := e.reg.Reset(captured); err != nil {
		return err
	}
	if err := e.reg.Apply("ISWAP", []int{e.qubit(target), captured}); err != nil {
		return err
	}
	return e.reg.Apply("ISWAP", []int{e.qubit(source), e.qubit(target)})
}

func (e *Engine) performSplitJump(source, target1, target2 geometry.Point) error {
	if err := e.reg.Apply("SQRT_ISWAP", []int{e.qubit(target1), e.qubit(source)}); err != nil {
		return err
	}
	return e.reg.Apply("ISWAP", []int{e.qubit(source), e.qubit(target2)})
}

func (e *Engine) performMergeJump(source1, source2, target geometry.Point) error {
	if err := e.reg.Apply("ISWAP", []int{e.qubit(target), e.qubit(source2)}); err != nil {
		return err
	}
	return e.reg.Apply("SQRT_ISWAP", []int{e.qubit(source1), e.qubit(target)})
}

// performStandardSlide moves source to target conditioned on the
// interior path being empty; in branches where the path is blocked the
// piece stays at source.
func (e *Engine) performStandardSlide(source, target geometry.Point) error {
	pathClear := e.reg.Ancilla(0)
	if err := e.preparePathClear(e.Board.PathPoints(source, target), pathClear); err != nil {
		return err
	}
	return e.reg.Apply("CISWAP", []int{e.qubit(source), e.qubit(target), pathClear})
}

// performCaptureSlide commits one measurement: cond = (path clear) OR
// (path blocked AND target empty), the two cases in which the capture
// cannot create double occupancy. On cond == 1 the capture is carried
// out in the path-clear branch (target into the captured ancilla,
// source into target). Returns the sampled cond.
//
// The source piece has already been collapsed by the caller.
func (e *Engine) performCaptureSlide(source, target geometry.Point) (bool, error) {
	qsource, qtarget := e.qubit(source), e.qubit(target)

	pathClear := e.reg.Ancilla(0)
	if err := e.preparePathClear(e.Board.PathPoints(source, target), pathClear); err != nil {
		return false, err
	}

	cond := e.reg.Ancilla(1)
	captured := e.reg.Ancilla(2)
	if err := e.reg.Reset(cond); err != nil {
		return false, err
	}
	if err := e.reg.Reset(captured); err != nil {
		return false, err
	}

	// cond ^= path clear
	if err := e.reg.CX(pathClear, cond); err != nil {
		return false, err
	}

	// cond ^= (path blocked AND target empty)
	if err := e.reg.X(pathClear); err != nil {
		return false, err
	}
	if err := e.reg.X(qtarget); err != nil {
		return false, err
	}
	if err := e.reg.CCX(qtarget, pathClear, cond); err != nil {
		return false, err
	}
	if err := e.reg.X(qtarget); err != nil {
		return false, err
	}
	if err := e.reg.X(pathClear); err != nil {
		return false, err
	}

	sampled, err := e.reg.Measure(cond, e.reg.MiscBit())
	if err != nil {
		return false, err
	}

	if err := e.reg.ApplyConditional("CISWAP", []int{qtarget, captured, pathClear}, e.reg.MiscBit(), true); err != nil {
		return false, err
	}
	if err := e.reg.ApplyConditional("CISWAP", []int{qsource, qtarget, pathClear}, e.reg.MiscBit(), true); err != nil {
		return false, err
	}

	return sampled, nil
}

// slideSplitMerge is the shared circuit of the split-slide and
// merge-slide gadgets; the two differ only in gate order. The roles
// are (single, double1, double2) = (source, target1, target2) for a
// split and (target, source1, source2) for a merge.
//
// Four branches on the two path-clear ancillas: both clear performs
// the true split/merge, exactly one clear degenerates to a jump along
// the open path, neither clear leaves the piece in place.
func (e *Engine) slideSplitMerge(single, double1, double2 geometry.Point, isSplit bool) error {
	qsingle, qdouble1, qdouble2 := e.qubit(single), e.qubit(double1), e.qubit(double2)

	p1 := e.reg.Ancilla(0)
	if err := e.preparePathClear(e.Board.PathPoints(single, double1), p1); err != nil {
		return err
	}
	p2 := e.reg.Ancilla(1)
	if err := e.preparePathClear(e.Board.PathPoints(single, double2), p2); err != nil {
		return err
	}

	ctrl := e.reg.Ancilla(2)

	// both paths clear: the true split/merge
	if err := e.reg.Reset(ctrl); err != nil {
		return err
	}
	if err := e.reg.CCX(p1, p2, ctrl); err != nil {
		return err
	}
	if isSplit {
		if err := e.reg.Apply("CSQRT_ISWAP", []int{qdouble1, qsingle, ctrl}); err != nil {
			return err
		}
		if err := e.reg.Apply("CISWAP", []int{qsingle, qdouble2, ctrl}); err != nil {
			return err
		}
	} else {
		if err := e.reg.Apply("CISWAP", []int{qsingle, qdouble2, ctrl}); err != nil {
			return err
		}
		if err := e.reg.Apply("CSQRT_ISWAP", []int{qdouble1, qsingle, ctrl}); err != nil {
			return err
		}
	}

	// path 1 clear, path 2 blocked: jump along path 1
	if err := e.reg.Reset(ctrl); err != nil {
		return err
	}
	if err := e.reg.X(p2); err != nil {
		return err
	}
	if err := e.reg.CCX(p1, p2, ctrl); err != nil {
		return err
	}
	if err := e.reg.X(p2); err != nil {
		return err
	}
	if err := e.reg.Apply("CISWAP", []int{qdouble1, qsingle, ctrl}); err != nil {
		return err
	}

	// path 1 blocked, path 2 clear: jump along path 2
	if err := e.reg.Reset(ctrl); err != nil {
		return err
	}
	if err := e.reg.X(p1); err != nil {
		return err
	}
	if err := e.reg.CCX(p1, p2, ctrl); err != nil {
		return err
	}
	if err := e.reg.X(p1); err != nil {
		return err
	}
	return e.reg.Apply("CISWAP", []int{qsingle, qdouble2, ctrl})
}

func (e *Engine) performSplitSlide(source, target1, target2 geometry.Point) error {
	return e.slideSplitMerge(source, target1, target2, true)
}

func (e *Engine) performMergeSlide(source1, source2, target geometry.Point) error {
	return e.slideSplitMerge(target, source1, source2, false)
}

// performStandardEnPassant moves the pawn and captures the en-passant
// victim, conditioned on pawn and victim both being present.
func (e *Engine) performStandardEnPassant(source, target, epTarget geometry.Point) error {
	qsource, qtarget, qep := e.qubit(source), e.qubit(target), e.qubit(epTarget)

	captured := e.reg.Ancilla(0)
	if err := e.reg.Reset(captured); err != nil {
		return err
	}

	both := e.reg.Ancilla(1)
	if err := e.reg.Reset(both); err != nil {
		return err
	}
	if err := e.reg.CCX(qsource, qep, both); err != nil {
		return err
	}

	if err := e.reg.Apply("CISWAP", []int{qep, captured, both}); err != nil {
		return err
	}
	return e.reg.Apply("CISWAP", []int{qsource, qtarget, both})
}

// performCaptureEnPassant can capture the en-passant victim and the
// diagonal target in the same conditional sequence, so it needs two
// captured-piece ancillas. The victim and the diagonal target can
// never both exist here: a piece reaching the diagonal after the
// double step would have invalidated en passant.
func (e *Engine) performCaptureEnPassant(source, target, epTarget geometry.Point) error {
	qsource, qtarget, qep := e.qubit(source), e.qubit(target), e.qubit(epTarget)

	captured1 := e.reg.Ancilla(0)
	if err := e.reg.Reset(captured1); err != nil {
		return err
	}
	captured2 := e.reg.Ancilla(1)
	if err := e.reg.Reset(captured2); err != nil {
		return err
	}

	// any = victim present XOR diagonal target present
	any := e.reg.Ancilla(2)
	if err := e.reg.Reset(any); err != nil {
		return err
	}
	if err := e.reg.CX(qep, any); err != nil {
		return err
	}
	if err := e.reg.CX(qtarget, any); err != nil {
		return err
	}

	if err := e.reg.Apply("CISWAP", []int{qep, captured1, any}); err != nil {
		return err
	}
	if err := e.reg.Apply("CISWAP", []int{qtarget, captured2, any}); err != nil {
		return err
	}
	return e.reg.Apply("CISWAP", []int{qsource, qtarget, any})
}

// performCastle moves king and rook together. path holds the squares
// that must be empty (already filtered to classically occupied ones by
// the caller); an empty path means the move is unconditional.
func (e *Engine) performCastle(kingSource, rookSource, kingTarget, rookTarget geometry.Point, path []geometry.Point) error {
	qks, qrs := e.qubit(kingSource), e.qubit(rookSource)
	qkt, qrt := e.qubit(kingTarget), e.qubit(rookTarget)

	if len(path) == 0 {
		if err := e.reg.Apply("ISWAP", []int{qks, qkt}); err != nil {
			return err
		}
		return e.reg.Apply("ISWAP", []int{qrs, qrt})
	}

	pathClear := e.reg.Ancilla(0)
	if err := e.preparePathClear(path, pathClear); err != nil {
		return err
	}
	if err := e.reg.Apply("CISWAP", []int{qks, qkt, pathClear}); err != nil {
		return err
	}
	return e.reg.Apply("CISWAP", []int{qrs, qrt, pathClear})
}
