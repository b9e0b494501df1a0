package engine

import (
	"math/bits"

	"github.com/kegliz/qchess/chess/geometry"
)

// doesSlideViolateDoubleOccupancy decides, from classical information
// only, whether a slide capture could leave a branch with the path
// blocked AND the target occupied — the double-occupancy condition
// that forces a collapse. It is called after the capture-slide gadget
// sampled cond == 1, so at least one branch has the path clear or the
// target empty.
//
// The piece count is taken as popcount(target.qflag), which overcounts
// when qflags have been merged by entanglement; the check is therefore
// conservative — it may force more collapses than strictly necessary,
// never fewer.
func (e *Engine) doesSlideViolateDoubleOccupancy(source, target geometry.Point) bool {
	targetPiece := e.Board.Get(target)
	if targetPiece.IsNull() {
		return false
	}

	path := e.Board.PathPoints(source, target)

	var entangled []geometry.Point
	for i := 0; i < e.Board.W*e.Board.H; i++ {
		p := e.Board.Pt(i)
		if e.Board.Get(p).QFlag&targetPiece.QFlag != 0 {
			entangled = append(entangled, p)
		}
	}

	inEntangled := func(p geometry.Point) bool {
		for _, q := range entangled {
			if q.Equals(p) {
				return true
			}
		}
		return false
	}

	// A blocker independent of the target's entanglement class blocks
	// in every branch where the target exists.
	for _, p := range path {
		if !inEntangled(p) && e.Board.IsOccupied(p) {
			return true
		}
	}

	inPath := func(p geometry.Point) bool {
		for _, q := range path {
			if q.Equals(p) {
				return true
			}
		}
		return false
	}

	numPieces := bits.OnesCount64(targetPiece.QFlag)
	k := len(entangled)
	if numPieces > k {
		numPieces = k
	}

	// Enumerate every placement of numPieces pieces across the k
	// entangled squares (Gosper's hack walks the n-of-k bitmasks in
	// order) and look for one that both blocks the path and keeps the
	// target occupied.
	for comb := uint64(1)<<numPieces - 1; comb < uint64(1)<<k; {
		blocked := false
		targetEmpty := true

		for i := 0; i < k; i++ {
			if comb&(1<<i) == 0 {
				continue
			}
			if inPath(entangled[i]) {
				blocked = true
			}
			if entangled[i].Equals(target) {
				targetEmpty = false
			}
		}

		if blocked && !targetEmpty {
			return true
		}

		if comb == 0 {
			break
		}
		c := comb & (-comb)
		r := comb + c
		comb = (((r ^ comb) >> 2) / c) | r
	}

	return false
}
