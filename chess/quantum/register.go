// Package quantum implements the Quantum Backend (spec.md §4.1): a
// persistent statevector over a main register of W*H qubits (one per
// board square) plus a small ancilla pool and per-square classical
// registers. The Move Engine (chess/engine) treats this package as an
// oracle — all quantum semantics live here.
//
// Register is built on qc/simulator/qsim's QuantumState, the same
// amplitude-indexed statevector the generic circuit pipeline uses, so
// the live game register and the qc/builder-driven demo circuits
// (cmd/qchess gatelab) share one arithmetic implementation. Unlike
// that pipeline, a Register executes every gate eagerly against one
// evolving state rather than building a DAG and sampling it once —
// spec.md §5 requires synchronous, no-suspension-point semantics, and
// Measure must be able to influence the very next gate the engine
// issues (the capture-slide gadget conditions later iSwaps on a
// measurement taken moments earlier).
//
// Gate polarity convention: cI-swap and c-√iSwap fire when their
// control qubit reads |1⟩ (spec.md §4.1's table). Every gadget in
// chess/engine that prepares a control ancilla is written so the
// ancilla ends up holding the literal condition it names (a
// "path-clear" ancilla is |1⟩ iff the path is clear) — the opposite
// polarity from original_source/qchess/engines/qiskit/qutils.py's own
// ancillas, which hold the condition inverted because that codebase's
// controlled-iSwap fires on |0⟩. Net gadget behavior is unchanged;
// only the ancilla's bit meaning and the X-gate bookkeeping around it
// differ.
package quantum

import (
	"fmt"

	"github.com/kegliz/qchess/qc/gate"
	"github.com/kegliz/qchess/qc/simulator/qsim"
)

// Number of general-purpose ancillas (spec.md §3: "at least 3
// general"). Every gadget resets whichever of these it needs at the
// start, so 3 is enough even though several gadgets use all 3 at once
// (capture-slide: path-clear, cond, captured-piece).
const numGeneralAncilla = 3

// Number of scratch ancillas nominally reserved for mct's advanced
// decomposition (spec.md §3: "at least 6 for multi-controlled-X
// decomposition"). This backend computes MCX as a direct amplitude
// predicate (see qsim.QuantumState.ApplyGate's "MCX" case) rather than
// decomposing it into elementary gates, so these qubits are never
// touched. They keep their register indices for contract fidelity but
// are NOT part of the simulated statevector — each simulated qubit
// doubles the amplitude array, and six permanently-|0⟩ qubits would
// multiply every gate's cost by 64 for nothing. Touching one through
// the backend reports an invalid-qubit error.
const numScratchAncilla = 6

// MaxQubits bounds the simulated register size (main qubits plus the
// general ancillas). The dense statevector holds 2^n complex128
// amplitudes; boards needing more than this must use a sparse backend
// this package does not provide.
const MaxQubits = 25

// NumAncilla is the number of simulated ancillas added on top of the
// W*H main qubits.
const NumAncilla = numGeneralAncilla

// Register is the persistent quantum backend for one game.
type Register struct {
	state *qsim.QuantumState

	w, h    int
	numMain int

	ancGeneral [numGeneralAncilla]int
	ancScratch []int

	// classical holds one bit per board square (indices [0,numMain)) —
	// spec.md §3's "W*H single-bit classical registers (one per
	// square)" — plus one misc bit at index numMain used by gadgets
	// that must read back a computed condition (capture-slide's
	// `cond`).
	classical []bool
}

// MiscBit is the classical register index reserved for gadget
// conditions (spec.md §3: "at least one auxiliary classical bit").
func (r *Register) MiscBit() int { return r.numMain }

// New allocates a fresh Register for a W*H board, all qubits in |0⟩
// and all classical registers cleared (spec.md §4.1's alloc).
func New(w, h int) *Register {
	numMain := w * h
	total := numMain + numGeneralAncilla

	ancScratch := make([]int, numScratchAncilla)
	var ancGeneral [numGeneralAncilla]int
	for i := range ancGeneral {
		ancGeneral[i] = numMain + i
	}
	for i := range ancScratch {
		ancScratch[i] = numMain + numGeneralAncilla + i
	}

	return &Register{
		state:      qsim.NewQuantumState(total, 0),
		w:          w,
		h:          h,
		numMain:    numMain,
		ancGeneral: ancGeneral,
		ancScratch: ancScratch,
		classical:  make([]bool, numMain+1),
	}
}

// Qubit returns the main-register qubit index for board square i
// (spec.md §3: "main qubit i represents a piece on square pt(i)").
func (r *Register) Qubit(i int) int { return i }

// Ancilla returns the i'th general-purpose ancilla qubit index.
func (r *Register) Ancilla(i int) int { return r.ancGeneral[i] }

// Scratch returns the mct decomposition's scratch ancilla qubits.
func (r *Register) Scratch() []int { return r.ancScratch }

// X flips a qubit (standard Pauli-X).
func (r *Register) X(q int) error { return r.state.ApplyGate(gate.X(), []int{q}) }

// CX is the controlled-NOT (CNOT): flips target iff control == |1⟩.
func (r *Register) CX(control, target int) error {
	return r.state.ApplyGate(gate.CNOT(), []int{control, target})
}

// CCX is the Toffoli gate: flips target iff both controls == |1⟩.
func (r *Register) CCX(c1, c2, target int) error {
	return r.state.ApplyGate(gate.Toffoli(), []int{c1, c2, target})
}

// Reset projects a qubit back to |0⟩.
func (r *Register) Reset(q int) error { return r.state.ApplyGate(gate.Reset(), []int{q}) }

// MCX flips target iff every qubit in controls reads |1⟩. scratch is
// accepted for contract fidelity with spec.md §4.1 but unused — see
// the package doc comment.
func (r *Register) MCX(controls []int, target int, scratch []int) error {
	qs := append(append([]int(nil), controls...), target)
	return r.state.ApplyGate(gate.MCX(len(controls)), qs)
}

// Apply applies one of the four named unitaries from spec.md §4.1's
// table (ISWAP, SQRT_ISWAP, CISWAP, CSQRT_ISWAP) to qubits.
func (r *Register) Apply(name string, qubits []int) error {
	g, err := gate.Factory(name)
	if err != nil {
		return fmt.Errorf("quantum: %w", err)
	}
	return r.state.ApplyGate(g, qubits)
}

// ApplyConditional applies U to qubits iff the classical register
// cbit currently reads value — spec.md §4.1's apply_conditional, used
// by the capture-slide gadget's c_if-style commit step.
func (r *Register) ApplyConditional(name string, qubits []int, cbit int, value bool) error {
	if cbit < 0 || cbit >= len(r.classical) {
		return fmt.Errorf("quantum: classical bit %d out of range", cbit)
	}
	if r.classical[cbit] != value {
		return nil
	}
	return r.Apply(name, qubits)
}

// Measure projects qubit q onto the computational basis, stores the
// outcome in classical register cbit, and returns it. A main-register
// qubit measured this way is exactly the per-square collapse spec.md
// §4.2's collapse_by_flag drives; the capture-slide gadget also uses
// it to read back its cond ancilla.
func (r *Register) Measure(q, cbit int) (bool, error) {
	if cbit < 0 || cbit >= len(r.classical) {
		return false, fmt.Errorf("quantum: classical bit %d out of range", cbit)
	}
	result := r.state.Measure(q)
	r.classical[cbit] = result
	return result, nil
}

// ClassicalBit reads back a previously measured classical register
// without performing a new measurement.
func (r *Register) ClassicalBit(cbit int) bool { return r.classical[cbit] }

// Rebuild discards the current state entirely and re-prepares the
// register in the deterministic classical basis: every main qubit in
// occupied is brought to |1⟩, everything else (ancillas included) to
// |0⟩, and all classical registers cleared. Called by the entanglement
// tracker once every piece on the board has collapsed, which keeps the
// effective circuit depth bounded over long games (spec.md §5).
func (r *Register) Rebuild(occupied []int) error {
	r.state = qsim.NewQuantumState(r.numMain+numGeneralAncilla, 0)
	for i := range r.classical {
		r.classical[i] = false
	}
	for _, q := range occupied {
		if q < 0 || q >= r.numMain {
			return fmt.Errorf("quantum: occupied qubit %d outside main register", q)
		}
		if err := r.X(q); err != nil {
			return err
		}
	}
	return nil
}

// Sample returns the current contents of every per-square classical
// register plus the misc bit, MSB first — spec.md §4.1's one-shot
// sample of the circuit distribution. Because this backend executes
// eagerly rather than deferring to a single end-of-circuit shot,
// Sample is a snapshot of whatever has already been measured rather
// than a fresh draw; it returns an error only if the register itself
// is inconsistent (defensive — never expected in practice).
func (r *Register) Sample() (string, error) {
	if len(r.classical) == 0 {
		return "", fmt.Errorf("quantum: empty classical register")
	}
	buf := make([]byte, len(r.classical))
	for i, b := range r.classical {
		c := byte('0')
		if b {
			c = '1'
		}
		buf[len(r.classical)-1-i] = c
	}
	return string(buf), nil
}
