package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_AllocAndMeasure(t *testing.T) {
	r := New(3, 3)

	// everything starts in |0⟩
	got, err := r.Measure(r.Qubit(0), 0)
	require.NoError(t, err)
	assert.False(t, got)

	// X brings a qubit to a deterministic |1⟩
	require.NoError(t, r.X(r.Qubit(4)))
	got, err = r.Measure(r.Qubit(4), 4)
	require.NoError(t, err)
	assert.True(t, got)
	assert.True(t, r.ClassicalBit(4))
}

func TestRegister_ISwapMovesExcitation(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.X(0))

	require.NoError(t, r.Apply("ISWAP", []int{0, 1}))

	got, err := r.Measure(0, 0)
	require.NoError(t, err)
	assert.False(t, got)
	got, err = r.Measure(1, 1)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegister_SqrtISwapSplitsFiftyFifty(t *testing.T) {
	const trials = 500
	ones := 0
	for i := 0; i < trials; i++ {
		r := New(2, 2)
		require.NoError(t, r.X(0))
		require.NoError(t, r.Apply("SQRT_ISWAP", []int{1, 0}))

		got, err := r.Measure(1, 1)
		require.NoError(t, err)
		if got {
			ones++
		}
	}

	freq := float64(ones) / float64(trials)
	assert.InDelta(t, 0.5, freq, 0.07)
}

func TestRegister_ControlledISwapRespectsControl(t *testing.T) {
	// control |0⟩: nothing happens
	r := New(2, 2)
	require.NoError(t, r.X(0))
	require.NoError(t, r.Apply("CISWAP", []int{0, 1, 2}))
	got, err := r.Measure(0, 0)
	require.NoError(t, err)
	assert.True(t, got)

	// control |1⟩: the excitation moves
	r = New(2, 2)
	require.NoError(t, r.X(0))
	require.NoError(t, r.X(2))
	require.NoError(t, r.Apply("CISWAP", []int{0, 1, 2}))
	got, err = r.Measure(1, 1)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegister_ApplyConditional(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.X(0))

	// classical bit 0 reads false: the gate must not fire
	require.NoError(t, r.ApplyConditional("ISWAP", []int{0, 1}, 0, true))
	got, err := r.Measure(0, 0)
	require.NoError(t, err)
	assert.True(t, got)

	// after measuring bit 0 true, a conditional on true fires
	require.NoError(t, r.ApplyConditional("ISWAP", []int{0, 1}, 0, true))
	got, err = r.Measure(1, 1)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegister_MCXNeedsAllControls(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.X(0))

	anc := r.Ancilla(0)
	require.NoError(t, r.MCX([]int{0, 1}, anc, r.Scratch()))
	got, err := r.Measure(anc, r.MiscBit())
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, r.X(1))
	require.NoError(t, r.MCX([]int{0, 1}, anc, r.Scratch()))
	got, err = r.Measure(anc, r.MiscBit())
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegister_Rebuild(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.X(0))
	require.NoError(t, r.Apply("SQRT_ISWAP", []int{1, 0}))

	require.NoError(t, r.Rebuild([]int{2, 3}))

	for q := 0; q < 4; q++ {
		got, err := r.Measure(q, q)
		require.NoError(t, err)
		assert.Equal(t, q >= 2, got, "qubit %d", q)
	}
}

func TestRegister_SampleFormat(t *testing.T) {
	r := New(2, 2)
	require.NoError(t, r.X(1))
	_, err := r.Measure(1, 1)
	require.NoError(t, err)

	s, err := r.Sample()
	require.NoError(t, err)
	// 4 square bits plus the misc bit, MSB first: bit 1 set
	assert.Equal(t, "00010", s)
}

func TestRegister_UnknownGate(t *testing.T) {
	r := New(2, 2)
	require.Error(t, r.Apply("NOPE", []int{0, 1}))
}
