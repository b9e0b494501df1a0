package engine

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/kegliz/qchess/chess/config"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/internal/logger"
)

// quietLogger keeps per-trial engine logging out of test output.
func quietLogger() *logger.Logger {
	return &logger.Logger{Logger: zerolog.Nop()}
}

func emptyMode(w, h int) *config.GameMode {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat("0", w)
	}
	return &config.GameMode{Board: rows}
}

func newEmptyEngine(t *testing.T, w, h int) *Engine {
	t.Helper()
	e, err := New(emptyMode(w, h), quietLogger())
	require.NoError(t, err)
	return e
}

func pt(x, y int) geometry.Point { return geometry.Point{X: x, Y: y} }

// simplifiedMatrix renders the classical board as notation rows, the
// shape the distribution harness matches outcomes against.
func simplifiedMatrix(e *Engine) []string {
	rows := make([]string, e.Board.H)
	for y := 0; y < e.Board.H; y++ {
		var sb strings.Builder
		for x := 0; x < e.Board.W; x++ {
			sb.WriteString(e.Board.Get(pt(x, y)).Notation())
		}
		rows[y] = sb.String()
	}
	return rows
}

// distributionTrial describes one statistical scenario: a fresh engine
// is built and driven per trial, and the resulting classical board is
// matched against the expected outcome states.
type distributionTrial struct {
	w, h    int
	factory func(t *testing.T, e *Engine)
	action  func(t *testing.T, e *Engine)
}

type outcome struct {
	state []string
	prob  float64
}

// runDistribution runs the trial n times and checks every outcome's
// observed frequency within delta. Unmatched boards count against all
// outcomes.
func runDistribution(t *testing.T, trial distributionTrial, outcomes []outcome, n int, delta float64) {
	t.Helper()

	counts := make([]int, len(outcomes))
	for i := 0; i < n; i++ {
		e := newEmptyEngine(t, trial.w, trial.h)
		trial.factory(t, e)
		trial.action(t, e)

		matrix := simplifiedMatrix(e)
		for j, o := range outcomes {
			if equalMatrix(matrix, o.state) {
				counts[j]++
				break
			}
		}
	}

	for j, o := range outcomes {
		freq := float64(counts[j]) / float64(n)
		require.InDeltaf(t, o.prob, freq, delta,
			"outcome %d %v: observed %.3f, want %.2f", j, o.state, freq, o.prob)
	}
}

func equalMatrix(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
