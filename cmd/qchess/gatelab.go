package main

import (
	"fmt"
	"sort"

	"github.com/spf13/pflag"

	"github.com/kegliz/qchess/internal/qmath"
	"github.com/kegliz/qchess/qc/builder"
	"github.com/kegliz/qchess/qc/circuit"
	"github.com/kegliz/qchess/qc/simulator"
	"github.com/kegliz/qchess/qc/simulator/itsu"
	"github.com/kegliz/qchess/qc/simulator/qsim"

	"github.com/itsubaki/q"
)

// runGatelab drives the generic builder → circuit → simulator pipeline
// with a few fixed demos: a Bell pair, a 2-qubit Grover iteration, and
// the iSwap Clifford decomposition (SWAP; CZ; S; S) that shows the
// chess engine's workhorse gate is reachable from the base gate set.
// Demos run on both registered backends so their histograms can be
// eyeballed against each other.
func runGatelab(args []string) {
	fs := pflag.NewFlagSet("qchess gatelab", pflag.ExitOnError)
	shots := fs.Int("shots", 1024, "shots per demo")
	coin := fs.Bool("coin", false, "flip a quantum coin a few times and exit")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}

	if *coin {
		flipCoins()
		return
	}

	runners := []struct {
		name string
		r    simulator.OneShotRunner
	}{
		{"itsu", itsu.NewItsuOneShotRunner()},
		{"qsim", qsim.NewQSimRunner()},
	}

	demos := []struct {
		name  string
		build func() (circuit.Circuit, error)
	}{
		{"Bell pair", buildBell},
		{"2-qubit Grover (|11>)", buildGrover2},
		{"iSwap via SWAP;CZ;S;S", buildISwapDecomposition},
	}

	for _, demo := range demos {
		c, err := demo.build()
		if err != nil {
			fatal(fmt.Errorf("building %s: %w", demo.name, err))
		}
		for _, runner := range runners {
			fmt.Printf("--- %s on %s ---\n", demo.name, runner.name)
			sim := simulator.NewSimulator(simulator.SimulatorOptions{Shots: *shots, Runner: runner.r})
			hist, err := sim.Run(c)
			if err != nil {
				fatal(fmt.Errorf("running %s: %w", demo.name, err))
			}
			printHistogram(hist, *shots)
		}
		fmt.Println()
	}
}

func buildBell() (circuit.Circuit, error) {
	b := builder.New(builder.Q(2), builder.C(2))
	b.H(0).CNOT(0, 1).Measure(0, 0).Measure(1, 1)
	return b.BuildCircuit()
}

func buildGrover2() (circuit.Circuit, error) {
	b := builder.New(builder.Q(2), builder.C(2))
	b.H(0).H(1)
	b.CZ(0, 1)
	b.H(0).H(1).X(0).X(1).CZ(0, 1).X(0).X(1).H(0).H(1)
	b.Measure(0, 0).Measure(1, 1)
	return b.BuildCircuit()
}

// buildISwapDecomposition excites qubit 0, applies iSwap decomposed into
// Cliffords, and measures: every shot finds the excitation on qubit 1
// (up to a global phase the histogram cannot see). itsu prints cbit 0
// first, so it shows |01>; qsim prints the highest cbit first and
// shows |10>.
func buildISwapDecomposition() (circuit.Circuit, error) {
	b := builder.New(builder.Q(2), builder.C(2))
	b.X(0)
	b.SWAP(0, 1).CZ(0, 1).S(0).S(1)
	b.Measure(0, 0).Measure(1, 1)
	return b.BuildCircuit()
}

// flipCoins draws a handful of genuinely quantum random bits (H then
// measure) through the itsubaki/q backend.
func flipCoins() {
	qrand := qmath.QRand{Q: q.New()}
	fmt.Print("quantum coin flips:")
	for i := 0; i < 8; i++ {
		fmt.Printf(" %d", qrand.RandomBit())
	}
	fmt.Println()
}

func printHistogram(hist map[string]int, shots int) {
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, state := range keys {
		count := hist[state]
		fmt.Printf("State |%s>: %d counts (%.2f%%)\n", state, count, float64(count)/float64(shots)*100)
	}
}
