package simulator

import (
	"fmt"
	"runtime"

	"github.com/kegliz/qchess/internal/logger"
	"github.com/kegliz/qchess/qc/circuit"
	"github.com/rs/zerolog"
)

// SimulatorOptions encapsulates the parameters for creating a Simulator.
type SimulatorOptions struct {
	Shots   int
	Workers int // number of concurrent workers (0 => NumCPU)
	Runner  OneShotRunner
}

// Simulator executes an immutable circuit for a given number of shots.
// It uses a pool of worker goroutines (Workers==0 → NumCPU) to run shots
// in parallel through its OneShotRunner; the package itself does not
// depend on any particular quantum backend.
type Simulator struct {
	Shots   int
	Workers int // number of concurrent workers (0 => NumCPU)
	runner  OneShotRunner

	log logger.Logger
}

// NewSimulator creates a new Simulator
func NewSimulator(options SimulatorOptions) *Simulator {
	shots := options.Shots
	if shots <= 0 {
		shots = 1024 // Default shots
	}

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > shots { // Optimization: Don't start more workers than shots
		workers = shots
	}

	return &Simulator{Shots: shots, Workers: workers, runner: options.Runner,
		log: *logger.NewLogger(logger.LoggerOptions{
			Debug: false,
		})}
}

// NewSimulatorWithRunner creates a Simulator whose runner comes from the
// default registry under runnerName.
func NewSimulatorWithRunner(runnerName string, options SimulatorOptions) (*Simulator, error) {
	runner, err := CreateRunner(runnerName)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner %q: %w", runnerName, err)
	}
	options.Runner = runner
	return NewSimulator(options), nil
}

// NewSimulatorWithDefaults is NewSimulatorWithRunner with the default
// shots (1024) and workers (NumCPU).
func NewSimulatorWithDefaults(runnerName string) (*Simulator, error) {
	return NewSimulatorWithRunner(runnerName, SimulatorOptions{})
}

// SetVerbose make the simulator log all messages (debug level).
func (s *Simulator) SetVerbose(verbose bool) {
	if verbose {
		s.log.Logger = s.log.Logger.Level(zerolog.DebugLevel) // Log all messages if verbose
	} else {
		s.log.Logger = s.log.Logger.Level(zerolog.InfoLevel)
	}
}

// OneShotRunner is an interface for running a circuit once.
type OneShotRunner interface {
	// RunOnce executes the circuit for one shot.
	RunOnce(circuit.Circuit) (string, error)
}

// Run defaults to RunParallelStatic.
func (s *Simulator) Run(c circuit.Circuit) (map[string]int, error) {
	return s.RunParallelStatic(c)
}
