// Package engine implements the quantum chess move engine: the state
// machine that translates standard, split, and merge commands (plus
// pawn moves and castling) into gate sequences on the board register,
// decides which entanglement classes must be force-collapsed, and
// keeps the classical possible-position map in step with the quantum
// state.
//
// The engine owns the classical board, the quantum register, and the
// entanglement tracker; callers hold exactly one Engine per game and
// drive it synchronously. It never prompts or renders.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kegliz/qchess/chess/board"
	"github.com/kegliz/qchess/chess/config"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/notation"
	"github.com/kegliz/qchess/chess/piece"
	"github.com/kegliz/qchess/chess/quantum"
	"github.com/kegliz/qchess/chess/tracker"
	"github.com/kegliz/qchess/internal/logger"
)

// Castling is one castling rule from the game mode, resolved to board
// coordinates.
type Castling struct {
	RookStart, RookEnd geometry.Point
	KingStart, KingEnd geometry.Point
}

// Engine is the move engine for one game.
type Engine struct {
	ID uuid.UUID

	Board   *board.Board
	reg     *quantum.Register
	tracker *tracker.Tracker
	log     *logger.Logger

	pawnDoubleStep bool
	castlings      []Castling

	// epPawnPoint is the square a pawn just double-stepped to; set for
	// exactly one subsequent ply. justMovedEP makes it survive the
	// remainder of the current ply.
	epPawnPoint *geometry.Point
	justMovedEP bool
}

// New builds an engine from a game mode: board sized from the layout
// rows, register allocated, pieces added row by row (row 0 is the top
// of the board).
func New(mode *config.GameMode, log *logger.Logger) (*Engine, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	w, h := mode.Width(), mode.Height()
	if w*h+quantum.NumAncilla > quantum.MaxQubits {
		return nil, fmt.Errorf("engine: %dx%d board needs %d qubits, statevector backend is capped at %d",
			w, h, w*h+quantum.NumAncilla, quantum.MaxQubits)
	}

	id := uuid.New()
	log = &logger.Logger{Logger: log.SpawnForService("moveengine").With().Str("game_id", id.String()).Logger()}

	b := board.New(w, h)
	reg := quantum.New(w, h)

	e := &Engine{
		ID:             id,
		Board:          b,
		reg:            reg,
		tracker:        tracker.New(b, reg, log),
		log:            log,
		pawnDoubleStep: mode.DoubleStepAllowed(),
	}

	for _, ct := range mode.CastlingTypes {
		c, err := e.parseCastling(ct)
		if err != nil {
			return nil, err
		}
		e.castlings = append(e.castlings, c)
	}

	for y, row := range mode.Board {
		for x, code := range row {
			if code == '0' {
				continue
			}
			pc, err := piece.FromNotation(code)
			if err != nil {
				return nil, err
			}
			if err := e.AddPiece(geometry.Point{X: x, Y: y}, pc); err != nil {
				return nil, err
			}
		}
	}

	return e, nil
}

func (e *Engine) parseCastling(ct config.CastlingType) (Castling, error) {
	h := e.Board.H
	var c Castling
	var err error
	if c.RookStart, err = notation.StringToPoint(ct.RookStart, h); err != nil {
		return c, err
	}
	if c.RookEnd, err = notation.StringToPoint(ct.RookEnd, h); err != nil {
		return c, err
	}
	if c.KingStart, err = notation.StringToPoint(ct.KingStart, h); err != nil {
		return c, err
	}
	if c.KingEnd, err = notation.StringToPoint(ct.KingEnd, h); err != nil {
		return c, err
	}
	for _, p := range []geometry.Point{c.RookStart, c.RookEnd, c.KingStart, c.KingEnd} {
		if !e.Board.InBounds(p) {
			return c, fmt.Errorf("engine: castling square %v out of bounds: %w", p, ErrOutOfBounds)
		}
	}
	return c, nil
}

// AddPiece places a piece on an empty square: it gets a fresh identity
// bit and its qubit is flipped from |0⟩ to |1⟩.
func (e *Engine) AddPiece(p geometry.Point, pc piece.Piece) error {
	if !e.Board.InBounds(p) {
		return fmt.Errorf("engine: add piece at %v: %w", p, ErrOutOfBounds)
	}
	if e.Board.IsOccupied(p) {
		return fmt.Errorf("engine: add piece at %v: square occupied", p)
	}

	if pc.Type == piece.TypePawn && !e.pawnDoubleStep {
		pc.DoubleStepAllowed = false
	}
	pc.Collapsed = true
	pc.QFlag = e.tracker.NextFlag()

	e.Board.Set(p, pc)
	if err := e.reg.X(e.reg.Qubit(e.Board.Idx(p))); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	return nil
}

// Tracker exposes the entanglement tracker for manual collapse steps
// (the tutorial shell's collapse command) and entanglement display.
func (e *Engine) Tracker() *tracker.Tracker { return e.tracker }

// Castlings returns the castling rules configured for this game.
func (e *Engine) Castlings() []Castling { return e.castlings }

// EPPawnPoint reports the current en-passant eligibility square, or
// nil.
func (e *Engine) EPPawnPoint() *geometry.Point { return e.epPawnPoint }

// EndOfPly must be called once after each completed move; it expires
// the en-passant eligibility set by the previous ply's double step.
func (e *Engine) EndOfPly() {
	if e.justMovedEP {
		e.justMovedEP = false
		return
	}
	e.epPawnPoint = nil
}

// qubit maps a board point to its main-register qubit.
func (e *Engine) qubit(p geometry.Point) int {
	return e.reg.Qubit(e.Board.Idx(p))
}

func (e *Engine) backendErr(err error) error {
	if err == nil {
		return nil
	}
	e.log.Error().Err(err).Msg("quantum backend failure")
	return fmt.Errorf("%w: %v", ErrBackendFailure, err)
}
