// Package game drives one quantum chess game: it owns the engine,
// alternates turns, parses shell commands, routes king moves through
// the configured castling rules, and renders the classical board as
// ASCII. Everything here is replaceable presentation-and-protocol
// glue; the rules live in chess/engine.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kegliz/qchess/chess/config"
	"github.com/kegliz/qchess/chess/engine"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/notation"
	"github.com/kegliz/qchess/chess/piece"
	"github.com/kegliz/qchess/internal/logger"
)

var ErrWrongTurn = errors.New("game: not this player's turn")

// Game wraps an engine with turn bookkeeping.
type Game struct {
	Engine      *engine.Engine
	CurrentTurn piece.Color

	// CheckTurn gates the wrong-color rejection; the tutorial shell
	// turns it off.
	CheckTurn bool

	log *logger.Logger
}

func New(mode *config.GameMode, log *logger.Logger) (*Game, error) {
	e, err := engine.New(mode, log)
	if err != nil {
		return nil, err
	}

	turn := piece.ColorWhite
	if mode.StartingColor == "Black" {
		turn = piece.ColorBlack
	}

	return &Game{
		Engine:      e,
		CurrentTurn: turn,
		CheckTurn:   true,
		log:         log.SpawnForService("game"),
	}, nil
}

// PerformCommand parses and executes one shell command. On success the
// turn passes to the other player and en-passant eligibility expires.
func (g *Game) PerformCommand(command string) error {
	move, err := notation.ParseCommand(command, g.Engine.Board.H)
	if err != nil {
		return err
	}
	return g.PerformMove(move)
}

// PerformMove executes an already-parsed move.
func (g *Game) PerformMove(move notation.Move) error {
	if g.CheckTurn {
		if err := g.checkTurn(move); err != nil {
			return err
		}
	}

	var err error
	switch move.Type {
	case notation.Standard:
		err = g.standardOrCastle(move.Points[0], move.Points[1], move.Force)
	case notation.Split:
		err = g.Engine.Split(move.Points[0], move.Points[1], move.Points[2], move.Force)
	case notation.Merge:
		err = g.Engine.Merge(move.Points[0], move.Points[1], move.Points[2], move.Force)
	}
	if err != nil {
		return err
	}

	g.log.Debug().Str("type", move.Type.String()).Bool("force", move.Force).Msg("move performed")

	g.Engine.EndOfPly()
	g.CurrentTurn = g.CurrentTurn.Opposite()
	return nil
}

// standardOrCastle reroutes a standard king move onto a configured
// castling rule when the source/target pair matches one and the
// matching rook is in place.
func (g *Game) standardOrCastle(source, target geometry.Point, force bool) error {
	if g.Engine.Board.InBounds(source) && g.Engine.Board.Get(source).Type == piece.TypeKing {
		for _, c := range g.Engine.Castlings() {
			if c.KingStart.Equals(source) && c.KingEnd.Equals(target) &&
				g.Engine.Board.Get(c.RookStart).Type == piece.TypeRook {
				return g.Engine.Castle(c.KingStart, c.RookStart, c.KingEnd, c.RookEnd)
			}
		}
	}
	return g.Engine.Standard(source, target, force)
}

func (g *Game) checkTurn(move notation.Move) error {
	sources := move.Points[:1]
	if move.Type == notation.Merge {
		sources = move.Points[:2]
	}
	for _, s := range sources {
		if !g.Engine.Board.InBounds(s) {
			continue // the engine reports the bounds error
		}
		if g.Engine.Board.Get(s).Color != g.CurrentTurn {
			return fmt.Errorf("%w: it is %s's turn", ErrWrongTurn, g.CurrentTurn)
		}
	}
	return nil
}

// IsGameOver reports whether either side has run out of kings, and
// the result message when so.
func (g *Game) IsGameOver() (bool, string) {
	white, black := 0, 0
	b := g.Engine.Board
	for i := 0; i < b.W*b.H; i++ {
		pc := b.Get(b.Pt(i))
		if pc.Type != piece.TypeKing {
			continue
		}
		switch pc.Color {
		case piece.ColorWhite:
			white++
		case piece.ColorBlack:
			black++
		}
	}

	switch {
	case white == 0 && black == 0:
		return true, "Draw!"
	case black == 0:
		return true, "White wins!"
	case white == 0:
		return true, "Black wins!"
	default:
		return false, ""
	}
}

// AsciiRender returns the classical possible-position map, one rank
// per line, top of the board first.
func (g *Game) AsciiRender() string {
	var sb strings.Builder
	b := g.Engine.Board
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			sb.WriteString(b.Get(geometry.Point{X: x, Y: y}).Notation())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
