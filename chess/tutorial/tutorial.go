// Package tutorial implements the guided-tutorial shell: JSON tutorial
// definitions layered on a game mode, per-step move constraints, and
// the on-disk progress file. The engine knows nothing about any of
// this.
package tutorial

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kegliz/qchess/chess/config"
	"github.com/kegliz/qchess/chess/game"
	"github.com/kegliz/qchess/chess/geometry"
	"github.com/kegliz/qchess/chess/notation"
	"github.com/kegliz/qchess/chess/piece"
	"github.com/kegliz/qchess/internal/logger"
)

// ValidMoves constrains what the player may do at one tutorial step.
// Empty fields do not constrain; Collapse permits a manual measurement
// step instead of a move.
type ValidMoves struct {
	SourcePieceType []string `mapstructure:"source_piece_type"`
	TargetPieceType []string `mapstructure:"target_piece_type"`
	MoveType        []string `mapstructure:"move_type"`
	Source          []string `mapstructure:"source"`
	Source1         []string `mapstructure:"source1"`
	Source2         []string `mapstructure:"source2"`
	Target          []string `mapstructure:"target"`
	Target1         []string `mapstructure:"target1"`
	Target2         []string `mapstructure:"target2"`
	Collapse        bool     `mapstructure:"collapse"`
}

// Step is one tutorial step: the message shown once the step is
// passed, and the constraints on the move that passes it.
type Step struct {
	Message    []string   `mapstructure:"message"`
	ValidMoves ValidMoves `mapstructure:"valid_moves"`
}

// Config is a tutorial definition: a full game mode plus the guided
// steps.
type Config struct {
	config.GameMode `mapstructure:",squash"`

	InitialMessage []string `mapstructure:"initial_message"`
	TutorialSteps  []Step   `mapstructure:"tutorial_steps"`
}

// LoadConfig reads a tutorial JSON file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("tutorial: reading %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("tutorial: unmarshalling %s: %w", path, err)
	}
	if err := c.GameMode.Validate(); err != nil {
		return nil, err
	}
	if len(c.InitialMessage) == 0 {
		return nil, fmt.Errorf("tutorial: %s has no initial_message", path)
	}
	return &c, nil
}

// Session runs one tutorial over a game. Turn checking is off:
// tutorials move both colors freely.
type Session struct {
	Game *game.Game

	initialMessage string
	steps          []Step
	stepIndex      int
}

// NewSession builds the game from the tutorial's embedded mode and
// positions the session at the first step.
func NewSession(cfg *Config, log *logger.Logger) (*Session, error) {
	g, err := game.New(&cfg.GameMode, log)
	if err != nil {
		return nil, err
	}
	g.CheckTurn = false

	return &Session{
		Game:           g,
		initialMessage: strings.Join(cfg.InitialMessage, " "),
		steps:          cfg.TutorialSteps,
	}, nil
}

// InitialMessage is displayed once before the first step.
func (s *Session) InitialMessage() string { return s.initialMessage }

// Completed reports whether every step has been passed.
func (s *Session) Completed() bool { return s.stepIndex >= len(s.steps) }

// CollapseAllowed reports whether the current step permits a manual
// measurement instead of a move.
func (s *Session) CollapseAllowed() bool {
	return !s.Completed() && s.steps[s.stepIndex].ValidMoves.Collapse
}

// Collapse performs the manual measurement step and advances the
// tutorial. Returns the step message.
func (s *Session) Collapse() (string, error) {
	if !s.CollapseAllowed() {
		return "", fmt.Errorf("tutorial: collapse not allowed at this step")
	}
	if err := s.Game.Engine.Tracker().CollapseAll(); err != nil {
		return "", err
	}
	msg := strings.Join(s.steps[s.stepIndex].Message, " ")
	s.stepIndex++
	return msg, nil
}

// PerformMove checks the move against the current step's constraints,
// executes it, and advances the tutorial. Returns the step message.
// A move that violates the constraints is rejected without touching
// the game.
func (s *Session) PerformMove(move notation.Move) (string, error) {
	if s.Completed() {
		return "", fmt.Errorf("tutorial: already completed")
	}

	step := s.steps[s.stepIndex]
	if err := s.checkMove(step.ValidMoves, move); err != nil {
		return "", err
	}

	if err := s.Game.PerformMove(move); err != nil {
		return "", err
	}

	msg := strings.Join(step.Message, " ")
	s.stepIndex++
	return msg, nil
}

func (s *Session) checkMove(vm ValidMoves, move notation.Move) error {
	h := s.Game.Engine.Board.H

	if len(vm.MoveType) > 0 && !contains(vm.MoveType, move.Type.String()) {
		return fmt.Errorf("tutorial: step expects a %s move", strings.Join(vm.MoveType, " or "))
	}

	var sources, targets []geometry.Point
	var sourceConstraints, targetConstraints [][]string
	switch move.Type {
	case notation.Standard:
		sources = []geometry.Point{move.Points[0]}
		targets = []geometry.Point{move.Points[1]}
		sourceConstraints = [][]string{vm.Source}
		targetConstraints = [][]string{vm.Target}
	case notation.Split:
		sources = []geometry.Point{move.Points[0]}
		targets = []geometry.Point{move.Points[1], move.Points[2]}
		sourceConstraints = [][]string{vm.Source}
		targetConstraints = [][]string{vm.Target1, vm.Target2}
	case notation.Merge:
		sources = []geometry.Point{move.Points[0], move.Points[1]}
		targets = []geometry.Point{move.Points[2]}
		sourceConstraints = [][]string{vm.Source1, vm.Source2}
		targetConstraints = [][]string{vm.Target}
	}

	for i, src := range sources {
		if err := s.checkSquare(sourceConstraints[i], src, h); err != nil {
			return err
		}
		if len(vm.SourcePieceType) > 0 && s.Game.Engine.Board.InBounds(src) {
			if !containsType(vm.SourcePieceType, s.Game.Engine.Board.Get(src).Type) {
				return fmt.Errorf("tutorial: step expects a different source piece")
			}
		}
	}
	for i, tgt := range targets {
		if err := s.checkSquare(targetConstraints[i], tgt, h); err != nil {
			return err
		}
		if len(vm.TargetPieceType) > 0 && s.Game.Engine.Board.InBounds(tgt) {
			if !containsType(vm.TargetPieceType, s.Game.Engine.Board.Get(tgt).Type) {
				return fmt.Errorf("tutorial: step expects a different target piece")
			}
		}
	}
	return nil
}

func (s *Session) checkSquare(allowed []string, p geometry.Point, height int) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, sq := range allowed {
		pt, err := notation.StringToPoint(sq, height)
		if err != nil {
			continue
		}
		if pt.Equals(p) {
			return nil
		}
	}
	return fmt.Errorf("tutorial: step expects one of %s", strings.Join(allowed, ", "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsType(names []string, t piece.Type) bool {
	for _, n := range names {
		if strings.EqualFold(n, t.String()) {
			return true
		}
	}
	return false
}
