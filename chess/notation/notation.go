// Package notation parses the algebraic command grammar of the ASCII
// shell: "a1b2" (standard), "a1^b2c3" (split), "a1b2^c3" (merge). A
// leading '!' forces the move past the piece's geometry predicate,
// which the tutorial and test scenarios use to seed positions a legal
// game could not reach.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kegliz/qchess/chess/geometry"
)

var ErrInvalidCommand = errors.New("notation: invalid command")

// MoveType identifies which engine operation a command requests.
type MoveType int

const (
	Standard MoveType = iota
	Split
	Merge
)

func (mt MoveType) String() string {
	switch mt {
	case Standard:
		return "Standard"
	case Split:
		return "Split"
	case Merge:
		return "Merge"
	default:
		return "Unknown"
	}
}

// Move is a parsed command. Points holds (source, target) for
// Standard, (source, target1, target2) for Split, and (source1,
// source2, target) for Merge.
type Move struct {
	Type   MoveType
	Points []geometry.Point
	Force  bool
}

// StringToPoint converts "a1" to board coordinates. Files run a..z
// left to right; rank 1 is the bottom row, so y = height - rank.
// Bounds beyond the rank flip are the board's concern, not ours.
func StringToPoint(s string, height int) (geometry.Point, error) {
	if len(s) != 2 {
		return geometry.Point{}, fmt.Errorf("%w: square %q", ErrInvalidCommand, s)
	}
	if s[0] < 'a' || s[0] > 'z' {
		return geometry.Point{}, fmt.Errorf("%w: file in %q", ErrInvalidCommand, s)
	}
	if s[1] < '1' || s[1] > '9' {
		return geometry.Point{}, fmt.Errorf("%w: rank in %q", ErrInvalidCommand, s)
	}
	return geometry.Point{X: int(s[0] - 'a'), Y: height - int(s[1]-'0')}, nil
}

// PointToString is the inverse of StringToPoint, used by renderers and
// the tutorial step descriptions.
func PointToString(p geometry.Point, height int) string {
	return fmt.Sprintf("%c%d", 'a'+byte(p.X), height-p.Y)
}

// ParseCommand parses one shell command into a Move.
func ParseCommand(command string, height int) (Move, error) {
	command = strings.TrimSpace(command)

	var move Move
	if strings.HasPrefix(command, "!") {
		move.Force = true
		command = command[1:]
	}

	switch len(command) {
	case 4:
		source, err := StringToPoint(command[0:2], height)
		if err != nil {
			return Move{}, err
		}
		target, err := StringToPoint(command[2:4], height)
		if err != nil {
			return Move{}, err
		}
		move.Type = Standard
		move.Points = []geometry.Point{source, target}

	case 7:
		switch {
		case command[2] == '^':
			source, err := StringToPoint(command[0:2], height)
			if err != nil {
				return Move{}, err
			}
			target1, err := StringToPoint(command[3:5], height)
			if err != nil {
				return Move{}, err
			}
			target2, err := StringToPoint(command[5:7], height)
			if err != nil {
				return Move{}, err
			}
			move.Type = Split
			move.Points = []geometry.Point{source, target1, target2}

		case command[4] == '^':
			source1, err := StringToPoint(command[0:2], height)
			if err != nil {
				return Move{}, err
			}
			source2, err := StringToPoint(command[2:4], height)
			if err != nil {
				return Move{}, err
			}
			target, err := StringToPoint(command[5:7], height)
			if err != nil {
				return Move{}, err
			}
			move.Type = Merge
			move.Points = []geometry.Point{source1, source2, target}

		default:
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidCommand, command)
		}

	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidCommand, command)
	}

	return move, nil
}
