// Command qchess is the terminal shell for the quantum chess engine:
// an ASCII board, the algebraic command grammar (a1b2, a1^b2c3,
// a1b2^c3, leading '!' to force), single tutorials, and the guided
// tutorial sequence. `qchess gatelab` runs the generic circuit
// pipeline demos instead.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kegliz/qchess/chess/config"
	"github.com/kegliz/qchess/chess/game"
	"github.com/kegliz/qchess/chess/notation"
	"github.com/kegliz/qchess/chess/tutorial"
	"github.com/kegliz/qchess/internal/logger"
)

const (
	progressPath         = "tutorials/progress"
	progressTemplatePath = "tutorials/progress_template"
)

// clearScreen redraws the board in place (--ascii-render) instead of
// scrolling.
var clearScreen bool

func render(board string) {
	if clearScreen {
		fmt.Print("\033[2J\033[H")
	}
	fmt.Println()
	fmt.Print(board)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "gatelab" {
		runGatelab(os.Args[2:])
		return
	}

	fs := pflag.NewFlagSet("qchess", pflag.ExitOnError)
	asciiRender := fs.Bool("ascii-render", false, "redraw in place: clear the terminal before each board render")
	gameMode := fs.String("game-mode", "micro_chess", "bundled game mode name or JSON file path")
	tutorialFile := fs.String("tutorial", "", "run a single tutorial JSON file")
	guided := fs.Bool("guided-tutorials", false, "run the tutorial sequence, resuming from the progress file")
	debug := fs.Bool("debug", false, "verbose engine logging")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fatal(err)
	}
	clearScreen = *asciiRender

	exclusive := 0
	for _, name := range []string{"game-mode", "tutorial", "guided-tutorials"} {
		if fs.Changed(name) {
			exclusive++
		}
	}
	if exclusive > 1 {
		fatal(fmt.Errorf("--game-mode, --tutorial and --guided-tutorials are mutually exclusive"))
	}

	log := logger.NewLogger(logger.LoggerOptions{Debug: *debug})

	// Ctrl-C is the regular way out of every shell.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	switch {
	case *guided:
		if err := runGuidedTutorials(log); err != nil {
			fatal(err)
		}
	case *tutorialFile != "":
		cfg, err := tutorial.LoadConfig(*tutorialFile)
		if err != nil {
			fatal(err)
		}
		if _, err := runTutorial(cfg, log); err != nil {
			fatal(err)
		}
	default:
		mode, err := config.LoadGameMode(*gameMode)
		if err != nil {
			fatal(err)
		}
		if err := runGame(mode, log); err != nil {
			fatal(err)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "qchess:", err)
	os.Exit(1)
}

// runGame is the plain ASCII shell: render, read a command, move,
// repeat until a side has no kings left.
func runGame(mode *config.GameMode, log *logger.Logger) error {
	g, err := game.New(mode, log)
	if err != nil {
		return err
	}

	render(g.AsciiRender())

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}

		moveErr := g.PerformCommand(command)

		render(g.AsciiRender())
		if moveErr != nil {
			fmt.Println("Invalid move -", moveErr)
		}

		if over, msg := g.IsGameOver(); over {
			fmt.Println(msg)
			return nil
		}
	}
	return scanner.Err()
}

// runTutorial plays one tutorial to completion (or abandonment) and
// reports whether it was completed.
func runTutorial(cfg *tutorial.Config, log *logger.Logger) (bool, error) {
	s, err := tutorial.NewSession(cfg, log)
	if err != nil {
		return false, err
	}

	step := 1
	fmt.Printf("\n%d.- %s\n", step, s.InitialMessage())
	render(s.Game.AsciiRender())

	scanner := bufio.NewScanner(os.Stdin)
	for !s.Completed() && scanner.Scan() {
		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}

		var msg string
		if command == "collapse" {
			msg, err = s.Collapse()
		} else {
			var move notation.Move
			move, err = notation.ParseCommand(command, s.Game.Engine.Board.H)
			if err == nil {
				msg, err = s.PerformMove(move)
			}
		}

		render(s.Game.AsciiRender())
		if err != nil {
			fmt.Println("Invalid move -", err)
		} else {
			step++
			fmt.Printf("\n%d.- %s\n", step, msg)
		}
	}

	if s.Completed() {
		fmt.Println("Tutorial completed.")
		return true, nil
	}
	return false, scanner.Err()
}

// runGuidedTutorials walks the progress file, replaying each
// unfinished tutorial in order and persisting completions.
func runGuidedTutorials(log *logger.Logger) error {
	progress, err := tutorial.LoadProgress(progressPath, progressTemplatePath)
	if err != nil {
		return err
	}

	fmt.Print(progress.DisplayProgress())
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	if progress.AreAllCompleted() {
		fmt.Println("All tutorials are completed.")
		if yesNoPrompt(scanner, "Do you want to start over?") {
			if err := progress.StartOver(progressTemplatePath); err != nil {
				return err
			}
		} else {
			return nil
		}
	} else if !yesNoPrompt(scanner, "Do you want to resume the tutorials where you left?") {
		if yesNoPrompt(scanner, "Do you want to start over?") {
			if err := progress.StartOver(progressTemplatePath); err != nil {
				return err
			}
		} else {
			return nil
		}
	}

	total := len(progress.Names())
	for _, name := range progress.Names() {
		if progress.IsCompleted(name) {
			continue
		}

		cfg, err := tutorial.LoadConfig("tutorials/" + name + ".json")
		if err != nil {
			return err
		}

		completed, err := runTutorial(cfg, log)
		if err != nil {
			return err
		}

		fmt.Printf("Completed %d/%d.\n", progress.CompletedCount()+boolToInt(completed), total)

		if !completed {
			return nil
		}
		progress.MarkCompleted(name)
		if err := progress.Save(); err != nil {
			return err
		}
	}

	fmt.Println("\nAll tutorials completed.")
	return nil
}

func yesNoPrompt(scanner *bufio.Scanner, msg string) bool {
	fmt.Printf("%s (y/n)\n", msg)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
