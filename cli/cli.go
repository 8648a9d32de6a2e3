// Package cli provides the line console for the skirmish engine: an
// interactive prompt, script playback and a watch mode that re-runs a
// scenario whenever its file changes.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/skirmish/engine"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session

	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Session: Session{Engine: eng, SaveDir: DefaultSaveDir()},
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the console loop: prompt, input, dispatch, output. Every
// script line is settled before the next prompt.
func (c *CLI) Run() {
	c.printBanner()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			lines, quit := c.Meta(input)
			c.printLines(lines)
			if quit {
				return
			}
			if c.Engine.Busy() {
				c.printLines(c.Settle())
			}
			continue
		}

		// "again" / "g" repeats the last script line.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		_, lines := c.Exec(input)
		c.printLines(lines)
		c.printLines(c.Settle())
	}
}

// RunScript runs the file at path as one script, settles the world and
// prints everything it produced. It returns false if the script failed.
func (c *CLI) RunScript(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("script: %w", err)
	}
	ok, lines := c.Exec(string(data))
	c.printLines(lines)
	c.printLines(c.Settle())
	if ok {
		c.printSystem(fmt.Sprintf("%s: ok", path))
	} else {
		c.printSystem(fmt.Sprintf("%s: failed", path))
	}
	return ok, nil
}

func (c *CLI) printBanner() {
	e := c.Engine
	title := e.Game
	if title == "" {
		title = "skirmish"
	}
	c.printLine(fmt.Sprintf("%s: %dx%d, %d players", title, e.World.Width, e.World.Height, len(e.World.Players())))
	c.printLine("Type /help for commands.")
	c.printLine("")
}

func (c *CLI) prompt() string {
	return fmt.Sprintf("p%d> ", c.Engine.Owner())
}

func (c *CLI) printLines(lines []Line) {
	for _, l := range lines {
		switch l.Kind {
		case KindSystem:
			if l.Text == "" {
				c.printLine("")
				continue
			}
			c.printSystem(l.Text)
		case KindEvent:
			c.printLine("  " + l.Text)
		default:
			c.printLine(l.Text)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
