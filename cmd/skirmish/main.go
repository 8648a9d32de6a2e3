// Skirmish is a turn-based tactics sandbox driven by scenario scripts.
// Usage: skirmish [--version] [--plain] [--trace] [--script <file> [--watch]] <game_directory>
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/interp"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: skirmish [--version] [--plain] [--trace] [--script <file> [--watch]] <game_directory>"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	plain := false
	trace := false
	watch := false
	var gameDir string
	var scriptFile string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("skirmish %s (commit %s, built %s)\n", version, commit, date)
			return 0
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--watch":
			watch = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				return 1
			}
			i++
			scriptFile = args[i]
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		return 1
	}
	if watch && scriptFile == "" {
		fmt.Fprintln(os.Stderr, "--watch requires --script")
		return 1
	}

	// The logger is needed before the game loads, so read the config once
	// up front.
	cfg, err := config.Load(gameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	useTUI := scriptFile == "" && !plain && isTerminal()
	logger, closeLog, err := newLogger(cfg, trace, useTUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	build := func() (*engine.Engine, error) {
		g, err := loader.Load(gameDir)
		if err != nil {
			return nil, err
		}
		w, names, err := g.BuildWorld()
		if err != nil {
			return nil, err
		}
		return engine.New(w, engine.Options{
			Game:    g.Map.Name,
			Config:  g.Config,
			Logger:  logger,
			Scripts: interp.FSSource{FS: os.DirFS(g.ScriptsDir())},
			Names:   names,
		})
	}

	eng, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		return 1
	}

	// Script mode: run the file as one scenario, optionally forever.
	if scriptFile != "" {
		c := cli.New(eng)
		c.Trace = trace
		if watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := c.Watch(ctx, scriptFile, gameDir, build); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			return 0
		}
		ok, err := c.RunScript(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !ok {
			return 2
		}
		return 0
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if !useTUI {
		c := cli.New(eng)
		c.Trace = trace
		c.Run()
		return 0
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds the process logger. Logs go to the configured log file,
// else to stderr; the TUI owns the terminal, so without a log file its
// logs are dropped.
func newLogger(cfg config.Config, trace, tuiMode bool) (*slog.Logger, func() error, error) {
	lvl := cfg.LogLevel.Level()
	if trace {
		lvl = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closer := func() error { return nil }
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f.Close
	case tuiMode:
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closer, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
