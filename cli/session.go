package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/output"
	"github.com/nathoo/skirmish/types"
)

// Kind classifies a console line for display.
type Kind int

const (
	KindMessage Kind = iota
	KindError
	KindStatus
	KindEvent
	KindSystem
	KindTracker
)

// Line is one line of console output.
type Line struct {
	Text string
	Kind Kind
}

func system(format string, args ...any) Line {
	return Line{Text: fmt.Sprintf(format, args...), Kind: KindSystem}
}

// Session is the console state shared by the line console and the TUI:
// script execution, meta commands and save files.
type Session struct {
	Engine  *engine.Engine
	SaveDir string
	Trace   bool
}

// DefaultSaveDir is ~/.skirmish/saves.
func DefaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skirmish", "saves")
}

// Exec runs script and returns what it printed. Compiler status lines are
// kept only on failure or in trace mode. Queued interactions are left for
// Tick or Settle.
func (s *Session) Exec(script string) (bool, []Line) {
	var lines, status []Line
	d := &output.Dispatcher{
		OnMessage: func(t string) { lines = append(lines, Line{Text: t, Kind: KindMessage}) },
		OnError:   func(t string) { lines = append(lines, Line{Text: t, Kind: KindError}) },
		OnStatus:  func(t string) { status = append(status, Line{Text: t, Kind: KindStatus}) },
	}
	s.Engine.Out.Attach(d)
	ok, _ := s.Engine.Run(script)
	s.Engine.Out.Detach(d)

	if !ok || s.Trace {
		lines = append(lines, status...)
	}
	return ok, lines
}

// Tick advances the engine by dt seconds and formats the events raised.
func (s *Session) Tick(dt float64) []Line {
	return eventLines(s.Engine.Tick(dt))
}

// Settle plays every queued interaction to completion.
func (s *Session) Settle() []Line {
	evs, settled := s.Engine.Settle()
	lines := eventLines(evs)
	if !settled {
		lines = append(lines, system("queues still busy after %d ticks", engine.MaxSettleTicks))
	}
	if s.Trace {
		lines = append(lines, s.trackerLines()...)
	}
	return lines
}

func eventLines(evs []types.Event) []Line {
	lines := make([]Line, 0, len(evs))
	for _, ev := range evs {
		lines = append(lines, Line{Text: events.Format(ev), Kind: KindEvent})
	}
	return lines
}

// Meta runs a /command. quit reports /quit.
func (s *Session) Meta(input string) (lines []Line, quit bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []Line{system("Goodbye.")}, true

	case "/help":
		return s.cmdHelp(), false

	case "/tick":
		return s.cmdTick(arg), false

	case "/end":
		return s.cmdEnd(), false

	case "/state":
		return s.cmdState(), false

	case "/trackers":
		lines := s.trackerLines()
		if len(lines) == 0 {
			return []Line{system("No trackers.")}, false
		}
		return lines, false

	case "/run":
		return s.cmdRun(arg), false

	case "/save":
		return s.cmdSave(arg), false

	case "/load":
		return s.cmdLoad(arg), false

	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return []Line{system("Trace output enabled.")}, false
		}
		return []Line{system("Trace output disabled.")}, false

	default:
		return []Line{system("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (s *Session) cmdTick(arg string) []Line {
	n := 1
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			return []Line{system("/tick takes a positive tick count, got %q", arg)}
		}
		n = v
	}
	var lines []Line
	for i := 0; i < n; i++ {
		lines = append(lines, s.Tick(engine.SettleStep)...)
	}
	if s.Engine.Busy() {
		lines = append(lines, system("interactions still queued"))
	}
	return lines
}

func (s *Session) cmdEnd() []Line {
	lines := s.Settle()
	p := s.Engine.EndTurn()
	if p == nil {
		return append(lines, system("No players."))
	}
	lines = append(lines, s.Tick(0)...)
	return append(lines, system("Turn %d: %s (player %d), %d gold.", s.Engine.Turn, p.Name, p.ID, p.Gold))
}

func (s *Session) cmdRun(name string) []Line {
	if name == "" {
		return []Line{system("/run requires a script name")}
	}
	scripts := s.Engine.Interp.Scripts
	if scripts == nil {
		return []Line{system("Run failed: no script directory")}
	}
	src, err := scripts.ReadScript(name)
	if err != nil {
		return []Line{system("Run failed: %v", err)}
	}
	ok, lines := s.Exec(src)
	if ok {
		lines = append(lines, system("%s applied.", name))
	}
	return lines
}

func (s *Session) cmdSave(name string) []Line {
	if name == "" {
		name = "quicksave"
	}

	data, err := s.Engine.Save()
	if err != nil {
		return []Line{system("Save failed: %v", err)}
	}
	if err := os.MkdirAll(s.SaveDir, 0o755); err != nil {
		return []Line{system("Save failed: %v", err)}
	}
	path := filepath.Join(s.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []Line{system("Save failed: %v", err)}
	}
	return []Line{system("Game saved to %s.", name)}
}

func (s *Session) cmdLoad(name string) []Line {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(s.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []Line{system("Load failed: %v", err)}
	}
	if err := s.Engine.Load(data); err != nil {
		return []Line{system("Load failed: %v", err)}
	}
	return []Line{system("Game loaded from %s (turn %d).", name, s.Engine.Turn)}
}

func (s *Session) cmdHelp() []Line {
	lines := []Line{
		system("System:"),
		system("  /tick [n]     advance n animation ticks (default 1)"),
		system("  /end          settle and end the turn"),
		system("  /run <file>   run a script from the scripts directory"),
		system("  /state        show players and units"),
		system("  /trackers     show tracked properties"),
		system("  /save [name]  save game (default: quicksave)"),
		system("  /load [name]  load game (default: quicksave)"),
		system("  /trace        toggle compiler status and tracker output"),
		system("  /quit         exit"),
		system(""),
		system("Script commands:"),
	}
	for _, c := range s.Engine.Interp.Commands().Commands() {
		lines = append(lines, system("  %s %s", c.Name, strings.Join(c.Params, " ")))
	}
	return lines
}

func (s *Session) cmdState() []Line {
	e := s.Engine
	lines := []Line{system("%s, turn %d", e.Game, e.Turn)}
	for _, p := range e.World.Players() {
		marker := ""
		if p.ID == e.Owner() {
			marker = " (acting)"
		}
		lines = append(lines, system("Player %d %s: %d gold%s", p.ID, p.Name, p.Gold, marker))
	}
	if c := e.Interp.Controlled; c != nil {
		lines = append(lines, system("Controlled: %s", s.label(c.ID)))
	}
	for _, ent := range e.World.Dynamic() {
		lines = append(lines, system("  %s %s owner %d at %v HP %d MP %d/%d",
			s.label(ent.ID), ent.Type, ent.Owner(), ent.Tile(), ent.HP, ent.RemainingMP, ent.BaseMP))
	}
	return lines
}

// label names an entity by its script name when it has one.
func (s *Session) label(id int) string {
	ent, ok := s.Engine.World.EntityByID(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	if name, ok := s.Engine.Interp.Names.NameOf(ent); ok {
		return fmt.Sprintf("#%d %s", id, name)
	}
	return fmt.Sprintf("#%d", id)
}

func (s *Session) trackerLines() []Line {
	var lines []Line
	for _, t := range s.Engine.Board.Lines() {
		lines = append(lines, Line{Text: t, Kind: KindTracker})
	}
	return lines
}
