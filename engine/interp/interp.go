// Package interp compiles and runs scenario scripts. A script is a list of
// one-command lines; each line is bound against the command table, turned
// into a world interaction, and the resulting interactions are applied in
// order.
package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/interaction"
	"github.com/nathoo/skirmish/engine/output"
	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// DefaultMaxDepth bounds @ldscript nesting when MaxDepth is unset.
const DefaultMaxDepth = 8

// FactoryName is bound to the owner's first production building before
// every run, unless a script already uses the name.
const FactoryName = "factory"

// Interpreter holds the state one console session scripts against.
type Interpreter struct {
	World   *world.World
	Names   *resolve.Table
	Out     *output.Multiplexer
	Planner trajectory.Planner // nil plans straight paths
	Scripts ScriptSource       // nil disables @ldscript

	// Owner is the player the session acts for.
	Owner int
	// Controlled is the entity last selected with @control.
	Controlled *world.Entity

	AbortOnError bool
	MaxDepth     int

	commands *Registry
	line     int
	depth    int
}

// New returns an interpreter over w with the default command set.
func New(w *world.World, out *output.Multiplexer) *Interpreter {
	if out == nil {
		out = &output.Multiplexer{}
	}
	return &Interpreter{
		World:    w,
		Names:    resolve.NewTable(),
		Out:      out,
		commands: DefaultRegistry(),
	}
}

// Commands returns the command table.
func (ip *Interpreter) Commands() *Registry { return ip.commands }

// SetCommands replaces the command table.
func (ip *Interpreter) SetCommands(r *Registry) { ip.commands = r }

// Line is the 1-based line being compiled, or 0 outside compilation.
func (ip *Interpreter) Line() int { return ip.line }

// Depth is the current @ldscript nesting level.
func (ip *Interpreter) Depth() int { return ip.depth }

func (ip *Interpreter) planner() trajectory.Planner {
	if ip.Planner == nil {
		return trajectory.StraightPlanner{}
	}
	return ip.Planner
}

func (ip *Interpreter) maxDepth() int {
	if ip.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return ip.MaxDepth
}

// BindFactory binds FactoryName to the owner's first production building
// if the name is free. It reports whether a binding was made.
func (ip *Interpreter) BindFactory() bool {
	found := ip.World.FindByCapability(ip.Owner, types.Producer)
	if len(found) == 0 {
		return false
	}
	return ip.Names.BindIfAbsent(FactoryName, found[0])
}

// Compile turns script into interactions. Every diagnostic goes to
// Out.PrintError; a trailing status line summarizes the counts. ok is
// false when at least one non-warning error was reported.
func (ip *Interpreter) Compile(script string) (ok bool, interactions []*world.Interaction, hasWarnings bool) {
	lines := strings.Split(strings.ReplaceAll(script, "\r", ""), "\n")
	errCount, warnCount := 0, 0
	ip.Names.Begin()
	defer func() {
		ip.Names.End()
		ip.line = 0
	}()

	for i, raw := range lines {
		ip.line = i + 1
		parsed, found := parser.Parse(raw)
		if !found {
			continue
		}

		in, err := ip.compileLine(parsed)
		if err != nil {
			msg := ip.tag(err).Error()
			ip.Out.PrintError(msg)
			if diag.IsWarning(msg) {
				warnCount++
				continue
			}
			errCount++
			if ip.AbortOnError {
				ip.Out.PrintStatus(fmt.Sprintf("fatal error: compilation aborted at line %d", ip.line))
				break
			}
			continue
		}
		if in != nil {
			in.Line = ip.line
			interactions = append(interactions, in)
		}
	}

	if errCount > 0 {
		ip.Out.PrintStatus(fmt.Sprintf("compilation failed: %d errors, %d warnings.", errCount, warnCount))
	} else {
		ip.Out.PrintStatus(fmt.Sprintf("compilation succeeded: %d errors, %d warnings.", errCount, warnCount))
	}
	return errCount == 0, interactions, warnCount > 0
}

// CompileWithReport compiles script with a fresh report attached.
func (ip *Interpreter) CompileWithReport(script string) (bool, []*world.Interaction, *output.Report) {
	rep := output.NewReport(script)
	ip.Out.Attach(rep)
	defer ip.Out.Detach(rep)

	ok, ins, _ := ip.Compile(script)
	return ok, ins, rep
}

// compileLine binds and runs one command. A panicking handler is turned
// into an error so the rest of the script still compiles.
func (ip *Interpreter) compileLine(l parser.Line) (in *world.Interaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			in, err = nil, fmt.Errorf("%s: %v", l.Command, r)
		}
	}()

	cmd, ok := ip.commands.Lookup(l.Command)
	if !ok {
		return nil, diag.Errorf(diag.Syntax, "unknown command '%s'", l.Command).
			Suggest(l.Command, ip.commands.Names(), diag.CommandThreshold)
	}
	args, err := parser.Bind(cmd.Name, cmd.Params, l.Args)
	if err != nil {
		return nil, err
	}
	return cmd.Run(ip, args)
}

// tag attributes err to the current line.
func (ip *Interpreter) tag(err error) *diag.Error {
	var de *diag.Error
	if errors.As(err, &de) {
		if de.Line == 0 {
			de.Line = ip.line
		}
		return de
	}
	return &diag.Error{Kind: diag.Domain, Line: ip.line, Msg: fmt.Sprintf("error creating command: %v", err)}
}

// Execute compiles script and applies its interactions in order, with a
// report attached for the duration. The first interaction that cannot be
// applied halts the run.
func (ip *Interpreter) Execute(script string) (bool, *output.Report) {
	rep := output.NewReport(script)
	ip.Out.Attach(rep)
	defer ip.Out.Detach(rep)

	ip.BindFactory()
	ok, ins, _ := ip.Compile(script)
	if !ok {
		return false, rep
	}

	for i, in := range ins {
		if err := ip.apply(in); err != nil {
			ip.Out.PrintError(fmt.Sprintf("[line %d] fatal error executing interaction %d: %s", in.Line, i, message(err)))
			ip.Out.PrintStatus("script execution halted.")
			return false, rep
		}
	}
	return true, rep
}

// apply commits in and binds the name of a spawned entity.
func (ip *Interpreter) apply(in *world.Interaction) error {
	if err := interaction.Apply(ip.World, in, ip.Planner); err != nil {
		return err
	}
	if sp := in.Spawn; sp != nil && sp.Name != "" {
		if err := ip.Names.Bind(sp.Name, sp.Entity); err != nil {
			return diag.Errorf(diag.Apply, "%v", err)
		}
	}
	return nil
}

// message strips the line tag an apply error may already carry.
func message(err error) string {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return err.Error()
}
