// Package engine wires the world, the script interpreter, the output
// channels and the dice into one game session. Scripts are applied with
// Run; queued interactions play out through Tick.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/interaction"
	"github.com/nathoo/skirmish/engine/interp"
	"github.com/nathoo/skirmish/engine/output"
	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/save"
	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// SettleStep is the simulated frame time Settle ticks with, in seconds.
const SettleStep = 0.1

// MaxSettleTicks bounds Settle.
const MaxSettleTicks = 10000

// Options configures a new engine.
type Options struct {
	Game    string
	Config  config.Config
	Logger  *slog.Logger
	Scripts interp.ScriptSource

	// Names seeds the script name table, typically with the map's named
	// placements.
	Names *resolve.Table
}

// Engine holds one game session.
type Engine struct {
	World  *world.World
	Interp *interp.Interpreter
	Out    *output.Multiplexer
	Board  *events.Board
	RNG    *RNG
	Config config.Config
	Logger *slog.Logger
	Game   string
	Turn   int

	step interaction.StepConfig
}

// New creates an engine over w. The configured owner takes the first turn.
func New(w *world.World, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		World:  w,
		Out:    &output.Multiplexer{},
		Board:  &events.Board{},
		RNG:    NewRNG(opts.Config.Seed),
		Config: opts.Config,
		Logger: logger,
		Game:   opts.Game,
		Turn:   1,
	}
	e.Out.Attach(e.Board)
	e.Out.Attach(output.LogSink{Logger: logger})
	e.step = interaction.StepConfig{
		Speed: opts.Config.MoveSpeed,
		Roll:  func(sides int) int { return e.RNG.Roll(sides) },
	}

	ip := interp.New(w, e.Out)
	if opts.Names != nil {
		ip.Names = opts.Names
	}
	ip.Scripts = opts.Scripts
	ip.Owner = opts.Config.Owner
	ip.AbortOnError = opts.Config.AbortOnError
	ip.MaxDepth = opts.Config.MaxScriptDepth
	e.Interp = ip
	if err := e.usePlanner(); err != nil {
		return nil, err
	}

	w.TurnStarted(ip.Owner)
	return e, nil
}

func (e *Engine) usePlanner() error {
	p, err := trajectory.PlannerFor(string(e.Config.Pathfinding), e.World.Grid())
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.Interp.Planner = p
	return nil
}

// Owner is the player currently acting.
func (e *Engine) Owner() int { return e.Interp.Owner }

// Player returns the acting player, if registered.
func (e *Engine) Player() (*world.Player, bool) {
	return e.World.Player(e.Interp.Owner)
}

// Run compiles and applies script. Queued moves and attacks play out on
// later ticks.
func (e *Engine) Run(script string) (bool, *output.Report) {
	ok, rep := e.Interp.Execute(script)
	e.Logger.Info("script finished", "ok", ok, "messages", len(rep.Messages), "owner", e.Interp.Owner)
	return ok, rep
}

// RunFile runs a script from the script source.
func (e *Engine) RunFile(name string) (bool, *output.Report, error) {
	if e.Interp.Scripts == nil {
		return false, nil, fmt.Errorf("run %s: no script directory", name)
	}
	src, err := e.Interp.Scripts.ReadScript(name)
	if err != nil {
		return false, nil, fmt.Errorf("run %s: %w", name, err)
	}
	ok, rep := e.Run(src)
	return ok, rep, nil
}

// Tick advances every queue by dt seconds and returns the events raised.
func (e *Engine) Tick(dt float64) []types.Event {
	interaction.StepAll(e.World, dt, e.step)
	evs := e.World.DrainEvents()
	for _, ev := range evs {
		e.Logger.Debug("world event", "type", ev.Type, "text", events.Format(ev))
	}
	return evs
}

// Busy reports whether any interaction is still queued.
func (e *Engine) Busy() bool { return interaction.Busy(e.World) }

// Settle ticks until every queue is empty. settled is false if
// MaxSettleTicks ran out first.
func (e *Engine) Settle() (evs []types.Event, settled bool) {
	for i := 0; i < MaxSettleTicks; i++ {
		evs = append(evs, e.Tick(SettleStep)...)
		if !e.Busy() {
			return evs, true
		}
	}
	return evs, false
}

// EndTurn hands the turn to the next player in id order and refreshes
// that player's entities.
func (e *Engine) EndTurn() *world.Player {
	players := e.World.Players()
	if len(players) == 0 {
		return nil
	}
	next := players[0]
	for i, p := range players {
		if p.ID == e.Interp.Owner {
			next = players[(i+1)%len(players)]
			break
		}
	}

	e.Turn++
	e.Interp.Owner = next.ID
	e.Interp.Controlled = nil
	if f, ok := e.Interp.Names.Lookup(interp.FactoryName); ok && f.Caps.Has(types.Producer) && f.Owner() != next.ID {
		e.Interp.Names.Clear(interp.FactoryName)
	}
	e.Interp.BindFactory()
	e.World.TurnStarted(next.ID)
	e.Logger.Info("turn started", "turn", e.Turn, "player", next.ID)
	return next
}

// Save snapshots the session.
func (e *Engine) Save() ([]byte, error) {
	return save.Save(save.Snapshot{
		Game:        e.Game,
		World:       e.World,
		Names:       e.Interp.Names,
		Turn:        e.Turn,
		Current:     e.Interp.Owner,
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
	})
}

// Load replaces the session with a snapshot made by Save. Trackers are
// dropped since they refer to the old entities.
func (e *Engine) Load(data []byte) error {
	sd, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	w, names, err := save.Restore(sd, e.World.Catalog)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	e.replace(w, names)
	e.Turn = sd.Turn
	e.Interp.Owner = sd.Current
	e.RNG = RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	e.Logger.Info("game loaded", "turn", sd.Turn, "entities", len(sd.Entities))
	return e.usePlanner()
}

func (e *Engine) replace(w *world.World, names *resolve.Table) {
	w.Crossed = e.World.Crossed
	e.World = w
	e.Interp.World = w
	e.Interp.Names = names
	e.Interp.Controlled = nil

	e.Out.Detach(e.Board)
	e.Board = &events.Board{}
	e.Out.Attach(e.Board)
}
