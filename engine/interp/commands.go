package interp

import (
	"errors"
	"fmt"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/interaction"
	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// FactoryType is the catalog type spawnfactory places.
const FactoryType = "FactoryEntity"

// all is the wildcard accepted by @untrackall and @clearlocal.
const all = "all"

func attackCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	src, err := ip.Names.Resolve(args.Get("src"))
	if err != nil {
		return nil, err
	}
	at, err := point(args)
	if err != nil {
		return nil, err
	}
	return interaction.NewAttack(ip.World, src, at)
}

func moveCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	src, err := ip.Names.Resolve(args.Get("src"))
	if err != nil {
		return nil, err
	}
	x, absX, err := parser.Int("x", args.Get("x"))
	if err != nil {
		return nil, err
	}
	y, absY, err := parser.Int("y", args.Get("y"))
	if err != nil {
		return nil, err
	}

	// Relative coordinates count from where the entity will be once its
	// queue has drained.
	from := src.EndOfQueue()
	to := types.Point{X: x, Y: y}
	if !absX {
		to.X += from.X
	}
	if !absY {
		to.Y += from.Y
	}

	tr, err := ip.planner().Plan(from, to)
	if err != nil {
		return nil, diag.Errorf(diag.Domain, "move %s: %v", args.Get("src"), err)
	}
	return interaction.NewMove(src, tr)
}

func spawnCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	src, err := ip.Names.Resolve(args.Get("src"))
	if err != nil {
		return nil, err
	}
	typeName := args.Get("type")
	e, ok := ip.World.Catalog.New(typeName)
	if !ok {
		return nil, diag.Errorf(diag.Syntax, "entity type '%s' does not exist", typeName).
			Suggest(typeName, ip.World.Catalog.Names(), diag.TypeThreshold)
	}
	at, err := point(args)
	if err != nil {
		return nil, err
	}
	if !e.Caps.Has(types.Neutral) {
		if err := e.SetOwner(src.Owner()); err != nil {
			return nil, diag.Errorf(diag.Domain, "spawn %s: %v", typeName, err)
		}
	}
	return ip.stageSpawn(src, e, at, args.Get("name"))
}

func spawnFactoryCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	owner, err := ownerID(args)
	if err != nil {
		return nil, err
	}
	at, err := point(args)
	if err != nil {
		return nil, err
	}
	f, ok := ip.World.Catalog.New(FactoryType)
	if !ok {
		return nil, diag.Errorf(diag.Syntax, "entity type '%s' does not exist", FactoryType)
	}
	if err := f.SetOwner(owner); err != nil {
		return nil, diag.Errorf(diag.Domain, "spawnfactory: %v", err)
	}
	return ip.stageSpawn(f, f, at, args.Get("name"))
}

// stageSpawn stages name for e, records where it will appear and builds
// the spawn interaction. The name is bound for good once the spawn
// applies.
func (ip *Interpreter) stageSpawn(src, e *world.Entity, at types.Point, name string) (*world.Interaction, error) {
	in, err := interaction.NewSpawn(src, e, at, name)
	if err != nil {
		return nil, err
	}
	if err := ip.Names.Stage(name, e); err != nil {
		var dup *resolve.DuplicateError
		if errors.As(err, &dup) {
			return nil, diag.Errorf(diag.Resolution, "%v", err)
		}
		return nil, err
	}
	if err := e.Stage(at); err != nil {
		return nil, diag.Errorf(diag.Domain, "%v", err)
	}
	return in, nil
}

func controlCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	dst, err := ip.Names.Resolve(args.Get("dst"))
	if err != nil {
		return nil, err
	}
	ip.Controlled = dst
	if dst.Owner() != ip.Owner {
		return nil, diag.Warnf("controlling %s, which belongs to player %d", args.Get("dst"), dst.Owner())
	}
	return nil, nil
}

func resetMPCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	src, err := ip.Names.Resolve(args.Get("src"))
	if err != nil {
		return nil, err
	}
	if src.RemainingMP == src.BaseMP {
		return nil, diag.Warnf("%s already has all its move points", args.Get("src"))
	}
	src.ResetMovePoints()
	return nil, nil
}

func loadScriptCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	name := args.Get("filename")
	if ip.Scripts == nil {
		return nil, diag.Errorf(diag.Domain, "no script directory to load '%s' from", name)
	}
	if ip.depth >= ip.maxDepth() {
		return nil, diag.Errorf(diag.Domain, "script nesting deeper than %d", ip.maxDepth())
	}
	src, err := ip.Scripts.ReadScript(name)
	if err != nil {
		return nil, diag.Errorf(diag.Resolution, "script '%s' could not be loaded: %v", name, err)
	}

	line := ip.line
	ip.depth++
	ok, _ := ip.Execute(src)
	ip.depth--
	ip.line = line

	if !ok {
		return nil, diag.Errorf(diag.Domain, "script '%s' failed", name)
	}
	return nil, nil
}

func displayCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	src, prop, err := ip.property(args)
	if err != nil {
		return nil, err
	}
	v, _ := world.ReadProperty(src, prop)
	ip.Out.Print(fmt.Sprintf("%s.%s = %v", args.Get("src"), prop, v))
	return nil, nil
}

func trackCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	return ip.sendTracker(args, false)
}

func untrackCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	return ip.sendTracker(args, true)
}

func (ip *Interpreter) sendTracker(args parser.Args, remove bool) (*world.Interaction, error) {
	src, prop, err := ip.property(args)
	if err != nil {
		return nil, err
	}
	ip.Out.PrintObject(events.Tracker{
		Owner:     src,
		OwnerName: args.Get("src"),
		Property:  prop,
		Delete:    remove,
	})
	return nil, nil
}

// property resolves the src and property arguments of the tracking commands.
func (ip *Interpreter) property(args parser.Args) (*world.Entity, string, error) {
	src, err := ip.Names.Resolve(args.Get("src"))
	if err != nil {
		return nil, "", err
	}
	prop := args.Get("property")
	if _, ok := world.ReadProperty(src, prop); !ok {
		return nil, "", diag.Errorf(diag.Resolution, "property '%s' does not exist", prop).
			Suggest(prop, world.PropertyNames(src), diag.PropertyThreshold)
	}
	return src, prop, nil
}

func untrackAllCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	name := args.Get("src")
	if name == all {
		ip.Out.PrintObject(events.Tracker{OwnerName: events.AllOwners, Delete: true})
		return nil, nil
	}
	src, err := ip.Names.Resolve(name)
	if err != nil {
		return nil, err
	}
	ip.Out.PrintObject(events.Tracker{Owner: src, OwnerName: name, Delete: true})
	return nil, nil
}

func clearLocalCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	name := args.Get("entity")
	if name == all {
		ip.Names.ClearAll()
		return nil, nil
	}
	ip.Names.Clear(name)
	return nil, nil
}

func importFactoryCmd(ip *Interpreter, args parser.Args) (*world.Interaction, error) {
	owner, err := ownerID(args)
	if err != nil {
		return nil, err
	}
	found := ip.World.FindByCapability(owner, types.Producer)
	if len(found) == 0 {
		return nil, diag.Errorf(diag.Resolution, "player %d has no production building", owner)
	}
	if err := ip.Names.Bind(args.Get("name"), found[0]); err != nil {
		return nil, diag.Errorf(diag.Resolution, "%v", err)
	}
	return nil, nil
}

func point(args parser.Args) (types.Point, error) {
	x, _, err := parser.Int("x", args.Get("x"))
	if err != nil {
		return types.Point{}, err
	}
	y, _, err := parser.Int("y", args.Get("y"))
	if err != nil {
		return types.Point{}, err
	}
	return types.Point{X: x, Y: y}, nil
}

func ownerID(args parser.Args) (int, error) {
	id, _, err := parser.Int("ownerId", args.Get("ownerId"))
	return id, err
}
