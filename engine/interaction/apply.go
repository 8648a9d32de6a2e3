package interaction

import (
	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// Apply commits in to the world. Moves and attacks are queued on their
// source; spawns take effect at once. Every failure is a diag.Apply error.
func Apply(w *world.World, in *world.Interaction, planner trajectory.Planner) error {
	switch in.Kind {
	case world.Move:
		return applyMove(w, in, planner)
	case world.Attack:
		return applyAttack(w, in)
	case world.SpawnEntity:
		return applySpawn(w, in)
	}
	return nil
}

func applyMove(w *world.World, in *world.Interaction, planner trajectory.Planner) error {
	src := in.Src
	if !src.Placed() {
		return diag.Errorf(diag.Apply, "cannot move %v: not on the map", src)
	}

	// 1. The path was planned at compile time; re-plan if earlier moves
	// changed where the entity will start from.
	if start := src.EndOfQueue(); in.Trajectory.First() != start {
		if planner == nil {
			planner = trajectory.StraightPlanner{}
		}
		tr, err := planner.Plan(start, in.Trajectory.Last())
		if err != nil {
			return diag.Errorf(diag.Apply, "cannot plan move of %v: %v", src, err)
		}
		in.Trajectory = tr
	}

	// 2. Bounds and legality.
	dest := in.Trajectory.Last()
	if !w.InBounds(dest) {
		return diag.Errorf(diag.Apply, "move destination %v is out of map bounds", dest)
	}
	if err := Check(w, in); err != nil {
		return err
	}

	// 3. Commit: tile membership and end-of-queue move together; the
	// display position catches up while the move executes.
	if err := w.Relocate(src, dest); err != nil {
		return diag.Errorf(diag.Apply, "%v", err)
	}
	src.RemainingMP -= in.Trajectory.Len()
	in.Trajectory.Reset()
	src.Enqueue(in)
	return nil
}

func applyAttack(w *world.World, in *world.Interaction) error {
	if err := Check(w, in); err != nil {
		return err
	}
	in.Src.Enqueue(in)
	return nil
}

func applySpawn(w *world.World, in *world.Interaction) error {
	src, sp := in.Src, in.Spawn
	if !w.InBounds(sp.At) {
		return diag.Errorf(diag.Apply, "spawn position %v is out of map bounds", sp.At)
	}
	if !w.Crossable(sp.At) {
		return diag.Errorf(diag.Apply, "spawn target %v is not crossable", sp.At)
	}

	self := src == sp.Entity
	if !self {
		if err := Check(w, in); err != nil {
			return err
		}
	}
	if err := w.Spawn(sp.Entity, sp.At); err != nil {
		return diag.Errorf(diag.Apply, "%v", err)
	}
	if !self && src.Caps.Has(types.Producer) {
		if p, ok := w.Player(src.Owner()); ok {
			p.Gold -= sp.Entity.Cost
		}
		src.ActionDone = true
	}
	return nil
}
