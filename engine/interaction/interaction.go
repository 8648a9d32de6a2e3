// Package interaction builds, validates, applies and executes world
// interactions. Construction and validation are pure; Apply mutates the
// world; Step advances queued interactions over time.
package interaction

import (
	"math"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// OccupantQuery is the slice of the world NewAttack needs.
type OccupantQuery interface {
	Occupants(p types.Point) []*world.Entity
}

// NewMove builds a move of e along tr.
func NewMove(e *world.Entity, tr *trajectory.Trajectory) (*world.Interaction, error) {
	if e == nil {
		return nil, diag.Errorf(diag.Domain, "move: no entity")
	}
	if tr == nil {
		return nil, diag.Errorf(diag.Domain, "move: no trajectory")
	}
	return &world.Interaction{Kind: world.Move, Src: e, Trajectory: tr}, nil
}

// NewSpawn builds the placement of toSpawn at `at`, requested by src.
// src and toSpawn are the same entity when a building places itself.
func NewSpawn(src, toSpawn *world.Entity, at types.Point, name string) (*world.Interaction, error) {
	if src == nil {
		return nil, diag.Errorf(diag.Domain, "spawn: no source entity")
	}
	if toSpawn == nil {
		return nil, diag.Errorf(diag.Domain, "spawn: no entity to spawn")
	}
	return &world.Interaction{
		Kind:  world.SpawnEntity,
		Src:   src,
		Spawn: &world.SpawnSpec{Entity: toSpawn, At: at, Name: name},
	}, nil
}

// NewAttack targets the first occupant of `at` that can be attacked and
// belongs to someone other than src's owner.
func NewAttack(q OccupantQuery, src *world.Entity, at types.Point) (*world.Interaction, error) {
	if src == nil {
		return nil, diag.Errorf(diag.Domain, "attack: no source entity")
	}
	for _, occ := range q.Occupants(at) {
		if occ.Caps.Has(types.Targetable) && occ.Owner() != src.Owner() {
			return &world.Interaction{Kind: world.Attack, Src: src, Dst: occ}, nil
		}
	}
	return nil, diag.Errorf(diag.Domain, "attack: no valid target at %v", at)
}

// Check explains why in cannot be applied right now, or returns nil.
func Check(w *world.World, in *world.Interaction) error {
	switch in.Kind {
	case world.Move:
		if n := in.Trajectory.Len(); n > in.Src.RemainingMP {
			return diag.Errorf(diag.Apply, "not enough move points: path costs %d, %d remaining", n, in.Src.RemainingMP)
		}
	case world.SpawnEntity:
		sp := in.Spawn
		if gold, cost := w.Gold(in.Src.Owner()), sp.Entity.Cost; gold < cost {
			return diag.Errorf(diag.Apply, "not enough gold: %s costs %d, player %d has %d", sp.Entity.Type, cost, in.Src.Owner(), gold)
		}
		if in.Src.Tile().DistanceSquared(sp.At) > 1 {
			return diag.Errorf(diag.Apply, "spawn target %v is not next to %v", sp.At, in.Src.Tile())
		}
		if !w.Crossable(sp.At) {
			return diag.Errorf(diag.Apply, "spawn target %v is not crossable", sp.At)
		}
		if in.Src.ActionDone {
			return diag.Errorf(diag.Apply, "%v has already acted this turn", in.Src)
		}
	case world.Attack:
		if in.Dst == nil || in.Dst.Dead() {
			return diag.Errorf(diag.Apply, "attack target is missing or dead")
		}
		if in.Src.ActionDone || queuedAttack(in.Src, in) {
			return diag.Errorf(diag.Apply, "%v has already acted this turn", in.Src)
		}
		if d := Distance(in.Src.EndOfQueue(), in.Dst.EndOfQueue()); !in.Src.Range.Contains(d) {
			return diag.Errorf(diag.Apply, "target at distance %.2f is outside range [%g, %g]", d, in.Src.Range.Min, in.Src.Range.Max)
		}
	}
	return nil
}

// queuedAttack reports whether e has an attack other than in waiting in its
// queue. The action flag is only set once an attack executes.
func queuedAttack(e *world.Entity, in *world.Interaction) bool {
	for _, q := range e.Queue {
		if q != in && q.Kind == world.Attack && !q.Ended {
			return true
		}
	}
	return false
}

// IsPossible reports whether in passes validation.
func IsPossible(w *world.World, in *world.Interaction) bool {
	return Check(w, in) == nil
}

// Distance is the Euclidean distance between two cells, in tiles.
func Distance(a, b types.Point) float64 {
	return math.Sqrt(float64(a.DistanceSquared(b)))
}
