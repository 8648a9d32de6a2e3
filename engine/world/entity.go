// Package world holds the tile map, its entities and players, and the
// interaction value type queued on entities. Every mutation that changes
// which tile an entity occupies goes through World so that tile
// membership and the entity's own position never disagree.
package world

import (
	"errors"
	"fmt"

	"github.com/nathoo/skirmish/types"
)

// ErrNeutralOwner is returned when assigning a player to a neutral entity.
var ErrNeutralOwner = errors.New("neutral entities cannot be owned")

// Range is an inclusive attack distance window, in tiles.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether d lies within the window.
func (r Range) Contains(d float64) bool {
	return d >= r.Min && d <= r.Max
}

// Entity is a unit, building, or terrain piece living on the tile map.
type Entity struct {
	ID   int
	Type string
	Caps types.Capability

	HP       int
	Armor    int
	Attack   int
	Variance int // extra damage die; 0 for none
	Reward   int // gold granted to whoever crosses this entity

	BaseMP      int
	RemainingMP int
	Range       Range
	Cost        int
	ActionDone  bool

	// Display is the interpolated, presentation-only position.
	Display types.Vec

	// Queue holds applied interactions in execution order.
	Queue []*Interaction

	owner   int
	tile    types.Point
	placed  bool
	removed bool
	extra   map[string]any
}

// Owner returns the owning player id, or types.NeutralOwner.
func (e *Entity) Owner() int {
	if e.Caps.Has(types.Neutral) {
		return types.NeutralOwner
	}
	return e.owner
}

// SetOwner assigns the entity to a player. Neutral entities only accept
// types.NeutralOwner.
func (e *Entity) SetOwner(id int) error {
	if e.Caps.Has(types.Neutral) {
		if id != types.NeutralOwner {
			return fmt.Errorf("entity %d (%s): %w", e.ID, e.Type, ErrNeutralOwner)
		}
		return nil
	}
	e.owner = id
	return nil
}

// Tile is the authoritative grid cell the entity belongs to.
func (e *Entity) Tile() types.Point { return e.tile }

// EndOfQueue is where the entity will stand once its queue drains. It
// shares storage with Tile: applying a move relocates the entity at once
// and only the display position lags behind.
func (e *Entity) EndOfQueue() types.Point { return e.tile }

// Stage sets where an entity that is not yet on the map will appear, so
// that later planning can start from there. It fails once placed.
func (e *Entity) Stage(p types.Point) error {
	if e.Placed() {
		return fmt.Errorf("stage %v: already on the map", e)
	}
	e.tile = p
	return nil
}

// Dead reports whether the entity has run out of hit points or has left
// the world.
func (e *Entity) Dead() bool {
	return e.removed || (e.Caps.Has(types.Targetable) && !e.Caps.Has(types.Invincible) && e.HP <= 0)
}

// Placed reports whether the entity is currently on the map.
func (e *Entity) Placed() bool { return e.placed && !e.removed }

// Extra returns a catalog-declared property that has no built-in field.
func (e *Entity) Extra(name string) (any, bool) {
	v, ok := e.extra[name]
	return v, ok
}

// ResetMovePoints restores the full move allowance.
func (e *Entity) ResetMovePoints() { e.RemainingMP = e.BaseMP }

// Enqueue appends in to the entity's interaction queue.
func (e *Entity) Enqueue(in *Interaction) {
	e.Queue = append(e.Queue, in)
}

// Head returns the interaction currently executing, or nil.
func (e *Entity) Head() *Interaction {
	if len(e.Queue) == 0 {
		return nil
	}
	return e.Queue[0]
}

// Dequeue drops the head interaction if it has ended. It returns true when
// something was removed.
func (e *Entity) Dequeue() bool {
	if len(e.Queue) == 0 || !e.Queue[0].Ended {
		return false
	}
	e.Queue[0] = nil
	e.Queue = e.Queue[1:]
	return true
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d@%v", e.Type, e.ID, e.tile)
}
