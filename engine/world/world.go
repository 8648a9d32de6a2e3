package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/types"
)

// ErrOutOfBounds is returned for positions outside the map.
var ErrOutOfBounds = errors.New("position out of map bounds")

// ErrNotPlaced is returned when an operation needs an entity on the map.
var ErrNotPlaced = errors.New("entity is not on the map")

// Player holds the per-player economy.
type Player struct {
	ID   int
	Name string
	Gold int
}

// World is the tile map and everything standing on it.
type World struct {
	Width   int
	Height  int
	Catalog *Catalog

	// Crossed, if set, is called after an entity walks onto a tile, once
	// for every other occupant of that tile.
	Crossed func(mover, occupant *Entity)

	cells    [][]*Entity
	entities []*Entity
	players  map[int]*Player
	nextID   int
	events   []types.Event
}

// New creates an empty width×height map.
func New(width, height int, catalog *Catalog) *World {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &World{
		Width:   width,
		Height:  height,
		Catalog: catalog,
		cells:   make([][]*Entity, width*height),
		players: map[int]*Player{},
		nextID:  1,
	}
}

// InBounds reports whether p is on the map.
func (w *World) InBounds(p types.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.Width && p.Y < w.Height
}

func (w *World) index(p types.Point) int { return p.Y*w.Width + p.X }

// Occupants returns the entities on tile p, in arrival order.
func (w *World) Occupants(p types.Point) []*Entity {
	if !w.InBounds(p) {
		return nil
	}
	cell := w.cells[w.index(p)]
	out := make([]*Entity, len(cell))
	copy(out, cell)
	return out
}

// Crossable reports whether p is on the map and every occupant can be
// walked over.
func (w *World) Crossable(p types.Point) bool {
	if !w.InBounds(p) {
		return false
	}
	for _, e := range w.cells[w.index(p)] {
		if !e.Caps.Has(types.Crossable) {
			return false
		}
	}
	return true
}

// Grid exposes the map to the A* planner.
func (w *World) Grid() trajectory.Grid {
	return trajectory.Grid{Width: w.Width, Height: w.Height, Passable: w.Crossable}
}

// Spawn places e on tile p and gives it an id.
func (w *World) Spawn(e *Entity, p types.Point) error {
	if !w.InBounds(p) {
		return fmt.Errorf("spawn %s at %v: %w", e.Type, p, ErrOutOfBounds)
	}
	if e.placed {
		return fmt.Errorf("spawn %s: already placed at %v", e.Type, e.tile)
	}
	e.ID = w.nextID
	w.nextID++
	e.tile = p
	e.Display = types.VecOf(p)
	e.placed = true
	e.removed = false
	i := w.index(p)
	w.cells[i] = append(w.cells[i], e)
	w.entities = append(w.entities, e)
	w.Emit("entity_spawned", map[string]any{"entity": e.ID, "type": e.Type, "x": p.X, "y": p.Y})
	return nil
}

// Relocate moves e's tile membership to p.
func (w *World) Relocate(e *Entity, p types.Point) error {
	if !e.Placed() {
		return fmt.Errorf("relocate %v: %w", e, ErrNotPlaced)
	}
	if !w.InBounds(p) {
		return fmt.Errorf("relocate %v to %v: %w", e, p, ErrOutOfBounds)
	}
	w.detach(e)
	e.tile = p
	i := w.index(p)
	w.cells[i] = append(w.cells[i], e)
	return nil
}

// Remove takes e off the map and drops its pending interactions.
func (w *World) Remove(e *Entity) {
	if !e.Placed() {
		return
	}
	w.detach(e)
	for i, cur := range w.entities {
		if cur == e {
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			break
		}
	}
	e.removed = true
	e.Queue = nil
	w.Emit("entity_removed", map[string]any{"entity": e.ID, "type": e.Type})
}

func (w *World) detach(e *Entity) {
	i := w.index(e.tile)
	cell := w.cells[i]
	for j, cur := range cell {
		if cur == e {
			w.cells[i] = append(cell[:j], cell[j+1:]...)
			return
		}
	}
}

// Entities returns every entity on the map in spawn order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, len(w.entities))
	copy(out, w.entities)
	return out
}

// Dynamic returns the entities that carry interaction queues.
func (w *World) Dynamic() []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.Caps.Has(types.Dynamic) {
			out = append(out, e)
		}
	}
	return out
}

// FindByCapability returns owner's entities that have every bit of caps.
func (w *World) FindByCapability(owner int, caps types.Capability) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.Owner() == owner && e.Caps.Has(caps) {
			out = append(out, e)
		}
	}
	return out
}

// EntityByID looks up a placed entity.
func (w *World) EntityByID(id int) (*Entity, bool) {
	for _, e := range w.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// AddPlayer registers or replaces a player.
func (w *World) AddPlayer(p Player) *Player {
	pp := &p
	w.players[p.ID] = pp
	return pp
}

// Player looks up a player by id.
func (w *World) Player(id int) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Gold returns a player's gold, or 0 for unknown players.
func (w *World) Gold(id int) int {
	if p, ok := w.players[id]; ok {
		return p.Gold
	}
	return 0
}

// Players returns all players ordered by id.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TurnStarted refreshes move points and action flags of the player's
// dynamic entities.
func (w *World) TurnStarted(player int) {
	for _, e := range w.entities {
		if e.Owner() == player && e.Caps.Has(types.Dynamic) {
			e.ResetMovePoints()
			e.ActionDone = false
		}
	}
	w.Emit("turn_started", map[string]any{"player": player})
}

// NotifyCrossed reports that mover has just entered tile p. Occupants
// carrying a reward pay it to the mover's owner and leave the map.
func (w *World) NotifyCrossed(mover *Entity, p types.Point) {
	for _, occ := range w.Occupants(p) {
		if occ == mover {
			continue
		}
		w.Emit("entity_crossed", map[string]any{"mover": mover.ID, "entity": occ.ID, "x": p.X, "y": p.Y})
		if w.Crossed != nil {
			w.Crossed(mover, occ)
		}
		if occ.Reward > 0 && mover.Owner() != types.NeutralOwner {
			if pl, ok := w.players[mover.Owner()]; ok {
				pl.Gold += occ.Reward
				w.Emit("bonus_collected", map[string]any{"player": pl.ID, "gold": occ.Reward})
			}
			w.Remove(occ)
		}
	}
}

// Emit records a world event.
func (w *World) Emit(kind string, data map[string]any) {
	w.events = append(w.events, types.Event{Type: kind, Data: data})
}

// DrainEvents returns and clears the pending events.
func (w *World) DrainEvents() []types.Event {
	out := w.events
	w.events = nil
	return out
}
