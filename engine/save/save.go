// Package save implements JSON serialization and deserialization of a
// world snapshot. Queued interactions are not saved; tile positions are.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// FormatVersion is written into every save.
const FormatVersion = 1

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     int           `json:"version"`
	Game        string        `json:"game"`
	Turn        int           `json:"turn"`
	Current     int           `json:"current_player"`
	RNGSeed     int64         `json:"rng_seed"`
	RNGPosition int64         `json:"rng_position"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Players     []PlayerState `json:"players"`
	Entities    []EntityState `json:"entities"`
}

// PlayerState is one saved player.
type PlayerState struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Gold int    `json:"gold"`
}

// EntityState is one saved entity. Static stats come back from the
// catalog on restore; only what play changes is stored.
type EntityState struct {
	Type        string   `json:"type"`
	Owner       int      `json:"owner"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	HP          int      `json:"hp"`
	RemainingMP int      `json:"remaining_mp"`
	ActionDone  bool     `json:"action_done,omitempty"`
	Names       []string `json:"names,omitempty"`
}

// Snapshot is everything Save needs.
type Snapshot struct {
	Game        string
	World       *world.World
	Names       *resolve.Table
	Turn        int
	Current     int
	RNGSeed     int64
	RNGPosition int64
}

// Save serializes a snapshot to JSON bytes.
func Save(s Snapshot) ([]byte, error) {
	if s.World == nil {
		return nil, fmt.Errorf("save: no world")
	}
	data := SaveData{
		Version:     FormatVersion,
		Game:        s.Game,
		Turn:        s.Turn,
		Current:     s.Current,
		RNGSeed:     s.RNGSeed,
		RNGPosition: s.RNGPosition,
		Width:       s.World.Width,
		Height:      s.World.Height,
	}
	for _, p := range s.World.Players() {
		data.Players = append(data.Players, PlayerState{ID: p.ID, Name: p.Name, Gold: p.Gold})
	}

	names := map[*world.Entity][]string{}
	if s.Names != nil {
		for _, n := range s.Names.Names() {
			if e, ok := s.Names.Lookup(n); ok {
				names[e] = append(names[e], n)
			}
		}
	}
	for _, e := range s.World.Entities() {
		tile := e.Tile()
		data.Entities = append(data.Entities, EntityState{
			Type:        e.Type,
			Owner:       e.Owner(),
			X:           tile.X,
			Y:           tile.Y,
			HP:          e.HP,
			RemainingMP: e.RemainingMP,
			ActionDone:  e.ActionDone,
			Names:       names[e],
		})
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version > FormatVersion {
		return nil, fmt.Errorf("save format %d is newer than supported %d", sd.Version, FormatVersion)
	}
	// Ensure slices are never nil after load.
	if sd.Players == nil {
		sd.Players = []PlayerState{}
	}
	if sd.Entities == nil {
		sd.Entities = []EntityState{}
	}
	return &sd, nil
}

// Restore rebuilds a world and its name table from loaded data.
func Restore(sd *SaveData, catalog *world.Catalog) (*world.World, *resolve.Table, error) {
	w := world.New(sd.Width, sd.Height, catalog)
	for _, p := range sd.Players {
		w.AddPlayer(world.Player{ID: p.ID, Name: p.Name, Gold: p.Gold})
	}

	names := resolve.NewTable()
	for i, es := range sd.Entities {
		e, ok := w.Catalog.New(es.Type)
		if !ok {
			return nil, nil, fmt.Errorf("entity %d: unknown type %q", i, es.Type)
		}
		if !e.Caps.Has(types.Neutral) {
			if err := e.SetOwner(es.Owner); err != nil {
				return nil, nil, fmt.Errorf("entity %d: %w", i, err)
			}
		}
		e.HP = es.HP
		e.RemainingMP = es.RemainingMP
		e.ActionDone = es.ActionDone
		if err := w.Spawn(e, types.Point{X: es.X, Y: es.Y}); err != nil {
			return nil, nil, fmt.Errorf("entity %d: %w", i, err)
		}
		for _, n := range es.Names {
			if err := names.Bind(n, e); err != nil {
				return nil, nil, fmt.Errorf("entity %d: %w", i, err)
			}
		}
	}
	// Restoring is not gameplay.
	w.DrainEvents()
	return w, names, nil
}
