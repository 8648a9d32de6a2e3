package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
	"gopkg.in/yaml.v3"
)

// MapDef is the decoded map.yaml. Rows are read top to bottom and each
// rune of a row is a legend key.
type MapDef struct {
	Name       string              `yaml:"name"`
	Players    []PlayerDef         `yaml:"players"`
	Legend     map[string][]string `yaml:"legend"`
	Rows       []string            `yaml:"rows"`
	Placements []Placement         `yaml:"placements"`
}

// PlayerDef declares one player.
type PlayerDef struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Gold int    `yaml:"gold"`
}

// Placement puts one entity on the map at load. A named placement is
// bound in the script name table.
type Placement struct {
	Type  string `yaml:"type"`
	Owner int    `yaml:"owner"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Name  string `yaml:"name"`
}

// Width is the rune length of the first row.
func (m *MapDef) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return utf8.RuneCountInString(m.Rows[0])
}

// Height is the number of rows.
func (m *MapDef) Height() int { return len(m.Rows) }

// LoadMap reads a map file.
func LoadMap(path string) (*MapDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map: open %q: %w", path, err)
	}
	defer f.Close()

	m, err := ParseMap(f)
	if err != nil {
		return nil, fmt.Errorf("map: parse %q: %w", path, err)
	}
	return m, nil
}

// ParseMap decodes a map from r. Unknown fields are errors.
func ParseMap(r io.Reader) (*MapDef, error) {
	m := &MapDef{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("map: empty document")
		}
		return nil, fmt.Errorf("map: decode yaml: %w", err)
	}
	return m, nil
}

// BuildWorld creates the world described by g: players, the terrain of
// every cell, then the placements in file order. Named placements are
// bound in the returned table.
func (g *Game) BuildWorld() (*world.World, *resolve.Table, error) {
	m := g.Map
	w := world.New(m.Width(), m.Height(), g.Catalog)
	for _, p := range m.Players {
		w.AddPlayer(world.Player{ID: p.ID, Name: p.Name, Gold: p.Gold})
	}

	// 1. Terrain.
	for y, row := range m.Rows {
		x := 0
		for _, ch := range row {
			for _, typeName := range m.Legend[string(ch)] {
				e, ok := g.Catalog.New(typeName)
				if !ok {
					return nil, nil, fmt.Errorf("cell (%d,%d): unknown type %q", x, y, typeName)
				}
				if err := w.Spawn(e, types.Point{X: x, Y: y}); err != nil {
					return nil, nil, err
				}
			}
			x++
		}
	}

	// 2. Placements.
	names := resolve.NewTable()
	for i, pl := range m.Placements {
		e, ok := g.Catalog.New(pl.Type)
		if !ok {
			return nil, nil, fmt.Errorf("placement %d: unknown type %q", i, pl.Type)
		}
		if !e.Caps.Has(types.Neutral) {
			if err := e.SetOwner(pl.Owner); err != nil {
				return nil, nil, fmt.Errorf("placement %d: %w", i, err)
			}
		}
		if err := w.Spawn(e, types.Point{X: pl.X, Y: pl.Y}); err != nil {
			return nil, nil, fmt.Errorf("placement %d: %w", i, err)
		}
		if pl.Name != "" {
			if err := names.Bind(pl.Name, e); err != nil {
				return nil, nil, fmt.Errorf("placement %d: %w", i, err)
			}
		}
	}

	// Loading is not gameplay.
	w.DrainEvents()
	return w, names, nil
}
