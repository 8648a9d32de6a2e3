package world

import (
	"fmt"

	"github.com/nathoo/skirmish/types"
)

// Constructor builds a fresh, unplaced entity of one type.
type Constructor func() *Entity

// Template describes an entity type declaratively. Catalog files are
// compiled into templates.
type Template struct {
	Name     string
	Caps     types.Capability
	HP       int
	Armor    int
	Attack   int
	Variance int
	Reward   int
	MP       int
	Range    Range
	Cost     int
	Extra    map[string]any
}

// New builds an entity from the template.
func (t Template) New() *Entity {
	e := &Entity{
		Type:        t.Name,
		Caps:        t.Caps,
		HP:          t.HP,
		Armor:       t.Armor,
		Attack:      t.Attack,
		Variance:    t.Variance,
		Reward:      t.Reward,
		BaseMP:      t.MP,
		RemainingMP: t.MP,
		Range:       t.Range,
		Cost:        t.Cost,
		owner:       types.NeutralOwner,
	}
	if len(t.Extra) > 0 {
		e.extra = make(map[string]any, len(t.Extra))
		for k, v := range t.Extra {
			e.extra[k] = v
		}
	}
	return e
}

// Catalog maps entity type names to constructors.
type Catalog struct {
	ctors map[string]Constructor
	names []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{ctors: map[string]Constructor{}}
}

// Register adds a constructor under name.
func (c *Catalog) Register(name string, ctor Constructor) error {
	if _, dup := c.ctors[name]; dup {
		return fmt.Errorf("entity type %q registered twice", name)
	}
	c.ctors[name] = ctor
	c.names = append(c.names, name)
	return nil
}

// RegisterTemplate registers t under its own name.
func (c *Catalog) RegisterTemplate(t Template) error {
	return c.Register(t.Name, t.New)
}

// New builds an entity of the named type.
func (c *Catalog) New(name string) (*Entity, bool) {
	ctor, ok := c.ctors[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names lists registered types in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Built-in entity types.
var (
	Soldier = Template{
		Name: "SoldierEntity", Caps: types.Targetable | types.Dynamic,
		HP: 4, Attack: 2, MP: 20, Range: Range{Min: 1, Max: 5}, Cost: 100,
	}
	Factory = Template{
		Name: "FactoryEntity", Caps: types.Targetable | types.Dynamic | types.Producer,
		HP: 10, MP: 200,
	}
	Bonus = Template{
		Name: "BonusEntity", Caps: types.Dynamic | types.Crossable | types.Neutral,
		Reward: 50,
	}
	Ground = Template{
		Name: "GroundEntity", Caps: types.Neutral | types.Invincible | types.Crossable,
	}
	Water = Template{
		Name: "WaterEntity", Caps: types.Neutral | types.Invincible,
	}
	Mountain = Template{
		Name: "MountainEntity", Caps: types.Neutral | types.Invincible,
	}
)

// DefaultCatalog returns a catalog holding the built-in types.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, t := range []Template{Soldier, Factory, Bonus, Ground, Water, Mountain} {
		if err := c.RegisterTemplate(t); err != nil {
			panic(err)
		}
	}
	return c
}
