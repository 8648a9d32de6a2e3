package world

import (
	"sort"

	"github.com/nathoo/skirmish/types"
)

// Property is a named, read-only view of one entity field.
type Property struct {
	Name string
	Get  func(*Entity) any
}

// Properties is the fixed registry of readable entity properties, in the
// order used for suggestions.
var Properties = []Property{
	{"HP", func(e *Entity) any { return e.HP }},
	{"Armor", func(e *Entity) any { return e.Armor }},
	{"Attack", func(e *Entity) any { return e.Attack }},
	{"OwnerId", func(e *Entity) any { return e.Owner() }},
	{"Type", func(e *Entity) any { return e.Type }},
	{"BaseMovePoints", func(e *Entity) any { return e.BaseMP }},
	{"RemainingMovePoints", func(e *Entity) any { return e.RemainingMP }},
	{"ActionDone", func(e *Entity) any { return e.ActionDone }},
	{"IsDead", func(e *Entity) any { return e.Dead() }},
	{"TilemapPosition", func(e *Entity) any { return e.Tile() }},
	{"EndOfQueuePosition", func(e *Entity) any { return e.EndOfQueue() }},
	{"Position", func(e *Entity) any { return e.Display }},
	{"GoldCost", func(e *Entity) any { return e.Cost }},
	{"MinRange", func(e *Entity) any { return e.Range.Min }},
	{"MaxRange", func(e *Entity) any { return e.Range.Max }},
	{"QueueLength", func(e *Entity) any { return len(e.Queue) }},
	{"IsCrossable", func(e *Entity) any { return e.Caps.Has(types.Crossable) }},
}

// PropertyNames lists the properties readable on e: the registry first,
// then e's catalog extras in name order.
func PropertyNames(e *Entity) []string {
	names := make([]string, 0, len(Properties)+len(e.extra))
	for _, p := range Properties {
		names = append(names, p.Name)
	}
	extra := make([]string, 0, len(e.extra))
	for k := range e.extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// ReadProperty returns the named property of e.
func ReadProperty(e *Entity, name string) (any, bool) {
	for _, p := range Properties {
		if p.Name == name {
			return p.Get(e), true
		}
	}
	return e.Extra(name)
}
