// Package events formats world events for display and keeps the board of
// property trackers requested by scripts.
package events

import (
	"fmt"
	"sort"

	"github.com/nathoo/skirmish/types"
)

// Format renders a world event as one console line.
func Format(ev types.Event) string {
	d := ev.Data
	switch ev.Type {
	case "damage":
		return fmt.Sprintf("-%v HP: #%v hits #%v at (%v,%v)", d["amount"], d["source"], d["target"], d["x"], d["y"])
	case "entity_removed":
		return fmt.Sprintf("#%v (%v) is destroyed", d["entity"], d["type"])
	case "entity_spawned":
		return fmt.Sprintf("#%v (%v) appears at (%v,%v)", d["entity"], d["type"], d["x"], d["y"])
	case "entity_crossed":
		return fmt.Sprintf("#%v crosses #%v at (%v,%v)", d["mover"], d["entity"], d["x"], d["y"])
	case "bonus_collected":
		return fmt.Sprintf("player %v collects %v gold", d["player"], d["gold"])
	case "turn_started":
		return fmt.Sprintf("turn of player %v", d["player"])
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ev.Type
	for _, k := range keys {
		s += fmt.Sprintf(" %s=%v", k, d[k])
	}
	return s
}
