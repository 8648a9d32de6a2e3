package events

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/world"
)

// AllOwners is the owner name that matches every tracker.
const AllOwners = "all"

// Tracker is a standing request to report one entity property. With
// Delete set it instead asks the board to drop matching trackers.
type Tracker struct {
	Owner     *world.Entity
	OwnerName string
	Property  string // empty matches any property
	Delete    bool
}

// Match reports whether a and b refer to the same owner and property.
// The "all" owner and an empty property act as wildcards.
func Match(a, b Tracker) bool {
	ownerOK := a.OwnerName == AllOwners || b.OwnerName == AllOwners || a.Owner == b.Owner
	propOK := a.Property == "" || b.Property == "" || a.Property == b.Property
	return ownerOK && propOK
}

// Board holds active trackers. It receives them as output objects, so it
// can be attached to an output.Multiplexer directly.
type Board struct {
	trackers []Tracker
}

// Apply adds t, or removes every tracker matching t when t.Delete is set.
// Adding a tracker that is already present is a no-op.
func (b *Board) Apply(t Tracker) {
	if t.Delete {
		kept := b.trackers[:0]
		for _, cur := range b.trackers {
			if !Match(cur, t) {
				kept = append(kept, cur)
			}
		}
		b.trackers = kept
		return
	}
	for _, cur := range b.trackers {
		if cur.Owner == t.Owner && cur.Property == t.Property {
			return
		}
	}
	b.trackers = append(b.trackers, t)
}

// Trackers returns the active trackers in insertion order.
func (b *Board) Trackers() []Tracker {
	out := make([]Tracker, len(b.trackers))
	copy(out, b.trackers)
	return out
}

// Lines renders every tracker as "name.Property = value".
func (b *Board) Lines() []string {
	lines := make([]string, 0, len(b.trackers))
	for _, t := range b.trackers {
		lines = append(lines, t.String())
	}
	return lines
}

func (t Tracker) String() string {
	if t.Owner == nil {
		return fmt.Sprintf("%s.%s = ?", t.OwnerName, t.Property)
	}
	v, ok := world.ReadProperty(t.Owner, t.Property)
	if !ok {
		return fmt.Sprintf("%s.%s = ?", t.OwnerName, t.Property)
	}
	if t.Owner.Dead() {
		return fmt.Sprintf("%s.%s = %v (dead)", t.OwnerName, t.Property, v)
	}
	return fmt.Sprintf("%s.%s = %v", t.OwnerName, t.Property, v)
}

// Print, PrintError and PrintStatus are ignored; the board only cares
// about trackers.
func (b *Board) Print(string) {}

func (b *Board) PrintError(string) {}

func (b *Board) PrintStatus(string) {}

// PrintObject applies obj if it is a tracker.
func (b *Board) PrintObject(obj any) {
	switch t := obj.(type) {
	case Tracker:
		b.Apply(t)
	case *Tracker:
		b.Apply(*t)
	}
}
