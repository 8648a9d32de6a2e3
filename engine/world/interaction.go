package world

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/types"
)

// Kind discriminates interactions.
type Kind int

const (
	None Kind = iota
	Move
	Teleport
	Attack
	SpawnEntity
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case Teleport:
		return "teleport"
	case Attack:
		return "attack"
	case SpawnEntity:
		return "spawn"
	default:
		return "none"
	}
}

// SpawnSpec carries the fields of a SpawnEntity interaction.
type SpawnSpec struct {
	Entity *Entity
	At     types.Point
	Name   string
}

// Interaction is one discrete game action. The kind decides which of
// Trajectory, Spawn and Dst are meaningful.
type Interaction struct {
	Kind       Kind
	Src        *Entity
	Dst        *Entity
	Trajectory *trajectory.Trajectory
	Spawn      *SpawnSpec
	Ended      bool
	Line       int
}

func (in *Interaction) String() string {
	switch in.Kind {
	case Move:
		return fmt.Sprintf("move %v %v", in.Src, in.Trajectory.Points())
	case Attack:
		return fmt.Sprintf("attack %v -> %v", in.Src, in.Dst)
	case SpawnEntity:
		return fmt.Sprintf("spawn %s at %v by %v", in.Spawn.Entity.Type, in.Spawn.At, in.Src)
	default:
		return in.Kind.String()
	}
}
