package trajectory

import (
	"fmt"

	"github.com/nathoo/skirmish/types"
)

// Planner produces a path between two cells.
type Planner interface {
	Plan(from, to types.Point) (*Trajectory, error)
}

// StraightPlanner plans straight orthogonal paths. It never fails.
type StraightPlanner struct{}

func (StraightPlanner) Plan(from, to types.Point) (*Trajectory, error) {
	return Straight(from, to), nil
}

// GridPlanner plans with AStar over a grid.
type GridPlanner struct {
	Grid Grid
}

func (p GridPlanner) Plan(from, to types.Point) (*Trajectory, error) {
	return AStar(p.Grid, from, to)
}

// PlannerFor maps a configuration name to a planner. The grid is only
// used by "astar".
func PlannerFor(name string, g Grid) (Planner, error) {
	switch name {
	case "", "straight":
		return StraightPlanner{}, nil
	case "astar":
		return GridPlanner{Grid: g}, nil
	default:
		return nil, fmt.Errorf("unknown pathfinding mode %q", name)
	}
}
