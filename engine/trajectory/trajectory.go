// Package trajectory holds unit-step grid paths and the planners that
// produce them.
package trajectory

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/skirmish/types"
)

// ErrNotAdjacent is returned when two consecutive waypoints are not one
// grid step apart.
var ErrNotAdjacent = errors.New("waypoints are not adjacent")

// Trajectory is an ordered path of grid cells, each one step from the last,
// with a fractional progress counter used for animation.
type Trajectory struct {
	points   []types.Point
	progress float64
}

// New validates points and returns a trajectory over them.
func New(points []types.Point) (*Trajectory, error) {
	for i := 1; i < len(points); i++ {
		if points[i-1].Manhattan(points[i]) != 1 {
			return nil, fmt.Errorf("trajectory: %v -> %v at %d: %w", points[i-1], points[i], i, ErrNotAdjacent)
		}
	}
	cp := make([]types.Point, len(points))
	copy(cp, points)
	return &Trajectory{points: cp}, nil
}

// MustNew is New for paths produced by a planner. It panics on a bad path.
func MustNew(points []types.Point) *Trajectory {
	t, err := New(points)
	if err != nil {
		panic(err)
	}
	return t
}

// Points returns a copy of the waypoints.
func (t *Trajectory) Points() []types.Point {
	cp := make([]types.Point, len(t.points))
	copy(cp, t.points)
	return cp
}

// Len is the waypoint count. It is also the move point cost of the path.
func (t *Trajectory) Len() int { return len(t.points) }

// First returns the starting waypoint.
func (t *Trajectory) First() types.Point {
	if len(t.points) == 0 {
		return types.Point{}
	}
	return t.points[0]
}

// Last returns the final waypoint.
func (t *Trajectory) Last() types.Point {
	if len(t.points) == 0 {
		return types.Point{}
	}
	return t.points[len(t.points)-1]
}

// Progress returns how many waypoints have been walked, fractionally.
func (t *Trajectory) Progress() float64 { return t.progress }

// Advance moves the progress forward by steps, clamped to the final waypoint.
func (t *Trajectory) Advance(steps float64) {
	t.progress += steps
	if last := float64(len(t.points) - 1); t.progress > last {
		t.progress = math.Max(last, 0)
	}
}

// Reset rewinds progress to the first waypoint.
func (t *Trajectory) Reset() { t.progress = 0 }

// Ended reports whether progress has reached the final waypoint.
func (t *Trajectory) Ended() bool {
	return t.progress >= float64(len(t.points)-1)
}

// Tile returns the waypoint the walker currently stands on.
func (t *Trajectory) Tile() types.Point {
	if len(t.points) == 0 {
		return types.Point{}
	}
	i := int(t.progress)
	if i >= len(t.points) {
		i = len(t.points) - 1
	}
	return t.points[i]
}

// Position interpolates between the current waypoint and the next.
func (t *Trajectory) Position() types.Vec {
	if len(t.points) == 0 {
		return types.Vec{}
	}
	i := int(t.progress)
	if i >= len(t.points)-1 {
		return types.VecOf(t.points[len(t.points)-1])
	}
	frac := t.progress - float64(i)
	a, b := t.points[i], t.points[i+1]
	return types.Vec{
		X: float64(a.X) + frac*float64(b.X-a.X),
		Y: float64(a.Y) + frac*float64(b.Y-a.Y),
	}
}

// Straight walks every X step first, then every Y step. It ignores
// obstacles. The start cell is part of the path.
func Straight(from, to types.Point) *Trajectory {
	points := []types.Point{from}
	cur := from
	for cur.X != to.X {
		cur.X += sign(to.X - cur.X)
		points = append(points, cur)
	}
	for cur.Y != to.Y {
		cur.Y += sign(to.Y - cur.Y)
		points = append(points, cur)
	}
	return &Trajectory{points: points}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
