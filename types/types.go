// Package types defines the shared value types for the skirmish engine.
// This package holds plain data and trivial grid arithmetic only.
package types

import "fmt"

// Point is a cell coordinate on the tile map.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Manhattan returns the grid distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// DistanceSquared returns the squared Euclidean distance between p and q.
func (p Point) DistanceSquared(q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

func (p Point) String() string {
	return fmt.Sprintf("<X=%d,Y=%d>", p.X, p.Y)
}

// Vec is a fractional map position, in tile units.
type Vec struct {
	X float64
	Y float64
}

// VecOf returns the tile p as a Vec.
func VecOf(p Point) Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Capability is a bitmask describing what an entity is and what can be done to it.
type Capability uint32

const (
	Invincible Capability = 1 << iota
	Neutral
	Targetable
	Dynamic
	Crossable
	Producer
)

// Has reports whether every bit in want is set in c.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// NeutralOwner is the owner id of entities that belong to no player.
const NeutralOwner = -1

// Event is emitted by the world while interactions execute.
type Event struct {
	Type string
	Data map[string]any
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
