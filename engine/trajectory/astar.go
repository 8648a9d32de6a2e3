package trajectory

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/skirmish/types"
)

// TileSize is the edge of one tile in pixels. The A* heuristic measures in
// pixel space so it stays comparable with the per-step cost.
const TileSize = 32

// ErrNoPath is returned when the goal cannot be reached.
var ErrNoPath = errors.New("no path")

// Grid describes the searchable area for AStar.
type Grid struct {
	Width    int
	Height   int
	Passable func(types.Point) bool
}

func (g Grid) contains(p types.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

type node struct {
	at    types.Point
	g, f  float64
	index int
}

type openSet []*node

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f == o[j].f {
		return o[i].g > o[j].g
	}
	return o[i].f < o[j].f
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	n := x.(*node)
	n.index = len(*o)
	*o = append(*o, n)
}
func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	n.index = -1
	return n
}

var neighbours = []types.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// AStar finds a shortest 4-connected path from `from` to `to`. The goal
// cell itself does not need to be passable, so a path can end on an
// occupied tile. The returned path includes both endpoints.
func AStar(g Grid, from, to types.Point) (*Trajectory, error) {
	if !g.contains(from) || !g.contains(to) {
		return nil, fmt.Errorf("astar %v -> %v: %w", from, to, ErrNoPath)
	}

	h := func(p types.Point) float64 {
		dx := float64(p.X-to.X) * TileSize
		dy := float64(p.Y-to.Y) * TileSize
		return math.Sqrt(dx*dx + dy*dy)
	}

	nodes := map[types.Point]*node{}
	came := map[types.Point]types.Point{}
	closed := map[types.Point]bool{}

	start := &node{at: from, g: 0, f: h(from)}
	nodes[from] = start
	open := &openSet{}
	heap.Push(open, start)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.at == to {
			return MustNew(reconstruct(came, from, to)), nil
		}
		closed[cur.at] = true

		for _, d := range neighbours {
			next := cur.at.Add(d)
			if !g.contains(next) || closed[next] {
				continue
			}
			if next != to && g.Passable != nil && !g.Passable(next) {
				continue
			}
			tentative := cur.g + TileSize
			n, seen := nodes[next]
			if seen && tentative >= n.g {
				continue
			}
			came[next] = cur.at
			if !seen {
				n = &node{at: next}
				nodes[next] = n
				n.g = tentative
				n.f = tentative + h(next)
				heap.Push(open, n)
				continue
			}
			n.g = tentative
			n.f = tentative + h(next)
			heap.Fix(open, n.index)
		}
	}
	return nil, fmt.Errorf("astar %v -> %v: %w", from, to, ErrNoPath)
}

// reconstruct follows predecessor links back from the goal.
func reconstruct(came map[types.Point]types.Point, from, to types.Point) []types.Point {
	path := []types.Point{to}
	for cur := to; cur != from; {
		cur = came[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
