package interaction

import (
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// DefaultSpeed is the walking speed in tiles per second.
const DefaultSpeed = 5.0

// StepConfig tunes execution.
type StepConfig struct {
	Speed float64
	// Roll returns a value in [1, sides]. Nil disables damage variance.
	Roll func(sides int) int
}

// Step advances the head of e's queue by dt seconds and dequeues it once
// it has ended.
func Step(w *world.World, e *world.Entity, dt float64, cfg StepConfig) {
	in := e.Head()
	if in == nil {
		return
	}
	switch in.Kind {
	case world.Move:
		stepMove(w, e, in, dt, cfg)
	case world.Attack:
		stepAttack(w, in, cfg)
	default:
		in.Ended = true
	}
	e.Dequeue()
}

// StepAll steps every dynamic entity still on the map.
func StepAll(w *world.World, dt float64, cfg StepConfig) {
	for _, e := range w.Dynamic() {
		if e.Placed() {
			Step(w, e, dt, cfg)
		}
	}
}

// Busy reports whether any entity still has queued interactions.
func Busy(w *world.World) bool {
	for _, e := range w.Dynamic() {
		if len(e.Queue) > 0 {
			return true
		}
	}
	return false
}

func stepMove(w *world.World, e *world.Entity, in *world.Interaction, dt float64, cfg StepConfig) {
	speed := cfg.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	tr := in.Trajectory
	before := int(tr.Progress())
	tr.Advance(dt * speed)
	after := int(tr.Progress())

	points := tr.Points()
	for i := before + 1; i <= after && i < len(points); i++ {
		w.NotifyCrossed(e, points[i])
	}
	e.Display = tr.Position()
	if tr.Ended() {
		e.Display = types.VecOf(tr.Last())
		in.Ended = true
	}
}

func stepAttack(w *world.World, in *world.Interaction, cfg StepConfig) {
	src, dst := in.Src, in.Dst
	in.Ended = true
	if src.ActionDone || dst == nil || dst.Dead() {
		return
	}
	src.ActionDone = true

	offense := src.Attack
	if src.Variance > 0 && cfg.Roll != nil {
		offense += cfg.Roll(src.Variance)
	}
	dealt := offense - dst.Armor
	if dealt < 0 || dst.Caps.Has(types.Invincible) {
		dealt = 0
	}
	dst.HP -= dealt

	at := dst.Tile()
	w.Emit("damage", map[string]any{
		"source": src.ID, "target": dst.ID, "amount": dealt, "x": at.X, "y": at.Y,
	})
	if dst.Dead() {
		w.Remove(dst)
	}
}
