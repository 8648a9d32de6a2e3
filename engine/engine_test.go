package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine/interp"
	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/trajectory"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/types"
)

func pt(x, y int) types.Point { return types.Point{X: x, Y: y} }

// testEngine builds a 10×10 skirmish: player 1 has a factory at (0,0) and
// soldier s1 at (1,1); player 2 has soldier foe at (2,1) and a factory at
// (9,9).
func testEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	w := world.New(10, 10, nil)
	w.AddPlayer(world.Player{ID: 1, Name: "red", Gold: 500})
	w.AddPlayer(world.Player{ID: 2, Name: "blue", Gold: 500})

	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(w, Options{Game: "test", Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	place(t, e, world.Factory, 1, pt(0, 0), "")
	place(t, e, world.Soldier, 1, pt(1, 1), "s1")
	place(t, e, world.Soldier, 2, pt(2, 1), "foe")
	place(t, e, world.Factory, 2, pt(9, 9), "")
	e.World.DrainEvents()
	return e
}

func place(t *testing.T, e *Engine, tpl world.Template, owner int, at types.Point, name string) *world.Entity {
	t.Helper()
	ent := tpl.New()
	if owner != types.NeutralOwner {
		if err := ent.SetOwner(owner); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.World.Spawn(ent, at); err != nil {
		t.Fatal(err)
	}
	if name != "" {
		if err := e.Interp.Names.Bind(name, ent); err != nil {
			t.Fatal(err)
		}
	}
	return ent
}

func entity(t *testing.T, e *Engine, name string) *world.Entity {
	t.Helper()
	ent, ok := e.Interp.Names.Lookup(name)
	if !ok {
		t.Fatalf("%s is not bound", name)
	}
	return ent
}

func hasEvent(evs []types.Event, kind string) bool {
	for _, ev := range evs {
		if ev.Type == kind {
			return true
		}
	}
	return false
}

func mustRun(t *testing.T, e *Engine, script string) {
	t.Helper()
	if ok, rep := e.Run(script); !ok {
		t.Fatalf("run %q failed:\n%s", script, rep.Text())
	}
}

func TestRun_SpawnAndMoveThenSettle(t *testing.T) {
	e := testEngine(t, nil)
	mustRun(t, e, "spawn factory 1 0 SoldierEntity s2\nmove s2 @1 @3")

	s2 := entity(t, e, "s2")
	if s2.Tile() != pt(1, 3) {
		t.Errorf("Tile = %v, want (1,3) right after apply", s2.Tile())
	}
	if e.World.Gold(1) != 400 {
		t.Errorf("gold = %d, want 400", e.World.Gold(1))
	}

	evs, settled := e.Settle()
	if !settled {
		t.Fatal("expected queues to drain")
	}
	if s2.Display != types.VecOf(pt(1, 3)) {
		t.Errorf("Display = %v, want (1,3)", s2.Display)
	}
	if !hasEvent(evs, "entity_spawned") || !hasEvent(evs, "entity_crossed") {
		t.Errorf("events = %v", evs)
	}
}

func TestRun_DeadTargetHaltsScript(t *testing.T) {
	e := testEngine(t, nil)
	entity(t, e, "foe").HP = 0

	ok, rep := e.Run("attack s1 2 1\nmove s1 0 2")
	if ok {
		t.Fatal("expected the run to fail")
	}
	text := rep.Text()
	if !strings.Contains(text, "fatal error executing interaction 0") || !strings.Contains(text, "script execution halted.") {
		t.Errorf("report:\n%s", text)
	}
	if s1 := entity(t, e, "s1"); s1.Tile() != pt(1, 1) || len(s1.Queue) != 0 {
		t.Error("nothing after the failed interaction may be applied")
	}
}

func TestAttack_KillsAcrossTurns(t *testing.T) {
	e := testEngine(t, nil)
	foe := entity(t, e, "foe")

	mustRun(t, e, "attack s1 2 1")
	e.Settle()
	if foe.HP != 2 {
		t.Fatalf("foe HP = %d, want 2", foe.HP)
	}

	if ok, rep := e.Run("attack s1 2 1"); ok {
		t.Fatal("a second attack in the same turn must fail")
	} else if !strings.Contains(rep.Text(), "already acted") {
		t.Errorf("report:\n%s", rep.Text())
	}

	e.EndTurn()
	e.EndTurn()
	mustRun(t, e, "attack s1 2 1")
	evs, _ := e.Settle()
	if !hasEvent(evs, "damage") || !hasEvent(evs, "entity_removed") {
		t.Errorf("events = %v", evs)
	}
	if foe.Placed() || !foe.Dead() {
		t.Error("foe should be removed")
	}
	if got := e.World.Occupants(pt(2, 1)); len(got) != 0 {
		t.Errorf("occupants = %v", got)
	}
}

func TestEndTurn_CyclesPlayers(t *testing.T) {
	e := testEngine(t, nil)
	mustRun(t, e, "")
	if f := entity(t, e, interp.FactoryName); f.Owner() != 1 {
		t.Fatalf("factory owner = %d, want 1", f.Owner())
	}
	s1 := entity(t, e, "s1")
	s1.RemainingMP = 0

	if p := e.EndTurn(); p.ID != 2 || e.Owner() != 2 || e.Turn != 2 {
		t.Fatalf("player = %d owner = %d turn = %d", p.ID, e.Owner(), e.Turn)
	}
	if f := entity(t, e, interp.FactoryName); f.Owner() != 2 {
		t.Errorf("factory should follow the acting player, owner = %d", f.Owner())
	}
	if s1.RemainingMP != 0 {
		t.Error("only the acting player's entities are refreshed")
	}

	if p := e.EndTurn(); p.ID != 1 {
		t.Fatalf("player = %d, want 1", p.ID)
	}
	if s1.RemainingMP != s1.BaseMP {
		t.Errorf("RemainingMP = %d, want %d", s1.RemainingMP, s1.BaseMP)
	}
	if evs := e.Tick(0); !hasEvent(evs, "turn_started") {
		t.Errorf("events = %v", evs)
	}
}

func TestTrackers_ReachBoard(t *testing.T) {
	e := testEngine(t, nil)
	mustRun(t, e, "@track s1 HP\n@track foe RemainingMovePoints")
	want := "s1.HP = 4|foe.RemainingMovePoints = 20"
	if got := strings.Join(e.Board.Lines(), "|"); got != want {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRunFile(t *testing.T) {
	w := world.New(4, 4, nil)
	e, err := New(w, Options{Config: config.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.RunFile("opening"); err == nil {
		t.Error("expected error without a script source")
	}

	e.Interp.Scripts = interp.FSSource{FS: fstest.MapFS{
		"opening.txt": {Data: []byte("spawnfactory 1 2 2 base\n")},
	}}
	ok, rep, err := e.RunFile("opening")
	if err != nil || !ok {
		t.Fatalf("ok = %v err = %v report:\n%s", ok, err, rep.Text())
	}
	if base := entity(t, e, "base"); base.Tile() != pt(2, 2) {
		t.Errorf("base at %v", base.Tile())
	}
	if _, _, err := e.RunFile("missing"); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestSaveLoad(t *testing.T) {
	e := testEngine(t, nil)
	mustRun(t, e, "move s1 0 2\n@track s1 HP")
	e.Settle()
	e.EndTurn()
	e.RNG.Roll(6)
	pos := e.RNG.Position()

	data, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	e.EndTurn()
	mustRun(t, e, "move s1 3 0")
	e.Settle()

	if err := e.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s1 := entity(t, e, "s1")
	if s1.Tile() != pt(1, 3) {
		t.Errorf("s1 at %v, want (1,3)", s1.Tile())
	}
	if s1.RemainingMP != s1.BaseMP-3 {
		t.Errorf("RemainingMP = %d, want %d", s1.RemainingMP, s1.BaseMP-3)
	}
	if e.Turn != 2 || e.Owner() != 2 {
		t.Errorf("turn = %d owner = %d", e.Turn, e.Owner())
	}
	if e.RNG.Position() != pos {
		t.Errorf("RNG position = %d, want %d", e.RNG.Position(), pos)
	}
	if len(e.Board.Trackers()) != 0 {
		t.Error("trackers should be dropped on load")
	}
	if e.Interp.World != e.World {
		t.Error("interpreter must script against the loaded world")
	}

	// The loaded world is playable.
	mustRun(t, e, "@control foe\nmove foe 0 1")
}

func TestNew_Pathfinding(t *testing.T) {
	e := testEngine(t, func(c *config.Config) { c.Pathfinding = config.PathAStar })
	if _, ok := e.Interp.Planner.(trajectory.GridPlanner); !ok {
		t.Fatalf("planner = %T, want GridPlanner", e.Interp.Planner)
	}

	// Straight would cut through the mountain at (1,2); foe blocks (2,1).
	place(t, e, world.Mountain, types.NeutralOwner, pt(1, 2), "")
	mustRun(t, e, "move s1 @1 @3")
	s1 := entity(t, e, "s1")
	if s1.RemainingMP != s1.BaseMP-5 {
		t.Errorf("RemainingMP = %d, want %d (detour of 5 waypoints)", s1.RemainingMP, s1.BaseMP-5)
	}

	cfg := config.Default()
	cfg.Pathfinding = "bogus"
	if _, err := New(world.New(2, 2, nil), Options{Config: cfg}); err == nil {
		t.Error("expected error for unknown pathfinding")
	}
}

func TestNew_SeedsNames(t *testing.T) {
	w := world.New(4, 4, nil)
	w.AddPlayer(world.Player{ID: 1, Gold: 100})
	names := resolve.NewTable()
	hq := world.Factory.New()
	if err := hq.SetOwner(1); err != nil {
		t.Fatal(err)
	}
	if err := w.Spawn(hq, pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := names.Bind("hq", hq); err != nil {
		t.Fatal(err)
	}

	e, err := New(w, Options{Config: config.Default(), Names: names})
	if err != nil {
		t.Fatal(err)
	}
	mustRun(t, e, "spawn hq 1 0 SoldierEntity s1")
	if s1 := entity(t, e, "s1"); s1.Owner() != 1 {
		t.Errorf("s1 owner = %d", s1.Owner())
	}
}

func TestExampleGame(t *testing.T) {
	g, err := loader.Load(filepath.Join("..", "games", "skirmish"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, names, err := g.BuildWorld()
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	e, err := New(w, Options{
		Game:    g.Map.Name,
		Config:  g.Config,
		Names:   names,
		Scripts: interp.FSSource{FS: os.DirFS(g.ScriptsDir())},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, script := range []string{"opening", "raid"} {
		ok, rep, err := e.RunFile(script)
		if err != nil || !ok {
			t.Fatalf("%s: ok = %v err = %v report:\n%s", script, ok, err, rep.Text())
		}
		if _, settled := e.Settle(); !settled {
			t.Fatalf("%s did not settle", script)
		}
	}
	if s2 := entity(t, e, "s2"); s2.Tile() != pt(6, 3) {
		t.Errorf("s2 at %v, want the chest at (6,3)", s2.Tile())
	}
	if gold := e.World.Gold(1); gold != 1000-100+50 {
		t.Errorf("gold = %d, want %d", gold, 1000-100+50)
	}
}
