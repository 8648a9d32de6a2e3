package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/interp"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
)

// testEngine returns a 6×6 game: player 1 has factory hq at (0,0) and
// soldier s1 at (1,1); player 2 has soldier foe at (3,1) and a factory at
// (5,5).
func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	w := world.New(6, 6, nil)
	w.AddPlayer(world.Player{ID: 1, Name: "red", Gold: 500})
	w.AddPlayer(world.Player{ID: 2, Name: "blue", Gold: 500})

	eng, err := engine.New(w, engine.Options{
		Game:   "Test",
		Config: config.Default(),
		Scripts: interp.FSSource{FS: fstest.MapFS{
			"opening.txt": {Data: []byte("@display s1 HP\nmove s1 0 1\n")},
		}},
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	place := func(tpl world.Template, owner, x, y int, name string) {
		e := tpl.New()
		if err := e.SetOwner(owner); err != nil {
			t.Fatal(err)
		}
		if err := w.Spawn(e, types.Point{X: x, Y: y}); err != nil {
			t.Fatal(err)
		}
		if name == "" {
			return
		}
		if err := eng.Interp.Names.Bind(name, e); err != nil {
			t.Fatal(err)
		}
	}
	place(world.Factory, 1, 0, 0, "hq")
	place(world.Soldier, 1, 1, 1, "s1")
	place(world.Soldier, 2, 3, 1, "foe")
	place(world.Factory, 2, 5, 5, "")
	w.DrainEvents()
	return eng
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := New(testEngine(t))
	c.In = strings.NewReader(input)
	c.Out = &out
	c.SaveDir = t.TempDir()
	return c, &out
}

func s1(t *testing.T, c *CLI) *world.Entity {
	t.Helper()
	e, ok := c.Engine.Interp.Names.Lookup("s1")
	if !ok {
		t.Fatal("s1 is not bound")
	}
	return e
}

func TestCLI_BannerAndQuit(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Test: 6x6, 2 players") {
		t.Error("expected banner in output")
	}
	if !strings.Contains(output, "p1> ") {
		t.Error("expected the prompt to name the acting player")
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye message")
	}
}

func TestCLI_ScriptLineSettles(t *testing.T) {
	c, out := newTestCLI(t, "spawn hq 1 0 SoldierEntity s2\nmove s1 0 2\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "(SoldierEntity) appears at (1,0)") {
		t.Errorf("expected spawn event, got:\n%s", output)
	}
	if s := s1(t, c); s.Display != types.VecOf(types.Point{X: 1, Y: 3}) {
		t.Errorf("s1 display = %v, want settled at (1,3)", s.Display)
	}
	if strings.Contains(output, "compilation succeeded") {
		t.Error("status lines should be hidden outside trace mode")
	}
}

func TestCLI_CompileErrors(t *testing.T) {
	c, out := newTestCLI(t, "mov s1 1 1\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "[line 1] unknown command 'mov' (did you mean 'move'?)") {
		t.Errorf("expected suggestion, got:\n%s", output)
	}
	if !strings.Contains(output, "compilation failed: 1 errors, 0 warnings.") {
		t.Error("expected the status line on failure")
	}
}

func TestCLI_Display(t *testing.T) {
	c, out := newTestCLI(t, "@display s1 HP\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "s1.HP = 4") {
		t.Errorf("expected display output, got:\n%s", out.String())
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	for _, repeat := range []string{"again", "g"} {
		c, out := newTestCLI(t, "@display s1 HP\n"+repeat+"\n/quit\n")
		c.Run()

		if n := strings.Count(out.String(), "s1.HP = 4"); n != 2 {
			t.Errorf("%s: display printed %d times, want 2", repeat, n)
		}
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_EmptyAndCommentLines(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "error") {
		t.Errorf("blank and comment lines should be skipped, got:\n%s", out.String())
	}
}

func TestCLI_MetaCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"help", "/help", []string{"/tick [n]", "/end", "spawnfactory ownerId x y name", "@importfactory ownerId name"}},
		{"state", "/state", []string{"Test, turn 1", "Player 1 red: 500 gold (acting)", "s1 SoldierEntity owner 1 at <X=1,Y=1> HP 4 MP 20/20"}},
		{"trackers empty", "/trackers", []string{"No trackers."}},
		{"trackers", "@track s1 HP\n/trackers", []string{"s1.HP = 4"}},
		{"end", "/end", []string{"turn of player 2", "Turn 2: blue (player 2), 500 gold."}},
		{"tick", "move s1 0 1\n/tick 3", nil},
		{"bad tick", "/tick zero", []string{`/tick takes a positive tick count, got "zero"`}},
		{"run", "/run opening", []string{"s1.HP = 4", "opening applied."}},
		{"run missing", "/run nope", []string{"Run failed"}},
		{"run no name", "/run", []string{"/run requires a script name"}},
		{"trace", "/trace\n@display s1 HP\n/trace", []string{"Trace output enabled.", "compilation succeeded: 0 errors, 0 warnings.", "Trace output disabled."}},
		{"unknown", "/bogus", []string{"Unknown command: /bogus"}},
		{"load missing", "/load nonexistent", []string{"Load failed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestCLI(t, tt.input+"\n/quit\n")
			c.Run()
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected %q in output:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	c, out := newTestCLI(t, "/save t1\nmove s1 0 2\n/load t1\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Game saved to t1.") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(output, "Game loaded from t1 (turn 1).") {
		t.Errorf("expected load confirmation, got:\n%s", output)
	}
	if s := s1(t, c); s.Tile() != (types.Point{X: 1, Y: 1}) {
		t.Errorf("s1 at %v after load, want (1,1)", s.Tile())
	}
	if _, err := os.Stat(filepath.Join(c.SaveDir, "t1.json")); err != nil {
		t.Errorf("save file: %v", err)
	}
}

func TestCLI_RunScript(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	os.WriteFile(good, []byte("move s1 0 2\n@display s1 TilemapPosition\n"), 0o644)
	os.WriteFile(bad, []byte("move s1 0 2\nattack s1 @4 @4\n"), 0o644)

	c, out := newTestCLI(t, "")
	ok, err := c.RunScript(good)
	if err != nil || !ok {
		t.Fatalf("ok = %v err = %v output:\n%s", ok, err, out.String())
	}
	if !strings.Contains(out.String(), good+": ok") {
		t.Errorf("output:\n%s", out.String())
	}

	out.Reset()
	ok, err = c.RunScript(bad)
	if err != nil || ok {
		t.Fatalf("ok = %v err = %v, want a failed run", ok, err)
	}
	if !strings.Contains(out.String(), "no valid target") || !strings.Contains(out.String(), bad+": failed") {
		t.Errorf("output:\n%s", out.String())
	}

	if _, err := c.RunScript(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for a missing file")
	}
}
