package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
	lua "github.com/yuin/gopher-lua"
)

func catalogFrom(t *testing.T, src string) (*world.Catalog, error) {
	t.Helper()
	return runCatalog(func(L *lua.LState) error { return L.DoString(src) })
}

func mustCatalog(t *testing.T, src string) *world.Catalog {
	t.Helper()
	c, err := catalogFrom(t, src)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestCompile_Constructors(t *testing.T) {
	c := mustCatalog(t, `
Unit "Archer" { hp = 3, attack = 2, variance = 2, move = 12, cost = 80, range = Range(2, 6) }
Building "Barracks" { hp = 12, move = 1 }
Terrain "Forest" { crossable = true }
Terrain "Rock" {}
Bonus "Chest" { reward = 30 }
`)
	want := []string{"Archer", "Barracks", "Forest", "Rock", "Chest"}
	if got := strings.Join(c.Names(), ","); got != strings.Join(want, ",") {
		t.Fatalf("Names = %s, want %v", got, want)
	}

	tests := []struct {
		name string
		has  types.Capability
		not  types.Capability
	}{
		{"Archer", types.Targetable | types.Dynamic, types.Producer | types.Neutral},
		{"Barracks", types.Targetable | types.Producer, types.Neutral},
		{"Forest", types.Neutral | types.Invincible | types.Crossable, types.Dynamic},
		{"Rock", types.Neutral | types.Invincible, types.Crossable},
		{"Chest", types.Neutral | types.Crossable | types.Dynamic, types.Targetable},
	}
	for _, tt := range tests {
		e, _ := c.New(tt.name)
		if !e.Caps.Has(tt.has) {
			t.Errorf("%s: caps %b missing %b", tt.name, e.Caps, tt.has)
		}
		if e.Caps&tt.not != 0 {
			t.Errorf("%s: caps %b should not include %b", tt.name, e.Caps, tt.not)
		}
	}

	archer, _ := c.New("Archer")
	if archer.HP != 3 || archer.Attack != 2 || archer.Variance != 2 || archer.BaseMP != 12 || archer.Cost != 80 {
		t.Errorf("archer = %+v", archer)
	}
	if archer.Range != (world.Range{Min: 2, Max: 6}) {
		t.Errorf("range = %+v", archer.Range)
	}
	chest, _ := c.New("Chest")
	if chest.Reward != 30 {
		t.Errorf("reward = %d", chest.Reward)
	}
}

func TestCompile_RangeForms(t *testing.T) {
	c := mustCatalog(t, `
Unit "A" { range = {1, 3} }
Unit "B" { range = { min = 0, max = 2 } }
`)
	a, _ := c.New("A")
	b, _ := c.New("B")
	if a.Range != (world.Range{Min: 1, Max: 3}) || b.Range != (world.Range{Min: 0, Max: 2}) {
		t.Errorf("ranges = %+v, %+v", a.Range, b.Range)
	}
}

func TestCompile_Props(t *testing.T) {
	c := mustCatalog(t, `Unit "Archer" { props = { Quiver = 12, Label = "bow" } }`)
	e, _ := c.New("Archer")
	if v, ok := world.ReadProperty(e, "Quiver"); !ok || v != 12 {
		t.Errorf("Quiver = %v, %v", v, ok)
	}
	if v, ok := world.ReadProperty(e, "Label"); !ok || v != "bow" {
		t.Errorf("Label = %v, %v", v, ok)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", `Unit "A" { hpp = 3 }`, "did you mean 'hp'"},
		{"duplicate", `Unit "A" {} Unit "A" {}`, "A"},
		{"bad range", `Unit "A" { range = Range(4, 2) }`, "range [4, 2] is invalid"},
		{"negative", `Unit "A" { hp = -1 }`, "must not be negative"},
		{"nothing declared", `local x = 1`, "no unit types declared"},
		{"lua error", `Unit "A" {`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalogFrom(t, tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	for _, src := range []string{
		`dofile("/etc/passwd")`,
		`loadstring("return 1")`,
		`math.randomseed(4)`,
		`os.exit(1)`,
		`io.write("x")`,
	} {
		if _, err := catalogFrom(t, src+"\nUnit \"A\" {}"); err == nil {
			t.Errorf("%s: expected the sandbox to reject it", src)
		}
	}
}
