package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine/world"
)

// validMap returns a minimal valid map for modification in tests.
func validMap() *MapDef {
	return &MapDef{
		Name:    "Test",
		Players: []PlayerDef{{ID: 1, Name: "red", Gold: 100}, {ID: 2, Name: "blue"}},
		Legend: map[string][]string{
			".": {"GroundEntity"},
			"~": {"WaterEntity"},
		},
		Rows: []string{"..~", "..."},
		Placements: []Placement{
			{Type: "FactoryEntity", Owner: 1, X: 0, Y: 0, Name: "hq1"},
			{Type: "FactoryEntity", Owner: 2, X: 2, Y: 1, Name: "hq2"},
			{Type: "SoldierEntity", Owner: 1, X: 1, Y: 0, Name: "s1"},
		},
	}
}

func testGame(m *MapDef) *Game {
	return &Game{Config: config.Default(), Catalog: world.DefaultCatalog(), Map: m}
}

func TestValidate_Valid(t *testing.T) {
	g := testGame(validMap())
	if err := validate(g); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
	if len(g.Warnings) != 0 {
		t.Errorf("warnings = %v", g.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *MapDef)
		want   string
	}{
		{"duplicate player", func(m *MapDef) { m.Players[1].ID = 1 }, "duplicate id 1"},
		{"negative gold", func(m *MapDef) { m.Players[0].Gold = -5 }, "gold -5 is negative"},
		{"owner not declared", func(m *MapDef) { m.Players = m.Players[1:] }, "config owner 1 is not a declared player"},
		{"long legend key", func(m *MapDef) { m.Legend["ab"] = []string{"GroundEntity"} }, `legend key "ab" must be a single character`},
		{"unknown legend type", func(m *MapDef) { m.Legend["~"] = []string{"Lava"} }, `legend "~": unknown type "Lava"`},
		{"no rows", func(m *MapDef) { m.Rows = nil }, "map has no rows"},
		{"ragged rows", func(m *MapDef) { m.Rows[1] = ".." }, "row 1 has 2 cells, want 3"},
		{"undefined key", func(m *MapDef) { m.Rows[1] = "..#" }, `undefined legend key "#"`},
		{"unknown placement type", func(m *MapDef) { m.Placements[2].Type = "SoldierEntty" }, "did you mean 'SoldierEntity'"},
		{"out of bounds", func(m *MapDef) { m.Placements[2].X = 3 }, "(3,0) is outside the 3x2 map"},
		{"owner not a player", func(m *MapDef) { m.Placements[2].Owner = 7 }, "owner 7 is not a declared player"},
		{"duplicate name", func(m *MapDef) { m.Placements[2].Name = "hq1" }, `name "hq1" is a duplicate of placements[0]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMap()
			tt.mutate(m)
			err := validate(testGame(m))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	m := validMap()
	m.Legend["^"] = []string{"MountainEntity"}
	m.Placements = m.Placements[:1]

	g := testGame(m)
	if err := validate(g); err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	want := []string{
		`legend key "^" is never used`,
		"player 2 has no production building",
	}
	if strings.Join(g.Warnings, "|") != strings.Join(want, "|") {
		t.Errorf("warnings = %v, want %v", g.Warnings, want)
	}
}

func TestValidate_CollectsEveryError(t *testing.T) {
	m := validMap()
	m.Players[0].Gold = -1
	m.Placements[2].X = 9
	err := validate(testGame(m))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("errors = %v, want 2", ve.Errors)
	}
}
