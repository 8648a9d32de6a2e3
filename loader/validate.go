package loader

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the map against the catalog. Warnings are stored on g.
func validate(g *Game) error {
	ve := &ValidationError{}
	m := g.Map
	known := g.Catalog.Names()

	unknownType := func(where, name string) {
		e := diag.Errorf(diag.Syntax, "%s: unknown type %q", where, name).
			Suggest(name, known, diag.TypeThreshold)
		ve.Errors = append(ve.Errors, e.Error())
	}

	// Players.
	players := map[int]bool{}
	for i, p := range m.Players {
		if players[p.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("players[%d]: duplicate id %d", i, p.ID))
		}
		players[p.ID] = true
		if p.Gold < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("players[%d]: gold %d is negative", i, p.Gold))
		}
	}
	if !players[g.Config.Owner] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("config owner %d is not a declared player", g.Config.Owner))
	}

	// Legend.
	keys := make([]string, 0, len(m.Legend))
	for key := range m.Legend {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		typeNames := m.Legend[key]
		if utf8.RuneCountInString(key) != 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("legend key %q must be a single character", key))
		}
		for _, name := range typeNames {
			if _, ok := g.Catalog.New(name); !ok {
				unknownType(fmt.Sprintf("legend %q", key), name)
			}
		}
	}

	// Rows.
	if len(m.Rows) == 0 {
		ve.Errors = append(ve.Errors, "map has no rows")
	}
	used := map[string]bool{}
	width := m.Width()
	for y, row := range m.Rows {
		if n := utf8.RuneCountInString(row); n != width {
			ve.Errors = append(ve.Errors, fmt.Sprintf("row %d has %d cells, want %d", y, n, width))
		}
		for _, ch := range row {
			key := string(ch)
			if _, ok := m.Legend[key]; !ok && !used[key] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("row %d uses undefined legend key %q", y, key))
			}
			used[key] = true
		}
	}
	for _, key := range keys {
		if !used[key] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("legend key %q is never used", key))
		}
	}

	// Placements.
	names := map[string]int{}
	producers := map[int]bool{}
	for i, pl := range m.Placements {
		where := fmt.Sprintf("placements[%d]", i)
		e, ok := g.Catalog.New(pl.Type)
		if !ok {
			unknownType(where, pl.Type)
			continue
		}
		if pl.X < 0 || pl.Y < 0 || pl.X >= width || pl.Y >= m.Height() {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: (%d,%d) is outside the %dx%d map", where, pl.X, pl.Y, width, m.Height()))
		}
		if !e.Caps.Has(types.Neutral) {
			if !players[pl.Owner] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: owner %d is not a declared player", where, pl.Owner))
			}
			if e.Caps.Has(types.Producer) {
				producers[pl.Owner] = true
			}
		}
		if pl.Name != "" {
			if prev, dup := names[pl.Name]; dup {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s: name %q is a duplicate of placements[%d]", where, pl.Name, prev))
			}
			names[pl.Name] = i
		}
	}
	for _, p := range m.Players {
		if !producers[p.ID] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("player %d has no production building", p.ID))
		}
	}

	g.Warnings = ve.Warnings
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
