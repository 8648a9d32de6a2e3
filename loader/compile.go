// Package loader reads a game directory: the unit catalog from Lua, the
// map from YAML and the settings from config.yaml. The Lua VM is discarded
// after loading.
package loader

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/world"
	"github.com/nathoo/skirmish/types"
	lua "github.com/yuin/gopher-lua"
)

// rawType holds a type declaration before compilation.
type rawType struct {
	name  string
	kind  unitKind
	table *lua.LTable
}

// typeFields lists the keys a type table may carry.
var typeFields = []string{
	"hp", "armor", "attack", "variance", "reward", "move", "range", "cost",
	"crossable", "invincible", "props",
}

// baseCaps are the capabilities each constructor starts from.
var baseCaps = map[unitKind]types.Capability{
	kindUnit:     types.Targetable | types.Dynamic,
	kindBuilding: types.Targetable | types.Dynamic | types.Producer,
	kindTerrain:  types.Neutral | types.Invincible,
	kindBonus:    types.Neutral | types.Dynamic | types.Crossable,
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// compile converts the collected declarations into a catalog, in
// declaration order.
func compile(coll *collector) (*world.Catalog, error) {
	catalog := world.NewCatalog()
	for _, raw := range coll.types {
		tpl, err := compileType(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling %s %s: %w", raw.kind, raw.name, err)
		}
		if err := catalog.RegisterTemplate(tpl); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func compileType(raw rawType) (world.Template, error) {
	tbl := raw.table
	var unknown error
	tbl.ForEach(func(k, _ lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok || unknown != nil || contains(typeFields, string(key)) {
			return
		}
		unknown = diag.Errorf(diag.Syntax, "unknown field '%s'", string(key)).
			Suggest(string(key), typeFields, diag.ArgumentThreshold)
	})
	if unknown != nil {
		return world.Template{}, unknown
	}

	caps := baseCaps[raw.kind]
	if getBool(tbl, "crossable", caps.Has(types.Crossable)) {
		caps |= types.Crossable
	} else {
		caps &^= types.Crossable
	}
	if getBool(tbl, "invincible", caps.Has(types.Invincible)) {
		caps |= types.Invincible
	} else {
		caps &^= types.Invincible
	}

	tpl := world.Template{
		Name:     raw.name,
		Caps:     caps,
		HP:       getInt(tbl, "hp"),
		Armor:    getInt(tbl, "armor"),
		Attack:   getInt(tbl, "attack"),
		Variance: getInt(tbl, "variance"),
		Reward:   getInt(tbl, "reward"),
		MP:       getInt(tbl, "move"),
		Cost:     getInt(tbl, "cost"),
		Extra:    tableToAnyMap(getTable(tbl, "props")),
	}
	if r := getTable(tbl, "range"); r != nil {
		rng, err := compileRange(r)
		if err != nil {
			return world.Template{}, err
		}
		tpl.Range = rng
	}
	if tpl.HP < 0 || tpl.MP < 0 || tpl.Cost < 0 {
		return world.Template{}, fmt.Errorf("hp, move and cost must not be negative")
	}
	return tpl, nil
}

// compileRange accepts Range(min, max), {min = .., max = ..} or {min, max}.
func compileRange(tbl *lua.LTable) (world.Range, error) {
	var r world.Range
	if tbl.MaxN() == 2 {
		lo, ok1 := tbl.RawGetInt(1).(lua.LNumber)
		hi, ok2 := tbl.RawGetInt(2).(lua.LNumber)
		if !ok1 || !ok2 {
			return r, fmt.Errorf("range must hold two numbers")
		}
		r = world.Range{Min: float64(lo), Max: float64(hi)}
	} else {
		r = world.Range{Min: getNumber(tbl, "min"), Max: getNumber(tbl, "max")}
	}
	if r.Min < 0 || r.Max < r.Min {
		return r, fmt.Errorf("range [%g, %g] is invalid", r.Min, r.Max)
	}
	return r, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
