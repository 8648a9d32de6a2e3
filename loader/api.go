package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// unitKind selects the base capabilities of a declared type.
type unitKind string

const (
	kindUnit     unitKind = "Unit"
	kindBuilding unitKind = "Building"
	kindTerrain  unitKind = "Terrain"
	kindBonus    unitKind = "Bonus"
)

// registerAPI registers the type constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Unit "Name" { ... }: curried, Unit("Name") returns a function that
	// takes the stats table. Building, Terrain and Bonus work the same way.
	for _, kind := range []unitKind{kindUnit, kindBuilding, kindTerrain, kindBonus} {
		L.SetGlobal(string(kind), L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.types = append(coll.types, rawType{name: name, kind: kind, table: tbl})
				return 0
			}))
			return 1
		}))
	}

	// Range(min, max) builds an attack range table.
	L.SetGlobal("Range", L.NewFunction(func(L *lua.LState) int {
		lo := L.CheckNumber(1)
		hi := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("min", lo)
		tbl.RawSetString("max", hi)
		L.Push(tbl)
		return 1
	}))
}
