package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine/world"
	lua "github.com/yuin/gopher-lua"
)

// File names inside a game directory.
const (
	UnitsFile = "units.lua"
	MapFile   = "map.yaml"
)

// collector accumulates Lua declarations during file execution.
type collector struct {
	types []rawType
}

// Game is a loaded game directory.
type Game struct {
	Dir     string
	Config  config.Config
	Catalog *world.Catalog
	Map     *MapDef

	// Warnings are non-fatal validation findings.
	Warnings []string
}

// Load reads config.yaml, the .lua unit files and map.yaml from dir and
// validates them together.
func Load(dir string) (*Game, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	catalog, err := LoadCatalog(dir)
	if err != nil {
		return nil, err
	}
	m, err := LoadMap(filepath.Join(dir, MapFile))
	if err != nil {
		return nil, err
	}

	g := &Game{Dir: dir, Config: cfg, Catalog: catalog, Map: m}
	if err := validate(g); err != nil {
		return nil, err
	}
	for _, w := range g.Warnings {
		slog.Warn("game validation", "dir", dir, "warning", w)
	}
	slog.Info("map loaded", "name", m.Name, "width", m.Width(), "height", m.Height(),
		"players", len(m.Players), "placements", len(m.Placements))
	return g, nil
}

// ScriptsDir returns the directory scripts are read from.
func (g *Game) ScriptsDir() string {
	if filepath.IsAbs(g.Config.ScriptsDir) {
		return g.Config.ScriptsDir
	}
	return filepath.Join(g.Dir, g.Config.ScriptsDir)
}

// LoadCatalog runs every .lua file in dir and returns the declared types.
// A directory without Lua files gets the built-in catalog.
func LoadCatalog(dir string) (*world.Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		slog.Debug("no unit definitions, using built-in catalog", "dir", dir)
		return world.DefaultCatalog(), nil
	}

	// Sort: units.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	catalog, err := runCatalog(func(L *lua.LState) error {
		for _, f := range luaFiles {
			if err := L.DoFile(filepath.Join(dir, f)); err != nil {
				return fmt.Errorf("executing %s: %w", f, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded", "dir", dir, "files", len(luaFiles), "types", len(catalog.Names()))
	return catalog, nil
}

// runCatalog executes Lua in a fresh sandboxed VM and compiles what it
// declared.
func runCatalog(run func(L *lua.LState) error) (*world.Catalog, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)
	if err := run(L); err != nil {
		return nil, err
	}
	if len(coll.types) == 0 {
		return nil, fmt.Errorf("no unit types declared")
	}

	catalog, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling unit catalog: %w", err)
	}
	return catalog, nil
}

func sortedLuaFiles(files []string) []string {
	sort.Slice(files, func(i, j int) bool {
		if files[i] == UnitsFile {
			return files[j] != UnitsFile
		}
		if files[j] == UnitsFile {
			return false
		}
		return files[i] < files[j]
	})
	return files
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Unit stats must not depend on randomness.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("random", lua.LNil)
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}
