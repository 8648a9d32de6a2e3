// Package config defines the per-game settings read from config.yaml.
package config

import "log/slog"

// FileName is the config file looked up in a game directory.
const FileName = "config.yaml"

// LogLevel is a slog level name.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l names a known level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level converts l to a slog level. Unknown names map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Pathfinding names a move planner.
type Pathfinding string

const (
	PathStraight Pathfinding = "straight"
	PathAStar    Pathfinding = "astar"
)

// IsValid reports whether p names a known planner.
func (p Pathfinding) IsValid() bool {
	return p == PathStraight || p == PathAStar
}

// Config holds the settings of one game directory.
type Config struct {
	// AbortOnError stops compilation at the first error.
	AbortOnError bool `yaml:"abort_on_error"`

	// ScriptsDir is where @ldscript and /run look for scripts, relative to
	// the game directory.
	ScriptsDir string `yaml:"scripts_dir"`

	// MoveSpeed is the walking animation speed in tiles per second.
	MoveSpeed   float64     `yaml:"move_speed"`
	Pathfinding Pathfinding `yaml:"pathfinding"`

	// Owner is the player the console acts for at start.
	Owner int `yaml:"owner"`

	// Seed feeds the damage dice.
	Seed     int64    `yaml:"seed"`
	LogLevel LogLevel `yaml:"log_level"`
	LogFile  string   `yaml:"log_file"`

	// MaxScriptDepth bounds @ldscript nesting.
	MaxScriptDepth int `yaml:"max_script_depth"`
}

// Default returns the settings used when a game has no config.yaml.
func Default() Config {
	return Config{
		ScriptsDir:     "scripts",
		MoveSpeed:      5,
		Pathfinding:    PathStraight,
		Owner:          1,
		Seed:           1,
		LogLevel:       LogInfo,
		MaxScriptDepth: 8,
	}
}
