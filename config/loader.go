package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads <dir>/config.yaml over the defaults. A missing file yields
// the defaults.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg Config) error {
	var errs []error
	if cfg.MoveSpeed <= 0 {
		errs = append(errs, fmt.Errorf("move_speed %.2f must be positive", cfg.MoveSpeed))
	}
	if !cfg.Pathfinding.IsValid() {
		errs = append(errs, fmt.Errorf("pathfinding %q is invalid; valid values: straight, astar", cfg.Pathfinding))
	}
	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.MaxScriptDepth < 1 {
		errs = append(errs, fmt.Errorf("max_script_depth %d must be at least 1", cfg.MaxScriptDepth))
	}
	if cfg.ScriptsDir == "" {
		errs = append(errs, errors.New("scripts_dir is required"))
	}
	return errors.Join(errs...)
}
