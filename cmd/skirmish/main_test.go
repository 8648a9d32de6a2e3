package main

import (
	"os"
	"path/filepath"
	"testing"
)

const gameDir = "../../games/skirmish"

func TestRun(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("attak s1 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"--version"}, 0},
		{"no game dir", nil, 1},
		{"script without path", []string{"--script"}, 1},
		{"watch without script", []string{"--watch", gameDir}, 1},
		{"missing game", []string{"--script", bad, filepath.Join(t.TempDir(), "nope")}, 1},
		{"missing script", []string{"--script", "nope.txt", gameDir}, 1},
		{"script ok", []string{"--script", filepath.Join(gameDir, "scripts", "opening.txt"), gameDir}, 0},
		{"script fails", []string{"--script", bad, gameDir}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
