package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nathoo/skirmish/engine"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine to write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIsGameFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"scripts/opening.txt", true},
		{"map.yaml", true},
		{"config.YML", true},
		{"units.lua", true},
		{"notes.md", false},
		{"opening.txt~", false},
		{"scripts", false},
	}
	for _, tt := range tests {
		if got := isGameFile(tt.path); got != tt.want {
			t.Errorf("isGameFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "scenario.txt")
	if err := os.WriteFile(script, []byte("@display s1 HP\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := &syncBuffer{}
	c := New(testEngine(t))
	c.Out = out

	var mu sync.Mutex
	rebuilds := 0
	rebuild := func() (*engine.Engine, error) {
		mu.Lock()
		rebuilds++
		mu.Unlock()
		return testEngine(t), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, script, "", rebuild) }()

	waitFor(t, "the first run", func() bool { return strings.Contains(out.String(), "watching") })
	if !strings.Contains(out.String(), "s1.HP = 4") {
		t.Errorf("first run output:\n%s", out.String())
	}

	if err := os.WriteFile(script, []byte("@display s1 Type\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "the re-run", func() bool { return strings.Contains(out.String(), "s1.Type = SoldierEntity") })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if rebuilds == 0 {
		t.Error("expected the engine to be rebuilt")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	c := New(testEngine(t))
	c.Out = &bytes.Buffer{}
	err := c.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "x.txt"), "", nil)
	if err == nil {
		t.Error("expected error for a missing directory")
	}
}
