package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nathoo/skirmish/engine"
)

// debounce drops repeated events for one file that arrive closer together
// than this; editors often write a file in several steps.
const debounce = 100 * time.Millisecond

// Watcher reports changed game files (scripts, YAML, Lua) under a set of
// directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isGameFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isGameFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".yaml", ".yml", ".lua":
		return true
	}
	return false
}

// Watch runs the script at path, then runs it again on a freshly built
// engine each time the script or any file of the game directory changes.
// It returns when ctx is done.
func (c *CLI) Watch(ctx context.Context, path, gameDir string, rebuild func() (*engine.Engine, error)) error {
	dirs := []string{filepath.Dir(path)}
	if gameDir != "" && filepath.Clean(gameDir) != filepath.Clean(dirs[0]) {
		dirs = append(dirs, gameDir)
	}
	w, err := NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if _, err := c.RunScript(path); err != nil {
		c.printSystem(err.Error())
	}
	c.printSystem(fmt.Sprintf("watching %s, Ctrl+C to stop", strings.Join(dirs, ", ")))

	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			slog.Info("file changed", "path", name)
			eng, err := rebuild()
			if err != nil {
				c.printSystem(fmt.Sprintf("reload failed: %v", err))
				continue
			}
			c.Engine = eng
			c.printLine("")
			if _, err := c.RunScript(path); err != nil {
				c.printSystem(err.Error())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}
