package interp

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/engine/world"
)

// Handler turns bound arguments into an interaction. Commands that act at
// compile time (bindings, trackers, nested scripts) return a nil interaction.
type Handler func(ip *Interpreter, args parser.Args) (*world.Interaction, error)

// Command is one entry of the command table.
type Command struct {
	Name   string
	Params []string
	Run    Handler
}

// Registry is an ordered command table. Iteration order is registration
// order, which is also the order suggestions are searched in.
type Registry struct {
	byName map[string]*Command
	order  []*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Command{}}
}

// Register adds c. Registering a name twice panics.
func (r *Registry) Register(c Command) {
	if _, dup := r.byName[c.Name]; dup {
		panic(fmt.Sprintf("interp: command %q registered twice", c.Name))
	}
	cmd := c
	r.byName[c.Name] = &cmd
	r.order = append(r.order, &cmd)
}

// Lookup finds a command by exact name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names lists command names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, c := range r.order {
		out[i] = c.Name
	}
	return out
}

// Commands returns the registered commands in order.
func (r *Registry) Commands() []Command {
	out := make([]Command, len(r.order))
	for i, c := range r.order {
		out[i] = *c
	}
	return out
}

// DefaultRegistry returns the standard command set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []Command{
		{Name: "attack", Params: []string{"src", "x", "y"}, Run: attackCmd},
		{Name: "move", Params: []string{"src", "x", "y"}, Run: moveCmd},
		{Name: "spawn", Params: []string{"src", "x", "y", "type", "name"}, Run: spawnCmd},
		{Name: "@control", Params: []string{"dst"}, Run: controlCmd},
		{Name: "resetmp", Params: []string{"src"}, Run: resetMPCmd},
		{Name: "spawnfactory", Params: []string{"ownerId", "x", "y", "name"}, Run: spawnFactoryCmd},
		{Name: "@ldscript", Params: []string{"filename"}, Run: loadScriptCmd},
		{Name: "@display", Params: []string{"src", "property"}, Run: displayCmd},
		{Name: "@untrack", Params: []string{"src", "property"}, Run: untrackCmd},
		{Name: "@track", Params: []string{"src", "property"}, Run: trackCmd},
		{Name: "@untrackall", Params: []string{"src"}, Run: untrackAllCmd},
		{Name: "@clearlocal", Params: []string{"entity"}, Run: clearLocalCmd},
		{Name: "@importfactory", Params: []string{"ownerId", "name"}, Run: importFactoryCmd},
	} {
		r.Register(c)
	}
	return r
}
