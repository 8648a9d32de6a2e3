// Package resolve maps script-local names to live world entities. The
// table never owns an entity; removing an entity from the world leaves
// its name bound to a dead reference.
//
// Names a script introduces while it compiles are staged in a scope that
// lookups see but that is dropped when the scope ends; they become real
// bindings only when Bind is called for them.
package resolve

import (
	"fmt"

	"github.com/nathoo/skirmish/engine/diag"
	"github.com/nathoo/skirmish/engine/world"
)

// DuplicateError indicates a name is already bound.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("name '%s' is already bound", e.Name)
}

// Table is the name → entity binding table of one interpreter session.
type Table struct {
	entries map[string]*world.Entity
	order   []string
	scopes  []map[string]*world.Entity // innermost last
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: map[string]*world.Entity{}}
}

// Bind adds name → e. It fails if name is taken.
func (t *Table) Bind(name string, e *world.Entity) error {
	if _, ok := t.entries[name]; ok {
		return &DuplicateError{Name: name}
	}
	t.entries[name] = e
	t.order = append(t.order, name)
	return nil
}

// BindIfAbsent binds name unless it is taken. It reports whether it bound.
func (t *Table) BindIfAbsent(name string, e *world.Entity) bool {
	return t.Bind(name, e) == nil
}

// Begin opens a staging scope.
func (t *Table) Begin() {
	t.scopes = append(t.scopes, map[string]*world.Entity{})
}

// End closes the innermost staging scope and forgets what it staged.
func (t *Table) End() {
	if len(t.scopes) > 0 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Stage binds name to e in the innermost scope. It fails if name is bound
// or staged anywhere. Without an open scope it binds for good.
func (t *Table) Stage(name string, e *world.Entity) error {
	if len(t.scopes) == 0 {
		return t.Bind(name, e)
	}
	if _, ok := t.Lookup(name); ok {
		return &DuplicateError{Name: name}
	}
	t.scopes[len(t.scopes)-1][name] = e
	return nil
}

// Lookup returns the entity bound or staged under name.
func (t *Table) Lookup(name string) (*world.Entity, bool) {
	if e, ok := t.entries[name]; ok {
		return e, true
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if e, ok := t.scopes[i][name]; ok {
			return e, true
		}
	}
	return nil, false
}

// Resolve is Lookup with a resolution error for unknown names.
func (t *Table) Resolve(name string) (*world.Entity, error) {
	if e, ok := t.Lookup(name); ok {
		return e, nil
	}
	return nil, diag.Errorf(diag.Resolution, "entity '%s' does not exist", name)
}

// NameOf returns the first name bound to e.
func (t *Table) NameOf(e *world.Entity) (string, bool) {
	for _, name := range t.order {
		if t.entries[name] == e {
			return name, true
		}
	}
	return "", false
}

// Clear unbinds name. It reports whether name was bound.
func (t *Table) Clear(name string) bool {
	if _, ok := t.entries[name]; !ok {
		return false
	}
	delete(t.entries, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// ClearAll unbinds every name.
func (t *Table) ClearAll() {
	t.entries = map[string]*world.Entity{}
	t.order = nil
}

// Names lists bound names in binding order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len is the number of bound names.
func (t *Table) Len() int { return len(t.order) }
