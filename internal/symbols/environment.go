package symbols

import (
	"sort"

	"github.com/funvibe/refcheck/internal/typesystem"
)

// Environment maps binding names to their declared types for one lexical frame.
//
// A child frame stores only its own bindings and resolves everything else
// through outer. The checker never writes to a frame while one of its children
// is active, so a child observes exactly the bindings that were visible when it
// was entered, and nothing written to the child is seen by the parent.
type Environment struct {
	store map[string]typesystem.Type
	outer *Environment
	depth int
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]typesystem.Type)}
}

// EnterChild returns a new frame enclosed by e.
func (e *Environment) EnterChild() *Environment {
	child := NewEnvironment()
	child.outer = e
	child.depth = e.depth + 1
	return child
}

// Lookup returns the type bound to name in the innermost frame that binds it.
func (e *Environment) Lookup(name string) (typesystem.Type, bool) {
	for env := e; env != nil; env = env.outer {
		if t, ok := env.store[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Bind inserts or overwrites name in this frame only.
func (e *Environment) Bind(name string, t typesystem.Type) {
	e.store[name] = t
}

// Depth is the number of frames enclosing e; the top-level frame has depth 0.
func (e *Environment) Depth() int {
	return e.depth
}

// Names returns every visible binding name, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
