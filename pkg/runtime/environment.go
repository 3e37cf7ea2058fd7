package runtime

import (
	"fmt"
	"sort"
	"sync"
)

// Environment provides lexical scoping for Ember runtime values. Each frame
// guards its own bindings with a read/write lock so spawned tasks can read
// ancestor scopes while the owning task keeps executing.
type Environment struct {
	mu     sync.RWMutex
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Child opens a new scope nested under the current one.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.mu.Lock()
	e.values[name] = value
	e.mu.Unlock()
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	e.mu.Lock()
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return fmt.Errorf("Undefined variable '%s'", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	e.mu.RLock()
	if v, ok := e.values[name]; ok {
		e.mu.RUnlock()
		return v, nil
	}
	e.mu.RUnlock()
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, fmt.Errorf("Undefined variable '%s'", name)
}

// Has reports whether the name resolves anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	_, ok := e.values[name]
	e.mu.RUnlock()
	if ok {
		return true
	}
	if e.parent != nil {
		return e.parent.Has(name)
	}
	return false
}

// Keys returns the current scope's bindings in sorted order (useful for
// determinism in tests).
func (e *Environment) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot flattens every visible binding into a fresh parentless scope,
// innermost shadow winning. Spawned tasks run against the snapshot: later
// plain rebindings in either task are invisible to the other, while mutable
// container values keep pointing at shared backing stores.
func (e *Environment) Snapshot() *Environment {
	var chain []*Environment
	for env := e; env != nil; env = env.parent {
		chain = append(chain, env)
	}
	flat := NewEnvironment(nil)
	for i := len(chain) - 1; i >= 0; i-- {
		src := chain[i]
		src.mu.RLock()
		for k, v := range src.values {
			flat.values[k] = v
		}
		src.mu.RUnlock()
	}
	return flat
}
