// Package native hosts the built-in module library reachable from scripts
// through `import std.<name>`. Every module is a NativeModuleValue whose
// members are host functions; failures are returned as plain errors and the
// interpreter surfaces them as catchable Error instances.
package native

import (
	"ember/interpreter-go/pkg/runtime"
)

// Registry maps dotted import paths to native modules. It is populated once,
// before any script runs, and is safe for concurrent lookups afterwards.
type Registry struct {
	modules map[string]runtime.NativeModuleValue
}

// New builds the full standard registry.
func New() *Registry {
	r := &Registry{modules: make(map[string]runtime.NativeModuleValue)}
	r.register(mathModule())
	r.register(fsModule())
	r.register(timeModule())
	r.register(envModule())
	r.register(pathModule())
	r.register(processModule())
	r.register(jsonModule())
	r.register(randomModule())
	r.register(sqliteModule())
	r.register(markdownModule())
	r.register(gzipModule())
	return r
}

func (r *Registry) register(m runtime.NativeModuleValue) {
	r.modules["std."+m.Name] = m
}

// Lookup resolves a dotted import path. Only exact matches hit; anything the
// registry does not know is left to the caller to diagnose.
func (r *Registry) Lookup(path string) (runtime.Value, bool) {
	m, ok := r.modules[path]
	if !ok {
		return nil, false
	}
	return m, true
}

// Paths lists the registered import paths in no particular order.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	return out
}

// module assembles a NativeModuleValue from a function table. Functions are
// registered variadic; each implementation checks its own argument count so
// the original diagnostics survive verbatim.
func module(name string, fns map[string]runtime.NativeFunc) runtime.NativeModuleValue {
	members := make(map[string]runtime.Value, len(fns))
	for fname, impl := range fns {
		members[fname] = runtime.NativeFunctionValue{Name: fname, Arity: -1, Impl: impl}
	}
	return runtime.NativeModuleValue{Name: name, Members: members}
}
