package interpreter

import (
	"strings"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

// ModuleRegistry resolves dotted import paths ("std.math") to native module
// values. File imports never reach the interpreter: the driver splices them
// into the program before execution.
type ModuleRegistry interface {
	Lookup(path string) (runtime.Value, bool)
}

// executeImport binds a registry module under the final segment of its
// dotted path. An unknown module is not an error: it is reported and the
// statement binds nothing, so scripts can degrade when an optional module
// is absent.
func (i *Interpreter) executeImport(n *ast.ImportStatement, env *runtime.Environment) error {
	if n.Quoted {
		i.logger.Warn("unresolved file import reached the interpreter", "path", n.Path)
		return nil
	}
	if i.registry != nil {
		if module, ok := i.registry.Lookup(n.Path); ok {
			segments := strings.Split(n.Path, ".")
			env.Define(segments[len(segments)-1], module)
			return nil
		}
	}
	i.logger.Warn("unknown module", "path", n.Path)
	return nil
}
