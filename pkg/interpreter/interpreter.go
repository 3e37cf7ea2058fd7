package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of Ember AST nodes. One interpreter owns one
// global environment; spawned tasks run against snapshots of it.
type Interpreter struct {
	global     *runtime.Environment
	executor   Executor
	registry   ModuleRegistry
	logger     *slog.Logger
	stdout     io.Writer
	errorClass *runtime.ClassValue

	mu         sync.Mutex
	tasks      []*runtime.Task
	nextTaskID atomic.Int64
}

// New returns an interpreter backed by goroutine scheduling.
func New() *Interpreter {
	return NewWithExecutor(NewGoroutineExecutor())
}

// NewWithExecutor returns an interpreter that schedules spawned tasks through
// the provided executor. Tests pass a SerialExecutor for determinism.
func NewWithExecutor(executor Executor) *Interpreter {
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		executor: executor,
		logger:   slog.Default(),
		stdout:   os.Stdout,
	}
	i.registerBuiltins()
	i.bootstrapErrorClass()
	return i
}

// Global returns the interpreter's global environment.
func (i *Interpreter) Global() *runtime.Environment {
	return i.global
}

// UseRegistry installs the native module registry consulted by imports.
func (i *Interpreter) UseRegistry(registry ModuleRegistry) {
	i.registry = registry
}

// SetLogger replaces the structured logger used for task failures and
// unresolved imports.
func (i *Interpreter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		i.logger = logger
	}
}

// SetStdout redirects print output.
func (i *Interpreter) SetStdout(w io.Writer) {
	if w != nil {
		i.stdout = w
	}
}

// Run executes a program in the global environment and returns the value of
// the last expression statement (Void when the program ends on any other
// statement). Errors are raise signals; use RaisedValue to recover the
// script-level error value.
func (i *Interpreter) Run(program *ast.Program) (runtime.Value, error) {
	var last runtime.Value = runtime.VoidValue{}
	for _, stmt := range program.Statements {
		if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
			val, err := i.evaluateExpression(exprStmt.Expr, i.global)
			if err != nil {
				return nil, err
			}
			last = val
			continue
		}
		flow, err := i.executeStatement(stmt, i.global)
		if err != nil {
			return nil, err
		}
		switch flow.Kind {
		case runtime.FlowReturn:
			return nil, i.raiseError("return outside function")
		case runtime.FlowBreak:
			return nil, i.raiseError("'break' outside loop")
		case runtime.FlowContinue:
			return nil, i.raiseError("'continue' outside loop")
		}
		last = runtime.VoidValue{}
	}
	return last, nil
}

// Wait blocks until every spawned task has finished. Failures were already
// reported through the task handles and the logger; Wait only drains.
func (i *Interpreter) Wait() {
	i.executor.Flush()
	i.mu.Lock()
	pending := make([]*runtime.Task, len(i.tasks))
	copy(pending, i.tasks)
	i.mu.Unlock()
	for _, task := range pending {
		<-task.Done()
	}
}

// Tasks returns the handles of every task spawned so far.
func (i *Interpreter) Tasks() []*runtime.Task {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]*runtime.Task, len(i.tasks))
	copy(out, i.tasks)
	return out
}

// executeBlock runs statements in order; the first non-normal flow
// short-circuits the rest.
func (i *Interpreter) executeBlock(stmts []ast.Statement, env *runtime.Environment) (runtime.Flow, error) {
	for _, stmt := range stmts {
		flow, err := i.executeStatement(stmt, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		if !flow.IsNormal() {
			return flow, nil
		}
	}
	return runtime.NormalFlow(), nil
}

// bootstrapErrorClass defines the builtin Error class the same way a script
// would, so user subclasses and structural comparison work unchanged:
//
//	class Error:
//	    def __init__(self, message):
//	        self.message = message
func (i *Interpreter) bootstrapErrorClass() {
	decl := ast.Cls("Error", "",
		ast.Def("__init__", ast.Params("self", "message"),
			ast.SetMem(ast.ID("self"), "message", ast.ID("message")),
		),
	)
	if _, err := i.executeStatement(decl, i.global); err != nil {
		panic(fmt.Sprintf("interpreter: Error class bootstrap failed: %v", err))
	}
	val, err := i.global.Get("Error")
	if err != nil {
		panic("interpreter: Error class missing after bootstrap")
	}
	i.errorClass = val.(*runtime.ClassValue)
}

// newError builds an Error instance without routing through __init__.
func (i *Interpreter) newError(message string) *runtime.InstanceValue {
	inst := runtime.NewInstance(i.errorClass)
	inst.SetField("message", runtime.StringValue{Val: message})
	return inst
}

func (i *Interpreter) raiseError(format string, args ...any) error {
	return raiseSignal{value: i.newError(fmt.Sprintf(format, args...))}
}

func (i *Interpreter) raiseValue(val runtime.Value) error {
	return raiseSignal{value: val}
}

// raiseSignal carries a script-level error value through Go's error channel.
// Everything the interpreter reports, from type mismatches to user raises,
// travels as one of these, so except clauses treat them uniformly.
type raiseSignal struct {
	value runtime.Value
}

func (r raiseSignal) Error() string {
	if inst, ok := r.value.(*runtime.InstanceValue); ok {
		if msg, ok := inst.GetField("message"); ok {
			if s, ok := msg.(runtime.StringValue); ok {
				return s.Val
			}
		}
	}
	return valueToString(r.value)
}

// RaisedValue extracts the script-level error value from an interpreter
// error, if it carries one.
func RaisedValue(err error) (runtime.Value, bool) {
	if rs, ok := err.(raiseSignal); ok {
		return rs.value, true
	}
	return nil, false
}
