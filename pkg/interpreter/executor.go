package interpreter

import (
	"context"
	"fmt"
	"sync"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

// TaskFunc is one unit of spawned work. It returns the failure value when
// the task raised, or nil when it completed cleanly.
type TaskFunc func(ctx context.Context) runtime.Value

// Executor abstracts the scheduling strategy behind go statements.
type Executor interface {
	Spawn(task *runtime.Task, fn TaskFunc)
	Flush()
}

// GoroutineExecutor runs each task on its own goroutine.
type GoroutineExecutor struct{}

func NewGoroutineExecutor() *GoroutineExecutor {
	return &GoroutineExecutor{}
}

func (e *GoroutineExecutor) Spawn(task *runtime.Task, fn TaskFunc) {
	go func() {
		task.Finish(fn(context.Background()))
	}()
}

func (e *GoroutineExecutor) Flush() {}

type serialTask struct {
	task *runtime.Task
	fn   TaskFunc
}

// SerialExecutor executes tasks one at a time on a single worker goroutine
// so tests observe a deterministic interleaving.
type SerialExecutor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []serialTask
	closed bool
	active bool
}

func NewSerialExecutor() *SerialExecutor {
	exec := &SerialExecutor{}
	exec.cond = sync.NewCond(&exec.mu)
	go exec.loop()
	return exec
}

func (e *SerialExecutor) Spawn(task *runtime.Task, fn TaskFunc) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		task.Finish(nil)
		return
	}
	e.queue = append(e.queue, serialTask{task: task, fn: fn})
	e.cond.Signal()
	e.mu.Unlock()
}

func (e *SerialExecutor) loop() {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if e.closed && len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.active = true
		e.mu.Unlock()

		next.task.Finish(next.fn(context.Background()))

		e.mu.Lock()
		e.active = false
		e.cond.Broadcast()
		e.mu.Unlock()
	}
}

func (e *SerialExecutor) Flush() {
	e.mu.Lock()
	for (len(e.queue) > 0 || e.active) && !e.closed {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

func (e *SerialExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

//-----------------------------------------------------------------------------
// go statement

// executeGo evaluates the callee and arguments in the spawning scope, then
// hands a call to the executor. A spawned function closes over a snapshot of
// its defining environment, so later rebindings in the parent are invisible
// to the task while shared mutable containers remain shared.
func (i *Interpreter) executeGo(n *ast.GoStatement, env *runtime.Environment) error {
	callee, err := i.evaluateExpression(n.Call.Callee, env)
	if err != nil {
		return err
	}
	args, err := i.evaluateExpressions(n.Call.Args, env)
	if err != nil {
		return err
	}

	switch v := callee.(type) {
	case *runtime.FunctionValue:
		callee = &runtime.FunctionValue{Decl: v.Decl, Closure: v.Closure.Snapshot(), PartialArgs: v.PartialArgs}
	case runtime.BoundMethodValue:
		method := v.Method
		callee = runtime.BoundMethodValue{
			Receiver: v.Receiver,
			Method:   &runtime.FunctionValue{Decl: method.Decl, Closure: method.Closure.Snapshot(), PartialArgs: method.PartialArgs},
		}
	}

	i.spawnTask(taskName(callee), callee, args)
	return nil
}

func (i *Interpreter) spawnTask(name string, callee runtime.Value, args []runtime.Value) *runtime.Task {
	id := i.nextTaskID.Add(1)
	task := runtime.NewTask(id, name)
	i.mu.Lock()
	i.tasks = append(i.tasks, task)
	i.mu.Unlock()

	fn := func(ctx context.Context) (failure runtime.Value) {
		defer func() {
			if r := recover(); r != nil {
				failure = i.newError(fmt.Sprintf("panic: %v", r))
				i.logger.Error("task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()
		if _, err := i.applyCallable(callee, args); err != nil {
			if val, ok := RaisedValue(err); ok {
				failure = val
			} else {
				failure = i.newError(err.Error())
			}
			i.logger.Warn("task failed", "task", name, "error", err.Error())
		}
		return failure
	}
	i.executor.Spawn(task, fn)
	return task
}

func taskName(callee runtime.Value) string {
	switch v := callee.(type) {
	case *runtime.FunctionValue:
		if v.Decl.Name != "" {
			return v.Decl.Name
		}
		return "function"
	case runtime.BoundMethodValue:
		return v.Method.Decl.Name
	case runtime.NativeFunctionValue:
		return v.Name
	case runtime.NativeBoundMethodValue:
		return v.Method.Name
	case *runtime.ClassValue:
		return v.Name
	case *runtime.RecordConstructorValue:
		return v.Name
	default:
		return typeName(callee)
	}
}
