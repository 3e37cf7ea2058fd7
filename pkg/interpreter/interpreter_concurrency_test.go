package interpreter

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

func newSerialInterp(t *testing.T) *Interpreter {
	t.Helper()
	exec := NewSerialExecutor()
	t.Cleanup(exec.Close)
	return NewWithExecutor(exec)
}

func TestGoRunsSpawnedFunction(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("hits", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Def("job", nil,
			ast.ExprS(ast.Call(ast.Member(ast.ID("hits"), "push"), ast.Int(1))),
		),
		ast.Go(ast.Call(ast.ID("job"))),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Call(ast.Member(ast.ID("hits"), "len"))))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 1 {
		t.Fatalf("expected one hit, got %#v", val)
	}
}

func TestGoSeesBindingsAtSpawnTime(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("out", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Mut("x", ast.Int(1)),
		ast.Def("job", nil,
			ast.ExprS(ast.Call(ast.Member(ast.ID("out"), "push"), ast.ID("x"))),
		),
		ast.Go(ast.Call(ast.ID("job"))),
		ast.Assign("x", ast.Int(2)),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Index(ast.ID("out"), ast.Int(0))))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 1 {
		t.Fatalf("expected spawn-time value 1, got %#v", val)
	}
}

func TestGoSharesMutableContainers(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("shared", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Def("job", ast.Params("v"),
			ast.ExprS(ast.Call(ast.Member(ast.ID("shared"), "push"), ast.ID("v"))),
		),
		ast.Go(ast.Call(ast.ID("job"), ast.Int(1))),
		ast.Go(ast.Call(ast.ID("job"), ast.Int(2))),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Call(ast.Member(ast.ID("shared"), "len"))))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 2 {
		t.Fatalf("expected both pushes, got %#v", val)
	}
}

func TestGoWithBoundMethodSharesReceiver(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Cls("Collector", "",
			ast.Def("__init__", ast.Params("self"),
				ast.SetMem(ast.ID("self"), "items", ast.Call(ast.ID("ListMutable"), ast.List())),
			),
			ast.Def("add", ast.Params("self", "v"),
				ast.ExprS(ast.Call(ast.Member(ast.Member(ast.ID("self"), "items"), "push"), ast.ID("v"))),
			),
		),
		ast.Let("c", ast.Call(ast.ID("Collector"))),
		ast.Go(ast.Call(ast.Member(ast.ID("c"), "add"), ast.Int(7))),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(
		ast.Index(ast.Member(ast.ID("c"), "items"), ast.Int(0)),
	))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 7 {
		t.Fatalf("expected 7 via shared receiver, got %#v", val)
	}
}

func TestTaskFailureRecordedAndLogged(t *testing.T) {
	interp := newSerialInterp(t)
	var logBuf bytes.Buffer
	interp.SetLogger(slog.New(slog.NewTextHandler(&logBuf, nil)))
	runProgram(t, interp,
		ast.Def("bad", nil, ast.Raise(ast.Str("oops"))),
		ast.Go(ast.Call(ast.ID("bad"))),
	)
	interp.Wait()

	tasks := interp.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
	failure := tasks[0].Err()
	s, ok := failure.(runtime.StringValue)
	if !ok || s.Val != "oops" {
		t.Fatalf("expected failure value, got %#v", failure)
	}
	if !strings.Contains(logBuf.String(), "task failed") {
		t.Fatalf("expected failure log, got %q", logBuf.String())
	}
}

func TestTaskFailureDoesNotStopSpawner(t *testing.T) {
	interp := newSerialInterp(t)
	val := runProgram(t, interp,
		ast.Def("bad", nil, ast.Raise(ast.Str("oops"))),
		ast.Go(ast.Call(ast.ID("bad"))),
		ast.ExprS(ast.Int(99)),
	)
	interp.Wait()
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 99 {
		t.Fatalf("expected program to continue, got %#v", val)
	}
}

func TestGoEvaluatesArgumentsEagerly(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("out", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Mut("x", ast.Int(10)),
		ast.Def("job", ast.Params("v"),
			ast.ExprS(ast.Call(ast.Member(ast.ID("out"), "push"), ast.ID("v"))),
		),
		ast.Go(ast.Call(ast.ID("job"), ast.ID("x"))),
		ast.Assign("x", ast.Int(20)),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Index(ast.ID("out"), ast.Int(0))))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 10 {
		t.Fatalf("expected argument captured at spawn, got %#v", val)
	}
}

func TestBufferedChannelThroughTask(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("c", ast.Call(ast.ID("chan"), ast.Int(1))),
		ast.Def("producer", nil,
			ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "send"), ast.Int(42))),
		),
		ast.Go(ast.Call(ast.ID("producer"))),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "recv"))))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 42 {
		t.Fatalf("expected 42 from channel, got %#v", val)
	}
}

func TestUnbufferedChannelRendezvous(t *testing.T) {
	interp := New()
	runProgram(t, interp,
		ast.Let("c", ast.Call(ast.ID("chan"))),
		ast.Let("out", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Def("producer", nil,
			ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "send"), ast.Str("ping"))),
		),
		ast.Def("consumer", nil,
			ast.ExprS(ast.Call(ast.Member(ast.ID("out"), "push"),
				ast.Call(ast.Member(ast.ID("c"), "recv")))),
		),
		ast.Go(ast.Call(ast.ID("producer"))),
		ast.Go(ast.Call(ast.ID("consumer"))),
	)
	interp.Wait()

	val := runProgram(t, interp, ast.ExprS(ast.Index(ast.ID("out"), ast.Int(0))))
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "ping" {
		t.Fatalf("expected ping, got %#v", val)
	}
}

func TestRecvOnClosedChannelYieldsVoid(t *testing.T) {
	val := runProgram(t, New(),
		ast.Let("c", ast.Call(ast.ID("chan"), ast.Int(1))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "close"))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "recv"))),
	)
	if _, ok := val.(runtime.VoidValue); !ok {
		t.Fatalf("expected void from closed channel, got %#v", val)
	}
}

func TestDoubleCloseRaises(t *testing.T) {
	expectRaise(t, New(), "close of closed channel",
		ast.Let("c", ast.Call(ast.ID("chan"), ast.Int(1))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "close"))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "close"))),
	)
}

func TestSendOnClosedChannelRaises(t *testing.T) {
	expectRaise(t, New(), "send on closed channel",
		ast.Let("c", ast.Call(ast.ID("chan"), ast.Int(1))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "close"))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "send"), ast.Int(1))),
	)
}

func TestChannelLenCountsBuffered(t *testing.T) {
	val := runProgram(t, New(),
		ast.Let("c", ast.Call(ast.ID("chan"), ast.Int(2))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "send"), ast.Int(1))),
		ast.ExprS(ast.Call(ast.Member(ast.ID("c"), "len"))),
	)
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 1 {
		t.Fatalf("expected len 1, got %#v", val)
	}
}

func TestChanCapacityValidation(t *testing.T) {
	expectRaise(t, New(), "chan capacity cannot be negative",
		ast.ExprS(ast.Call(ast.ID("chan"), ast.Neg(ast.Int(1)))))
	expectRaise(t, New(), "chan capacity must be an integer",
		ast.ExprS(ast.Call(ast.ID("chan"), ast.Str("big"))))
}

func TestGoStatementRequiresCallable(t *testing.T) {
	interp := newSerialInterp(t)
	runProgram(t, interp,
		ast.Let("x", ast.Int(1)),
		ast.Go(ast.Call(ast.ID("x"))),
	)
	interp.Wait()
	tasks := interp.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected task handle, got %d", len(tasks))
	}
	failure := tasks[0].Err()
	inst, ok := failure.(*runtime.InstanceValue)
	if !ok {
		t.Fatalf("expected Error failure, got %#v", failure)
	}
	msg, _ := inst.GetField("message")
	s, ok := msg.(runtime.StringValue)
	if !ok || s.Val != "Not callable: Int" {
		t.Fatalf("unexpected failure message %#v", msg)
	}
}
