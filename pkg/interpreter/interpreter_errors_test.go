package interpreter

import (
	"bytes"
	"testing"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

func TestRaiseStringIsCatchable(t *testing.T) {
	val := runProgram(t, New(),
		ast.Mut("got", ast.Str("")),
		ast.Try(
			ast.Block(ast.Raise(ast.Str("boom"))),
			ast.Catch("e", ast.Assign("got", ast.ID("e"))),
			nil,
		),
		ast.ExprS(ast.ID("got")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "boom" {
		t.Fatalf("expected boom, got %#v", val)
	}
}

func TestUncaughtRaiseSurfacesValue(t *testing.T) {
	interp := New()
	_, err := interp.Run(ast.Prog(ast.Raise(ast.Str("boom"))))
	if err == nil {
		t.Fatalf("expected error")
	}
	raised, ok := RaisedValue(err)
	if !ok {
		t.Fatalf("expected raised value, got %v", err)
	}
	s, ok := raised.(runtime.StringValue)
	if !ok || s.Val != "boom" {
		t.Fatalf("expected boom, got %#v", raised)
	}
}

func TestErrorClassIsPredefined(t *testing.T) {
	val := runProgram(t, New(),
		ast.ExprS(ast.Member(ast.Call(ast.ID("Error"), ast.Str("msg")), "message")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "msg" {
		t.Fatalf("expected msg, got %#v", val)
	}
}

func TestUserSubclassOfError(t *testing.T) {
	val := runProgram(t, New(),
		ast.Cls("ParseError", "Error"),
		ast.ExprS(ast.Member(ast.Call(ast.ID("ParseError"), ast.Str("bad token")), "message")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "bad token" {
		t.Fatalf("expected inherited __init__, got %#v", val)
	}
}

func TestRuntimeErrorsAreCatchable(t *testing.T) {
	val := runProgram(t, New(),
		ast.Mut("got", ast.Str("")),
		ast.Try(
			ast.Block(ast.ExprS(ast.Bin("/", ast.Int(1), ast.Int(0)))),
			ast.Catch("e", ast.Assign("got", ast.Member(ast.ID("e"), "message"))),
			nil,
		),
		ast.ExprS(ast.ID("got")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "Division by zero" {
		t.Fatalf("expected division message, got %#v", val)
	}
}

func TestCaughtErrorComparesStructurally(t *testing.T) {
	val := runProgram(t, New(),
		ast.Mut("same", ast.Bool(false)),
		ast.Try(
			ast.Block(ast.Raise(ast.Call(ast.ID("Error"), ast.Str("x")))),
			ast.Catch("e", ast.Assign("same",
				ast.Bin("==", ast.ID("e"), ast.Call(ast.ID("Error"), ast.Str("x"))),
			)),
			nil,
		),
		ast.ExprS(ast.ID("same")),
	)
	b, ok := val.(runtime.BoolValue)
	if !ok || !b.Val {
		t.Fatalf("expected structural match, got %#v", val)
	}
}

func TestExceptSkippedWithoutRaise(t *testing.T) {
	val := runProgram(t, New(),
		ast.Let("log", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Try(
			ast.Block(ast.ExprS(ast.Call(ast.Member(ast.ID("log"), "push"), ast.Str("body")))),
			ast.Catch("e", ast.ExprS(ast.Call(ast.Member(ast.ID("log"), "push"), ast.Str("catch")))),
			ast.Block(ast.ExprS(ast.Call(ast.Member(ast.ID("log"), "push"), ast.Str("finally")))),
		),
		ast.ExprS(ast.Call(ast.Member(ast.ID("log"), "len"))),
	)
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 2 {
		t.Fatalf("expected body+finally only, got %#v", val)
	}
}

func TestFinallyRunsWhenUncaught(t *testing.T) {
	interp := New()
	global := interp.Global()
	_, err := interp.Run(ast.Prog(
		ast.Let("log", ast.Call(ast.ID("ListMutable"), ast.List())),
		ast.Try(
			ast.Block(ast.Raise(ast.Str("x"))),
			nil,
			ast.Block(ast.ExprS(ast.Call(ast.Member(ast.ID("log"), "push"), ast.Str("finally")))),
		),
	))
	if err == nil {
		t.Fatalf("expected raise to propagate")
	}
	logVal, getErr := global.Get("log")
	if getErr != nil {
		t.Fatalf("log not defined: %v", getErr)
	}
	lm := logVal.(*runtime.ListMutableValue)
	if lm.Len() != 1 {
		t.Fatalf("expected finally to run once, got %d entries", lm.Len())
	}
}

func TestFinallyReturnOverridesPending(t *testing.T) {
	val := runProgram(t, New(),
		ast.Def("f", nil,
			ast.Try(
				ast.Block(ast.Ret(ast.Int(1))),
				nil,
				ast.Block(ast.Ret(ast.Int(2))),
			),
		),
		ast.ExprS(ast.Call(ast.ID("f"))),
	)
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 2 {
		t.Fatalf("expected finally to win, got %#v", val)
	}
}

func TestFinallyRunsWithoutDisturbingReturn(t *testing.T) {
	interp := New()
	var buf bytes.Buffer
	interp.SetStdout(&buf)
	val := runProgram(t, interp,
		ast.Def("f", nil,
			ast.Try(
				ast.Block(ast.Ret(ast.Int(1))),
				nil,
				ast.Block(ast.ExprS(ast.Call(ast.ID("print"), ast.Str("x")))),
			),
		),
		ast.ExprS(ast.Call(ast.ID("f"))),
	)
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 1 {
		t.Fatalf("expected pending return to survive finally, got %#v", val)
	}
	if got := buf.String(); got != "x\n" {
		t.Fatalf("expected finally to print, got %q", got)
	}
}

func TestFinallyRaiseOverridesCaught(t *testing.T) {
	interp := New()
	_, err := interp.Run(ast.Prog(
		ast.Try(
			ast.Block(ast.Raise(ast.Str("first"))),
			ast.Catch("e", ast.ExprS(ast.Int(0))),
			ast.Block(ast.Raise(ast.Str("second"))),
		),
	))
	if err == nil || err.Error() != "second" {
		t.Fatalf("expected second, got %v", err)
	}
}

func TestCatchCanReraise(t *testing.T) {
	interp := New()
	_, err := interp.Run(ast.Prog(
		ast.Try(
			ast.Block(ast.Raise(ast.Str("a"))),
			ast.Catch("e", ast.Raise(ast.Str("b"))),
			nil,
		),
	))
	if err == nil || err.Error() != "b" {
		t.Fatalf("expected b, got %v", err)
	}
}

func TestNestedTryCatchesInnerFirst(t *testing.T) {
	val := runProgram(t, New(),
		ast.Mut("got", ast.Str("")),
		ast.Try(
			ast.Block(
				ast.Try(
					ast.Block(ast.Raise(ast.Str("inner"))),
					ast.Catch("e", ast.Assign("got", ast.ID("e"))),
					nil,
				),
			),
			ast.Catch("e", ast.Assign("got", ast.Str("outer"))),
			nil,
		),
		ast.ExprS(ast.ID("got")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "inner" {
		t.Fatalf("expected inner handler, got %#v", val)
	}
}

func TestRaiseFromAttachesCause(t *testing.T) {
	val := runProgram(t, New(),
		ast.Mut("got", ast.Str("")),
		ast.Try(
			ast.Block(ast.RaiseFrom(
				ast.Call(ast.ID("Error"), ast.Str("top")),
				ast.Call(ast.ID("Error"), ast.Str("root")),
			)),
			ast.Catch("e", ast.Assign("got",
				ast.Member(ast.Member(ast.ID("e"), "cause"), "message"),
			)),
			nil,
		),
		ast.ExprS(ast.ID("got")),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "root" {
		t.Fatalf("expected root cause, got %#v", val)
	}
}

func TestRaiseFromRequiresInstance(t *testing.T) {
	expectRaise(t, New(), "Cannot attach cause to String",
		ast.RaiseFrom(ast.Str("top"), ast.Call(ast.ID("Error"), ast.Str("root"))),
	)
}

func TestCatchBinderIsScopedToHandler(t *testing.T) {
	interp := New()
	runProgram(t, interp,
		ast.Try(
			ast.Block(ast.Raise(ast.Str("x"))),
			ast.Catch("e", ast.ExprS(ast.ID("e"))),
			nil,
		),
	)
	expectRaise(t, interp, "Undefined variable 'e'", ast.ExprS(ast.ID("e")))
}

func TestImmutableListMutatorMessage(t *testing.T) {
	expectRaise(t, New(), "Cannot call 'push' on immutable List. Use ListMutable if modifications are needed.",
		ast.ExprS(ast.Member(ast.List(ast.Int(1)), "push")),
	)
}

func TestUnknownMethodMessages(t *testing.T) {
	expectRaise(t, New(), "Method 'wat' not found on List",
		ast.ExprS(ast.Member(ast.List(), "wat")))
	expectRaise(t, New(), "Type does not support method 'wat'",
		ast.ExprS(ast.Member(ast.Int(1), "wat")))
	expectRaise(t, New(), "Method 'wat' not found on Empty",
		ast.Cls("Empty", ""),
		ast.ExprS(ast.Member(ast.Call(ast.ID("Empty")), "wat")))
}

func TestToStringHookUsedByStr(t *testing.T) {
	val := runProgram(t, New(),
		ast.Cls("Greeter", "",
			ast.Def("to_string", ast.Params("self"), ast.Ret(ast.Str("hi!"))),
		),
		ast.ExprS(ast.Call(ast.ID("str"), ast.Call(ast.ID("Greeter")))),
	)
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "hi!" {
		t.Fatalf("expected to_string hook, got %#v", val)
	}
}

func TestToStringMustReturnString(t *testing.T) {
	expectRaise(t, New(), "to_string must return a String, got Int",
		ast.Cls("Bad", "",
			ast.Def("to_string", ast.Params("self"), ast.Ret(ast.Int(1))),
		),
		ast.ExprS(ast.Call(ast.ID("str"), ast.Call(ast.ID("Bad")))),
	)
}
