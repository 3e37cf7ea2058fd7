package native

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ember/interpreter-go/pkg/runtime"
)

func stdModule(t *testing.T, path string) runtime.Value {
	t.Helper()
	v, ok := New().Lookup(path)
	if !ok {
		t.Fatalf("registry has no module %q", path)
	}
	return v
}

func lookupFn(t *testing.T, mod runtime.Value, name string) runtime.NativeFunctionValue {
	t.Helper()
	m, ok := mod.(runtime.NativeModuleValue)
	if !ok {
		t.Fatalf("expected a native module, got %#v", mod)
	}
	member, ok := m.Members[name]
	if !ok {
		t.Fatalf("module %q has no member %q", m.Name, name)
	}
	fn, ok := member.(runtime.NativeFunctionValue)
	if !ok {
		t.Fatalf("expected %q to be a native function, got %#v", name, member)
	}
	return fn
}

func call(t *testing.T, mod runtime.Value, name string, args ...runtime.Value) (runtime.Value, error) {
	t.Helper()
	fn := lookupFn(t, mod, name)
	return fn.Impl(&runtime.NativeCallContext{}, args)
}

func callOK(t *testing.T, mod runtime.Value, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	v, err := call(t, mod, name, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return v
}

func wantErr(t *testing.T, mod runtime.Value, name, message string, args ...runtime.Value) {
	t.Helper()
	_, err := call(t, mod, name, args...)
	if err == nil {
		t.Fatalf("%s did not fail", name)
	}
	if err.Error() != message {
		t.Fatalf("%s failed with %q, want %q", name, err.Error(), message)
	}
}

func asFloat(t *testing.T, v runtime.Value) float64 {
	t.Helper()
	fv, ok := v.(runtime.FloatValue)
	if !ok {
		t.Fatalf("expected Float, got %#v", v)
	}
	return fv.Val
}

func asString(t *testing.T, v runtime.Value) string {
	t.Helper()
	sv, ok := v.(runtime.StringValue)
	if !ok {
		t.Fatalf("expected String, got %#v", v)
	}
	return sv.Val
}

func str(s string) runtime.StringValue { return runtime.StringValue{Val: s} }

//-----------------------------------------------------------------------------
// Registry
//-----------------------------------------------------------------------------

func TestRegistryResolvesEveryModule(t *testing.T) {
	paths := []string{
		"std.math", "std.fs", "std.time", "std.env", "std.path",
		"std.process", "std.json", "std.random", "std.sqlite",
		"std.markdown", "std.gzip",
	}
	reg := New()
	for _, p := range paths {
		if _, ok := reg.Lookup(p); !ok {
			t.Fatalf("registry is missing %q", p)
		}
	}
	if got := len(reg.Paths()); got != len(paths) {
		t.Fatalf("registry has %d modules, want %d", got, len(paths))
	}
}

func TestRegistryMissesUnknownPaths(t *testing.T) {
	reg := New()
	for _, p := range []string{"std.nope", "math", "std", ""} {
		if _, ok := reg.Lookup(p); ok {
			t.Fatalf("registry unexpectedly resolved %q", p)
		}
	}
}

//-----------------------------------------------------------------------------
// std.math
//-----------------------------------------------------------------------------

func TestMathUnaryFunctions(t *testing.T) {
	m := stdModule(t, "std.math")
	cases := []struct {
		fn   string
		arg  runtime.Value
		want float64
	}{
		{"sqrt", runtime.IntValue{Val: 9}, 3},
		{"sqrt", runtime.FloatValue{Val: 2.25}, 1.5},
		{"abs", runtime.FloatValue{Val: -3.5}, 3.5},
		{"abs", runtime.IntValue{Val: -4}, 4},
		{"ceil", runtime.FloatValue{Val: 2.1}, 3},
		{"floor", runtime.FloatValue{Val: 2.9}, 2},
		{"round", runtime.FloatValue{Val: 2.5}, 3},
		{"sin", runtime.IntValue{Val: 0}, 0},
		{"cos", runtime.IntValue{Val: 0}, 1},
		{"tan", runtime.IntValue{Val: 0}, 0},
	}
	for _, tc := range cases {
		if got := asFloat(t, callOK(t, m, tc.fn, tc.arg)); got != tc.want {
			t.Fatalf("%s(%#v) = %v, want %v", tc.fn, tc.arg, got, tc.want)
		}
	}
}

func TestMathPow(t *testing.T) {
	m := stdModule(t, "std.math")
	if got := asFloat(t, callOK(t, m, "pow", runtime.IntValue{Val: 2}, runtime.IntValue{Val: 10})); got != 1024 {
		t.Fatalf("pow(2, 10) = %v, want 1024", got)
	}
}

func TestMathErrors(t *testing.T) {
	m := stdModule(t, "std.math")
	wantErr(t, m, "sqrt", "Expected 1 argument")
	wantErr(t, m, "sqrt", "Expected Float or Int", str("x"))
	wantErr(t, m, "pow", "Expected 2 arguments", runtime.IntValue{Val: 2})
}

//-----------------------------------------------------------------------------
// std.random
//-----------------------------------------------------------------------------

func TestRandomFloatRange(t *testing.T) {
	m := stdModule(t, "std.random")
	for i := 0; i < 100; i++ {
		got := asFloat(t, callOK(t, m, "random"))
		if got < 0 || got >= 1 {
			t.Fatalf("random() = %v, want [0, 1)", got)
		}
	}
}

func TestRandintInclusiveBounds(t *testing.T) {
	m := stdModule(t, "std.random")
	if got := callOK(t, m, "randint", runtime.IntValue{Val: 3}, runtime.IntValue{Val: 3}); got != (runtime.IntValue{Val: 3}) {
		t.Fatalf("randint(3, 3) = %#v, want 3", got)
	}
	for i := 0; i < 200; i++ {
		got, ok := callOK(t, m, "randint", runtime.IntValue{Val: 1}, runtime.IntValue{Val: 6}).(runtime.IntValue)
		if !ok || got.Val < 1 || got.Val > 6 {
			t.Fatalf("randint(1, 6) = %#v, want 1..6", got)
		}
	}
}

func TestRandintErrors(t *testing.T) {
	m := stdModule(t, "std.random")
	wantErr(t, m, "randint", "Expected 2 arguments (min, max)", runtime.IntValue{Val: 1})
	wantErr(t, m, "randint", "Expected Int", str("a"), runtime.IntValue{Val: 2})
	wantErr(t, m, "randint", "randint min must not exceed max", runtime.IntValue{Val: 5}, runtime.IntValue{Val: 2})
}

//-----------------------------------------------------------------------------
// std.time
//-----------------------------------------------------------------------------

func TestTimeNowAndMillis(t *testing.T) {
	m := stdModule(t, "std.time")
	before := float64(time.Now().UnixNano()) / float64(time.Second)
	now := asFloat(t, callOK(t, m, "now"))
	after := float64(time.Now().UnixNano()) / float64(time.Second)
	if now < before || now > after {
		t.Fatalf("now() = %v, want within [%v, %v]", now, before, after)
	}

	millis, ok := callOK(t, m, "millis").(runtime.IntValue)
	if !ok || millis.Val <= 0 {
		t.Fatalf("millis() = %#v, want a positive Int", millis)
	}
}

func TestTimeSleep(t *testing.T) {
	m := stdModule(t, "std.time")
	start := time.Now()
	callOK(t, m, "sleep", runtime.FloatValue{Val: 0.01})
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("sleep(0.01) returned after %v", elapsed)
	}
	wantErr(t, m, "sleep", "Expected 1 argument")
	wantErr(t, m, "sleep", "Expected Float or Int", str("x"))
}

func TestTimeParse(t *testing.T) {
	m := stdModule(t, "std.time")
	want := float64(time.Date(2017, 9, 3, 12, 0, 0, 0, time.UTC).Unix())
	if got := asFloat(t, callOK(t, m, "parse", str("2017-09-03T12:00:00Z"))); got != want {
		t.Fatalf("parse() = %v, want %v", got, want)
	}
	if _, err := call(t, m, "parse", str("not a timestamp")); err == nil {
		t.Fatalf("parse accepted garbage")
	}
	wantErr(t, m, "parse", "Expected String", runtime.IntValue{Val: 5})
}

//-----------------------------------------------------------------------------
// std.env
//-----------------------------------------------------------------------------

func TestEnvVar(t *testing.T) {
	m := stdModule(t, "std.env")
	t.Setenv("EMBER_NATIVE_TEST", "yes")
	if got := asString(t, callOK(t, m, "var", str("EMBER_NATIVE_TEST"))); got != "yes" {
		t.Fatalf("var() = %q, want %q", got, "yes")
	}
	if got := callOK(t, m, "var", str("EMBER_NATIVE_TEST_ABSENT")); got != (runtime.VoidValue{}) {
		t.Fatalf("var() on a missing key = %#v, want void", got)
	}
	wantErr(t, m, "var", "Expected 1 argument")
}

func TestEnvVarsIncludesSetKey(t *testing.T) {
	m := stdModule(t, "std.env")
	t.Setenv("EMBER_NATIVE_TEST", "yes")
	dict, ok := callOK(t, m, "vars").(*runtime.DictValue)
	if !ok {
		t.Fatalf("vars() did not return a Dict")
	}
	got, found := dict.Lookup(str("EMBER_NATIVE_TEST"))
	if !found || got != (runtime.StringValue{Val: "yes"}) {
		t.Fatalf("vars() is missing EMBER_NATIVE_TEST, got %#v", got)
	}
}

func TestEnvArgsAndCwd(t *testing.T) {
	m := stdModule(t, "std.env")
	args, ok := callOK(t, m, "args").(*runtime.ListValue)
	if !ok || len(args.Elements) == 0 {
		t.Fatalf("args() = %#v, want a non-empty List", args)
	}
	if _, ok := args.Elements[0].(runtime.StringValue); !ok {
		t.Fatalf("args()[0] = %#v, want a String", args.Elements[0])
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := asString(t, callOK(t, m, "cwd")); got != wd {
		t.Fatalf("cwd() = %q, want %q", got, wd)
	}
}

func TestEnvSetCwd(t *testing.T) {
	m := stdModule(t, "std.env")
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(orig)

	dir := t.TempDir()
	callOK(t, m, "set_cwd", str(dir))
	got, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Fatalf("set_cwd landed in %q, want %q", resolved, want)
	}

	if _, err := call(t, m, "set_cwd", str(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("set_cwd accepted a missing directory")
	}
}

//-----------------------------------------------------------------------------
// std.path
//-----------------------------------------------------------------------------

func TestPathJoin(t *testing.T) {
	m := stdModule(t, "std.path")
	parts := &runtime.ListValue{Elements: []runtime.Value{str("a"), str("b"), str("c.txt")}}
	if got := asString(t, callOK(t, m, "join", parts)); got != filepath.Join("a", "b", "c.txt") {
		t.Fatalf("join() = %q", got)
	}

	mutable := runtime.NewListMutable([]runtime.Value{str("x"), str("y")})
	if got := asString(t, callOK(t, m, "join", mutable)); got != filepath.Join("x", "y") {
		t.Fatalf("join() on a ListMutable = %q", got)
	}

	wantErr(t, m, "join", "Expected 1 argument (list of paths)")
	wantErr(t, m, "join", "Expected List", str("a"))
}

func TestPathComponents(t *testing.T) {
	m := stdModule(t, "std.path")
	if got := asString(t, callOK(t, m, "basename", str("/a/b/c.txt"))); got != "c.txt" {
		t.Fatalf("basename() = %q", got)
	}
	if got := asString(t, callOK(t, m, "dirname", str("/a/b/c.txt"))); got != "/a/b" {
		t.Fatalf("dirname() = %q", got)
	}
	if got := asString(t, callOK(t, m, "extname", str("/a/b/c.txt"))); got != "txt" {
		t.Fatalf("extname() = %q", got)
	}
	if got := asString(t, callOK(t, m, "extname", str("/a/b/c"))); got != "" {
		t.Fatalf("extname() on a bare name = %q", got)
	}
}

func TestPathAbsPath(t *testing.T) {
	m := stdModule(t, "std.path")
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(file)
	if err != nil {
		t.Fatal(err)
	}
	if got := asString(t, callOK(t, m, "abs_path", str(file))); got != want {
		t.Fatalf("abs_path() = %q, want %q", got, want)
	}
	if _, err := call(t, m, "abs_path", str(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("abs_path accepted a missing path")
	}
}

//-----------------------------------------------------------------------------
// std.process
//-----------------------------------------------------------------------------

func TestProcessExec(t *testing.T) {
	m := stdModule(t, "std.process")
	argv := &runtime.ListValue{Elements: []runtime.Value{
		str("-c"), str("printf hi; printf err >&2; exit 3"),
	}}
	dict, ok := callOK(t, m, "exec", str("/bin/sh"), argv).(*runtime.DictValue)
	if !ok {
		t.Fatalf("exec() did not return a Dict")
	}
	if got, _ := dict.Lookup(str("stdout")); got != (runtime.StringValue{Val: "hi"}) {
		t.Fatalf("exec stdout = %#v", got)
	}
	if got, _ := dict.Lookup(str("stderr")); got != (runtime.StringValue{Val: "err"}) {
		t.Fatalf("exec stderr = %#v", got)
	}
	if got, _ := dict.Lookup(str("code")); got != (runtime.IntValue{Val: 3}) {
		t.Fatalf("exec code = %#v", got)
	}
}

func TestProcessExecIgnoresMalformedArgList(t *testing.T) {
	m := stdModule(t, "std.process")
	dict, ok := callOK(t, m, "exec", str("true"), runtime.IntValue{Val: 5}).(*runtime.DictValue)
	if !ok {
		t.Fatalf("exec() did not return a Dict")
	}
	if got, _ := dict.Lookup(str("code")); got != (runtime.IntValue{Val: 0}) {
		t.Fatalf("exec code = %#v, want 0", got)
	}
}

func TestProcessExecErrors(t *testing.T) {
	m := stdModule(t, "std.process")
	wantErr(t, m, "exec", "Expected at least 1 argument (command)")
	if _, err := call(t, m, "exec", str("ember-no-such-command")); err == nil {
		t.Fatalf("exec accepted a command that cannot spawn")
	}
}

func TestProcessExitIsRegistered(t *testing.T) {
	lookupFn(t, stdModule(t, "std.process"), "exit")
}
