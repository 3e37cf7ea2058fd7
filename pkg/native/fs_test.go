package native

import (
	"os"
	"path/filepath"
	"testing"

	"ember/interpreter-go/pkg/runtime"
)

func TestFsWriteAndReadRoundTrip(t *testing.T) {
	m := stdModule(t, "std.fs")
	file := filepath.Join(t.TempDir(), "note.txt")

	callOK(t, m, "write", str(file), str("hello\nworld"))
	if got := asString(t, callOK(t, m, "read_to_string", str(file))); got != "hello\nworld" {
		t.Fatalf("read_to_string() = %q", got)
	}

	callOK(t, m, "write_file", str(file), str("rewritten"))
	if got := asString(t, callOK(t, m, "read_file", str(file))); got != "rewritten" {
		t.Fatalf("read_file() = %q", got)
	}
}

func TestFsReadMissingFileFails(t *testing.T) {
	m := stdModule(t, "std.fs")
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := call(t, m, "read_to_string", str(missing)); err == nil {
		t.Fatalf("read_to_string succeeded on a missing file")
	}
}

func TestFsProbes(t *testing.T) {
	m := stdModule(t, "std.fs")
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	probes := []struct {
		fn   string
		path string
		want bool
	}{
		{"exists", file, true},
		{"exists", filepath.Join(dir, "nope"), false},
		{"is_file", file, true},
		{"is_file", dir, false},
		{"is_dir", dir, true},
		{"is_dir", file, false},
	}
	for _, p := range probes {
		got, ok := callOK(t, m, p.fn, str(p.path)).(runtime.BoolValue)
		if !ok || got.Val != p.want {
			t.Fatalf("%s(%q) = %#v, want %v", p.fn, p.path, got, p.want)
		}
	}
}

func TestFsCreateDirMakesParents(t *testing.T) {
	m := stdModule(t, "std.fs")
	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	callOK(t, m, "create_dir", str(nested))
	if got := callOK(t, m, "is_dir", str(nested)); got != (runtime.BoolValue{Val: true}) {
		t.Fatalf("create_dir did not create %q", nested)
	}
}

func TestFsListDir(t *testing.T) {
	m := stdModule(t, "std.fs")
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	list, ok := callOK(t, m, "list_dir", str(dir)).(*runtime.ListValue)
	if !ok || len(list.Elements) != 2 {
		t.Fatalf("list_dir() = %#v, want 2 entries", list)
	}
	if list.Elements[0] != (runtime.StringValue{Val: "a.txt"}) || list.Elements[1] != (runtime.StringValue{Val: "b.txt"}) {
		t.Fatalf("list_dir() = %#v, want [a.txt, b.txt]", list.Elements)
	}
}

func TestFsRemove(t *testing.T) {
	m := stdModule(t, "std.fs")
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	callOK(t, m, "remove_file", str(file))
	if got := callOK(t, m, "exists", str(file)); got != (runtime.BoolValue{Val: false}) {
		t.Fatalf("remove_file left %q behind", file)
	}

	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	callOK(t, m, "remove_dir", str(empty))
	if got := callOK(t, m, "exists", str(empty)); got != (runtime.BoolValue{Val: false}) {
		t.Fatalf("remove_dir left %q behind", empty)
	}
}

func TestFsRemoveDirRefusesNonEmpty(t *testing.T) {
	m := stdModule(t, "std.fs")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := call(t, m, "remove_dir", str(dir)); err == nil {
		t.Fatalf("remove_dir removed a non-empty directory")
	}
}

func TestFsArgumentErrors(t *testing.T) {
	m := stdModule(t, "std.fs")
	wantErr(t, m, "read_to_string", "Expected 1 argument")
	wantErr(t, m, "read_to_string", "Expected String", runtime.IntValue{Val: 1})
	wantErr(t, m, "write", "Expected 2 arguments", str("only-path"))
	wantErr(t, m, "write", "Expected String", str("p"), runtime.IntValue{Val: 1})
}
