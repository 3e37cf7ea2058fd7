package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/interpreter"
	"ember/interpreter-go/pkg/native"
	"ember/interpreter-go/pkg/runtime"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return &Loader{PkgRoot: filepath.Join(t.TempDir(), "pkg")}
}

func loadAndRun(t *testing.T, l *Loader, entry string) runtime.Value {
	t.Helper()
	prog, err := l.Load(entry)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	interp := interpreter.New()
	interp.UseRegistry(native.New())
	val, err := interp.Run(prog)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return val
}

func TestLoadSplicesQuotedImports(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "lib", "helpers.ember"), "let helper_value = 41\n")
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"lib/helpers.ember\"\nhelper_value + 1\n")

	l := newTestLoader(t)
	prog, err := l.Load(filepath.Join(dir, "main.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("Statements length = %d, want 2", len(prog.Statements))
	}
	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 42 {
		t.Fatalf("expected 42, got %#v", val)
	}
}

func TestLoadAppendsMissingExtension(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "lib", "helpers.ember"), "let helper_value = 41\n")
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"lib/helpers\"\nhelper_value\n")

	val := loadAndRun(t, newTestLoader(t), filepath.Join(dir, "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 41 {
		t.Fatalf("expected 41, got %#v", val)
	}
}

func TestLoadResolvesDottedImports(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "utils", "text.ember"), "let upper_name = \"EMBER\"\n")
	mustWrite(t, filepath.Join(dir, "main.ember"), "import utils.text\nupper_name\n")

	l := newTestLoader(t)
	prog, err := l.Load(filepath.Join(dir, "main.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	for _, stmt := range prog.Statements {
		if imp, ok := stmt.(*ast.ImportStatement); ok {
			t.Fatalf("import %q should have been spliced away", imp.Path)
		}
	}
	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != "EMBER" {
		t.Fatalf("expected EMBER, got %#v", val)
	}
}

func TestLoadIncludesSharedFileOnce(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "c.ember"), "let c_val = 1\n")
	mustWrite(t, filepath.Join(dir, "b.ember"), "import \"c.ember\"\nlet b_val = c_val + 1\n")
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"b.ember\"\nimport \"c.ember\"\nb_val + c_val\n")

	l := newTestLoader(t)
	prog, err := l.Load(filepath.Join(dir, "main.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(prog.Statements) != 3 {
		t.Fatalf("Statements length = %d, want 3 (c, b, expr)", len(prog.Statements))
	}
	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 3 {
		t.Fatalf("expected 3, got %#v", val)
	}
}

func TestLoadSurvivesImportCycles(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.ember"), "import \"b.ember\"\nlet a_val = 1\n")
	mustWrite(t, filepath.Join(dir, "b.ember"), "import \"a.ember\"\nlet b_val = 2\n")

	prog, err := newTestLoader(t).Load(filepath.Join(dir, "a.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("Statements length = %d, want 2", len(prog.Statements))
	}
}

func TestLoadKeepsStdImportsForTheRegistry(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.ember"), "import std.math\nmath.sqrt(9.0)\n")

	l := newTestLoader(t)
	prog, err := l.Load(filepath.Join(dir, "main.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	imp, ok := prog.Statements[0].(*ast.ImportStatement)
	if !ok || imp.Path != "std.math" || imp.Quoted {
		t.Fatalf("first statement = %#v, want import std.math", prog.Statements[0])
	}
	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	f, ok := val.(runtime.FloatValue)
	if !ok || f.Val != 3 {
		t.Fatalf("expected 3.0, got %#v", val)
	}
}

func TestLoadLeavesUnresolvedBareImports(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.ember"), "import utils.mystery\nlet x = 1\nx\n")

	prog, err := newTestLoader(t).Load(filepath.Join(dir, "main.ember"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	imp, ok := prog.Statements[0].(*ast.ImportStatement)
	if !ok || imp.Path != "utils.mystery" || imp.Quoted {
		t.Fatalf("first statement = %#v, want import utils.mystery", prog.Statements[0])
	}
}

func TestLoadErrorsOnMissingQuotedImport(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"nope.ember\"\n")

	_, err := newTestLoader(t).Load(filepath.Join(dir, "main.ember"))
	if err == nil || !strings.Contains(err.Error(), `cannot resolve import "nope.ember"`) {
		t.Fatalf("expected unresolved import error, got %v", err)
	}
}

func TestLoadReportsParseErrorsWithTheFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.ember")
	mustWrite(t, bad, "let = 3\n")

	_, err := newTestLoader(t).Load(bad)
	if err == nil || !strings.Contains(err.Error(), "parse error") || !strings.Contains(err.Error(), "bad.ember") {
		t.Fatalf("expected parse error naming the file, got %v", err)
	}
}

func TestLoadResolvesFromPkgRoot(t *testing.T) {
	l := newTestLoader(t)
	mustWrite(t, filepath.Join(l.PkgRoot, "acme", "strutil", "lib.ember"), "let from_cache = 5\n")

	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"acme/strutil/lib.ember\"\nfrom_cache\n")

	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 5 {
		t.Fatalf("expected 5, got %#v", val)
	}
}

func TestLoadResolvesFromEmberPath(t *testing.T) {
	extra := t.TempDir()
	mustWrite(t, filepath.Join(extra, "glue.ember"), "let glued = 7\n")
	t.Setenv("EMBER_PATH", extra+string(os.PathListSeparator))

	l := NewLoader()
	if len(l.SearchPath) != 1 || l.SearchPath[0] != extra {
		t.Fatalf("SearchPath = %#v", l.SearchPath)
	}
	if l.PkgRoot == "" || !strings.HasSuffix(l.PkgRoot, filepath.Join(".ember", "pkg")) {
		t.Fatalf("PkgRoot = %q", l.PkgRoot)
	}

	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.ember"), "import \"glue\"\nglued\n")
	val := loadAndRun(t, l, filepath.Join(dir, "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 7 {
		t.Fatalf("expected 7, got %#v", val)
	}
}

func TestLoadResolvesFromStubsOnAncestorWalk(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, ".stubs", "shim.ember"), "let shim_val = 9\n")
	mustWrite(t, filepath.Join(root, "src", "main.ember"), "import \"shim\"\nshim_val\n")

	val := loadAndRun(t, newTestLoader(t), filepath.Join(root, "src", "main.ember"))
	n, ok := val.(runtime.IntValue)
	if !ok || n.Val != 9 {
		t.Fatalf("expected 9, got %#v", val)
	}
}

func TestLoadRejectsBadEntries(t *testing.T) {
	if _, err := newTestLoader(t).Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
	if _, err := newTestLoader(t).Load(filepath.Join(t.TempDir(), "missing.ember")); err == nil {
		t.Fatal("expected error for missing entry")
	}
	if _, err := newTestLoader(t).Load(""); err == nil || !strings.Contains(err.Error(), "empty entry path") {
		t.Fatalf("expected empty entry error, got %v", err)
	}
}
