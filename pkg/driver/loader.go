package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/parser"
)

// Loader resolves file imports and splices every reachable source file
// into one flat program. The interpreter never touches the filesystem: by
// the time a program runs, only std.* imports remain in it.
type Loader struct {
	PkgRoot    string
	SearchPath []string
}

// NewLoader builds a loader over the default package cache and any extra
// roots named by the EMBER_PATH environment variable.
func NewLoader() *Loader {
	l := &Loader{}
	if root, err := DefaultPkgRoot(); err == nil {
		l.PkgRoot = root
	}
	for _, p := range filepath.SplitList(os.Getenv("EMBER_PATH")) {
		if p != "" {
			l.SearchPath = append(l.SearchPath, p)
		}
	}
	return l
}

// Load parses the entry file, recursively resolves its file imports and
// returns the spliced program. Each file is included once, at the point
// of its first import, so import cycles terminate instead of recursing.
func (l *Loader) Load(entry string) (*ast.Program, error) {
	if entry == "" {
		return nil, fmt.Errorf("loader: empty entry path")
	}
	entryPath, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve entry path: %w", err)
	}
	info, err := os.Stat(entryPath)
	if err != nil {
		return nil, fmt.Errorf("loader: stat entry %s: %w", entryPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loader: entry path %s is a directory", entryPath)
	}

	visited := make(map[string]struct{})

	var loadFile func(path string) ([]ast.Statement, error)
	loadFile = func(path string) ([]ast.Statement, error) {
		key := canonicalPath(path)
		if _, ok := visited[key]; ok {
			return nil, nil
		}
		visited[key] = struct{}{}

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}
		program, err := parser.ParseSource(string(source))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		out := make([]ast.Statement, 0, len(program.Statements))
		for _, stmt := range program.Statements {
			imp, ok := stmt.(*ast.ImportStatement)
			if !ok {
				out = append(out, stmt)
				continue
			}
			if !imp.Quoted && strings.HasPrefix(imp.Path, "std.") {
				out = append(out, stmt)
				continue
			}
			resolved, ok := l.resolve(imp, filepath.Dir(path))
			if !ok {
				if imp.Quoted {
					return nil, fmt.Errorf("loader: cannot resolve import %q (from %s)", imp.Path, path)
				}
				out = append(out, stmt)
				continue
			}
			spliced, err := loadFile(resolved)
			if err != nil {
				return nil, err
			}
			out = append(out, spliced...)
		}
		return out, nil
	}

	statements, err := loadFile(entryPath)
	if err != nil {
		return nil, err
	}
	return ast.NewProgram(statements), nil
}

// resolve maps an import to a source file. Dotted paths become directory
// paths, quoted paths are taken as written; either way a missing .ember
// extension is appended. Candidates are tried relative to the importing
// file, then the package cache, then EMBER_PATH roots, then any .stubs
// directory on the walk from the importing file up to the root.
func (l *Loader) resolve(imp *ast.ImportStatement, fromDir string) (string, bool) {
	rel := imp.Path
	if !imp.Quoted {
		rel = strings.ReplaceAll(rel, ".", "/")
	}
	rel = filepath.FromSlash(rel)

	roots := make([]string, 0, 4+len(l.SearchPath))
	roots = append(roots, fromDir)
	if l.PkgRoot != "" {
		roots = append(roots, l.PkgRoot)
	}
	roots = append(roots, l.SearchPath...)
	for dir := fromDir; ; {
		roots = append(roots, filepath.Join(dir, ".stubs"))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for _, root := range roots {
		if path, ok := fileAt(filepath.Join(root, rel)); ok {
			return path, true
		}
	}
	return "", false
}

func fileAt(path string) (string, bool) {
	for _, candidate := range []string{path, path + ".ember"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// canonicalPath is the dedup key: symlinks collapsed, so the same file
// imported through two spellings still loads once.
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
