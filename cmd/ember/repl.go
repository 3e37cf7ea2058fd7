package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/driver"
	"ember/interpreter-go/pkg/interpreter"
	"ember/interpreter-go/pkg/native"
	"ember/interpreter-go/pkg/parser"
	"ember/interpreter-go/pkg/runtime"
)

const (
	shellPrompt     = ">> "
	shellContPrompt = ".. "
	historyFileName = ".ember_history"
)

func runShell(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "ember shell does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}

	fmt.Fprintln(os.Stdout, cliToolVersion)
	fmt.Fprintln(os.Stdout, "Type 'exit' or Ctrl-D to leave")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	interp := interpreter.New()
	interp.UseRegistry(native.New())
	session := &shellSession{
		interp:   interp,
		loader:   newLoader(),
		imported: make(map[string]bool),
	}

	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(os.Stdout)
			break
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" {
			break
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		session.eval(src)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	interp.Wait()
	return 0
}

// readStatement accumulates lines until the parser stops reporting the
// buffer as incomplete. Once inside a block, a blank line submits whatever
// has been typed, the way an indented block ends in a source file.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	continuing := false
	for {
		prompt := shellPrompt
		if continuing {
			prompt = shellContPrompt
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the buffered input and starts over.
			fmt.Fprintln(os.Stdout)
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if continuing && strings.TrimSpace(line) != "" {
			continue
		}

		src := b.String()
		if _, perr := parser.ParseSource(src); parser.IsIncomplete(perr) {
			if continuing {
				// A blank line forces submission; the parse error surfaces.
				return src, true
			}
			continuing = true
			continue
		}
		return src, true
	}
}

type shellSession struct {
	interp   *interpreter.Interpreter
	loader   *driver.Loader
	imported map[string]bool
}

func (s *shellSession) eval(src string) {
	program, err := parser.ParseSource(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	statements := make([]ast.Statement, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		imp, ok := stmt.(*ast.ImportStatement)
		if !ok || !imp.Quoted {
			statements = append(statements, stmt)
			continue
		}
		included, incErr := s.include(imp.Path)
		if incErr != nil {
			fmt.Fprintln(os.Stderr, incErr)
			return
		}
		statements = append(statements, included...)
	}

	value, err := s.interp.Run(ast.NewProgram(statements))
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return
	}
	if _, void := value.(runtime.VoidValue); void {
		return
	}
	text, err := s.interp.Stringify(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stdout, text)
}

// include splices a quoted file import through the loader so the shell sees
// the same resolution as ember run. Files already pulled into the session
// are skipped rather than rerun.
func (s *shellSession) include(path string) ([]ast.Statement, error) {
	resolved, err := s.resolveImport(path)
	if err != nil {
		return nil, err
	}
	if s.imported[resolved] {
		return nil, nil
	}
	program, err := s.loader.Load(resolved)
	if err != nil {
		return nil, err
	}
	s.imported[resolved] = true
	return program.Statements, nil
}

func (s *shellSession) resolveImport(path string) (string, error) {
	candidates := []string{filepath.FromSlash(path)}
	if s.loader.PkgRoot != "" {
		candidates = append(candidates, filepath.Join(s.loader.PkgRoot, filepath.FromSlash(path)))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if !strings.HasSuffix(candidate, ".ember") {
			withExt := candidate + ".ember"
			if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
				return withExt, nil
			}
		}
	}
	return "", fmt.Errorf("cannot resolve import %q", path)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}
