package native

import (
	"errors"
	"path/filepath"
	"strings"

	"ember/interpreter-go/pkg/runtime"
)

func pathJoin(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument (list of paths)")
	}
	parts, err := ToStringSlice(args[0])
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: filepath.Join(parts...)}, nil
}

func pathBasename(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: filepath.Base(path)}, nil
}

func pathDirname(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: filepath.Dir(path)}, nil
}

// pathExtname reports the extension without its leading dot, empty when the
// name has none.
func pathExtname(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return runtime.StringValue{Val: ext}, nil
}

// pathAbsPath resolves symlinks as well, so the path must exist.
func pathAbsPath(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: resolved}, nil
}

func pathModule() runtime.NativeModuleValue {
	return module("path", map[string]runtime.NativeFunc{
		"join":     pathJoin,
		"basename": pathBasename,
		"dirname":  pathDirname,
		"extname":  pathExtname,
		"abs_path": pathAbsPath,
	})
}
