package native

import (
	"errors"
	"os"

	"ember/interpreter-go/pkg/runtime"
)

func pathArg(args []runtime.Value) (string, error) {
	if len(args) != 1 {
		return "", errors.New("Expected 1 argument")
	}
	return ToString(args[0])
}

func fsReadToString(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: string(data)}, nil
}

func fsWrite(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, errors.New("Expected 2 arguments")
	}
	path, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	content, err := ToString(args[1])
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

// stat probes swallow OS errors; a path we cannot stat simply is not there.

func fsExists(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return runtime.BoolValue{Val: statErr == nil}, nil
}

func fsIsFile(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return runtime.BoolValue{Val: statErr == nil && info.Mode().IsRegular()}, nil
}

func fsIsDir(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return runtime.BoolValue{Val: statErr == nil && info.IsDir()}, nil
}

func fsCreateDir(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

func fsRemoveFile(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

// fsRemoveDir refuses non-empty directories, same as os.Remove.
func fsRemoveDir(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return fsRemoveFile(nil, args)
}

func fsListDir(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return FromStrings(names), nil
}

func fsModule() runtime.NativeModuleValue {
	return module("fs", map[string]runtime.NativeFunc{
		"read_to_string": fsReadToString,
		"write":          fsWrite,
		"exists":         fsExists,
		"is_file":        fsIsFile,
		"is_dir":         fsIsDir,
		"create_dir":     fsCreateDir,
		"remove_file":    fsRemoveFile,
		"remove_dir":     fsRemoveDir,
		"list_dir":       fsListDir,
		"read_file":      fsReadToString,
		"write_file":     fsWrite,
	})
}
