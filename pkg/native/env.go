package native

import (
	"errors"
	"os"
	"strings"

	"ember/interpreter-go/pkg/runtime"
)

func envVar(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	key, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	val, ok := os.LookupEnv(key)
	if !ok {
		return runtime.VoidValue{}, nil
	}
	return runtime.StringValue{Val: val}, nil
}

func envVars(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	environ := os.Environ()
	entries := make([]runtime.DictEntry, 0, len(environ))
	for _, kv := range environ {
		key, val, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		entries = append(entries, runtime.DictEntry{
			Key:   runtime.StringValue{Val: key},
			Value: runtime.StringValue{Val: val},
		})
	}
	return &runtime.DictValue{Entries: entries}, nil
}

func envArgs(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return FromStrings(os.Args), nil
}

func envCwd(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: dir}, nil
}

func envSetCwd(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	path, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(path); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

func envModule() runtime.NativeModuleValue {
	return module("env", map[string]runtime.NativeFunc{
		"var":     envVar,
		"vars":    envVars,
		"args":    envArgs,
		"cwd":     envCwd,
		"set_cwd": envSetCwd,
	})
}
