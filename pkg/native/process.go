package native

import (
	"bytes"
	"errors"
	"os"
	"os/exec"

	"ember/interpreter-go/pkg/runtime"
)

func processExit(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	code := 0
	if len(args) > 0 {
		if iv, ok := args[0].(runtime.IntValue); ok {
			code = int(iv.Val)
		}
	}
	os.Exit(code)
	return nil, nil
}

// processExec runs a command to completion and reports its captured output
// as {stdout, stderr, code}. A malformed argument list is treated as empty;
// only a failure to spawn is an error.
func processExec(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, errors.New("Expected at least 1 argument (command)")
	}
	command, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	var cmdArgs []string
	if len(args) > 1 {
		if parsed, err := ToStringSlice(args[1]); err == nil {
			cmdArgs = parsed
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(command, cmdArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if runErr := cmd.Run(); runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, runErr
		}
		code = exitErr.ExitCode()
	}

	return &runtime.DictValue{Entries: []runtime.DictEntry{
		{Key: runtime.StringValue{Val: "stdout"}, Value: runtime.StringValue{Val: stdout.String()}},
		{Key: runtime.StringValue{Val: "stderr"}, Value: runtime.StringValue{Val: stderr.String()}},
		{Key: runtime.StringValue{Val: "code"}, Value: runtime.IntValue{Val: int64(code)}},
	}}, nil
}

func processModule() runtime.NativeModuleValue {
	return module("process", map[string]runtime.NativeFunc{
		"exit": processExit,
		"exec": processExec,
	})
}
