package native

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"

	"ember/interpreter-go/pkg/runtime"
)

var markdownRenderer = goldmark.New()

func markdownToHTML(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	text, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(text), &buf); err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: buf.String()}, nil
}

func markdownModule() runtime.NativeModuleValue {
	return module("markdown", map[string]runtime.NativeFunc{
		"to_html": markdownToHTML,
	})
}
