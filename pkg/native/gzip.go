package native

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"

	"ember/interpreter-go/pkg/runtime"
)

// Strings carry arbitrary bytes, so compressed data travels as a String.

func gzipCompress(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	text, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: buf.String()}, nil
}

func gzipDecompress(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	data, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	r, err := gzip.NewReader(bytes.NewReader([]byte(data)))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: string(out)}, nil
}

func gzipModule() runtime.NativeModuleValue {
	return module("gzip", map[string]runtime.NativeFunc{
		"compress":   gzipCompress,
		"decompress": gzipDecompress,
	})
}
