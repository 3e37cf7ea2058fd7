package native

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"ember/interpreter-go/pkg/runtime"
)

func jsonStringify(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	var buf bytes.Buffer
	writeJSON(&buf, args[0])
	return runtime.StringValue{Val: buf.String()}, nil
}

func jsonParse(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	text, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("Unexpected trailing data after JSON value")
	}
	return v, nil
}

// writeJSON renders a runtime value as JSON. Dict entries keep their
// insertion order; non-string dict keys are skipped; values with no JSON
// shape (functions, classes, channels) become null.
func writeJSON(buf *bytes.Buffer, v runtime.Value) {
	switch v := v.(type) {
	case runtime.IntValue:
		buf.WriteString(strconv.FormatInt(v.Val, 10))
	case runtime.FloatValue:
		if math.IsNaN(v.Val) || math.IsInf(v.Val, 0) {
			buf.WriteString("null")
			return
		}
		b, _ := json.Marshal(v.Val)
		buf.Write(b)
	case runtime.BoolValue:
		buf.WriteString(strconv.FormatBool(v.Val))
	case runtime.StringValue:
		b, _ := json.Marshal(v.Val)
		buf.Write(b)
	case runtime.VoidValue:
		buf.WriteString("null")
	case *runtime.ListValue:
		writeJSONArray(buf, v.Elements)
	case *runtime.ListMutableValue:
		writeJSONArray(buf, v.Snapshot())
	case *runtime.TupleValue:
		writeJSONArray(buf, v.Elements)
	case *runtime.TupleMutableValue:
		writeJSONArray(buf, v.Snapshot())
	case *runtime.SetValue:
		writeJSONArray(buf, v.Elements)
	case *runtime.SetMutableValue:
		writeJSONArray(buf, v.Snapshot())
	case *runtime.DictValue:
		writeJSONObject(buf, v.Entries)
	case *runtime.DictMutableValue:
		writeJSONObject(buf, v.Snapshot())
	default:
		buf.WriteString("null")
	}
}

func writeJSONArray(buf *bytes.Buffer, elements []runtime.Value) {
	buf.WriteByte('[')
	for i, el := range elements {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSON(buf, el)
	}
	buf.WriteByte(']')
}

func writeJSONObject(buf *bytes.Buffer, entries []runtime.DictEntry) {
	buf.WriteByte('{')
	first := true
	for _, e := range entries {
		key, ok := e.Key.(runtime.StringValue)
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		b, _ := json.Marshal(key.Val)
		buf.Write(b)
		buf.WriteByte(':')
		writeJSON(buf, e.Value)
	}
	buf.WriteByte('}')
}

// decodeJSON consumes one JSON value from the decoder, preserving object key
// order as Dict insertion order. null maps to void; integral numbers come
// back as Int, everything else as Float.
func decodeJSON(dec *json.Decoder) (runtime.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			var entries []runtime.DictEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.New("Invalid JSON object key")
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				entries = append(entries, runtime.DictEntry{
					Key:   runtime.StringValue{Val: key},
					Value: val,
				})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &runtime.DictValue{Entries: entries}, nil
		case '[':
			var elements []runtime.Value
			for dec.More() {
				el, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				elements = append(elements, el)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return &runtime.ListValue{Elements: elements}, nil
		}
		return nil, errors.New("Invalid JSON")
	case string:
		return runtime.StringValue{Val: tok}, nil
	case json.Number:
		if i, err := tok.Int64(); err == nil {
			return runtime.IntValue{Val: i}, nil
		}
		f, err := tok.Float64()
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: f}, nil
	case bool:
		return runtime.BoolValue{Val: tok}, nil
	case nil:
		return runtime.VoidValue{}, nil
	}
	return nil, errors.New("Invalid JSON")
}

func jsonModule() runtime.NativeModuleValue {
	return module("json", map[string]runtime.NativeFunc{
		"stringify": jsonStringify,
		"parse":     jsonParse,
	})
}
