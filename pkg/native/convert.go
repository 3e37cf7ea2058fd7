package native

import (
	"errors"

	"ember/interpreter-go/pkg/runtime"
)

// Converters shared by every native module, so type diagnostics read the
// same no matter which module raised them.

func ToInt(v runtime.Value) (int64, error) {
	if iv, ok := v.(runtime.IntValue); ok {
		return iv.Val, nil
	}
	return 0, errors.New("Expected Int")
}

// ToFloat widens Int to Float; numeric natives accept either.
func ToFloat(v runtime.Value) (float64, error) {
	switch n := v.(type) {
	case runtime.FloatValue:
		return n.Val, nil
	case runtime.IntValue:
		return float64(n.Val), nil
	default:
		return 0, errors.New("Expected Float or Int")
	}
}

func ToBool(v runtime.Value) (bool, error) {
	if bv, ok := v.(runtime.BoolValue); ok {
		return bv.Val, nil
	}
	return false, errors.New("Expected Bool")
}

func ToString(v runtime.Value) (string, error) {
	if sv, ok := v.(runtime.StringValue); ok {
		return sv.Val, nil
	}
	return "", errors.New("Expected String")
}

// ToStringSlice accepts a List or ListMutable whose elements are all strings.
func ToStringSlice(v runtime.Value) ([]string, error) {
	var elements []runtime.Value
	switch l := v.(type) {
	case *runtime.ListValue:
		elements = l.Elements
	case *runtime.ListMutableValue:
		elements = l.Snapshot()
	default:
		return nil, errors.New("Expected List")
	}
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		s, err := ToString(el)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// FromStrings builds an immutable List of strings.
func FromStrings(items []string) *runtime.ListValue {
	elements := make([]runtime.Value, len(items))
	for i, s := range items {
		elements[i] = runtime.StringValue{Val: s}
	}
	return &runtime.ListValue{Elements: elements}
}
