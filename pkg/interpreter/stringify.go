package interpreter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ember/interpreter-go/pkg/runtime"
)

// typeName names a value the way scripts see it: instances report their
// class, records their record name, everything else its kind.
func typeName(v runtime.Value) string {
	switch val := v.(type) {
	case *runtime.InstanceValue:
		return val.Class.Name
	case *runtime.RecordValue:
		return val.Name
	default:
		return v.Kind().String()
	}
}

// stringifyValue renders a value for print and str. Instances whose class
// chain defines to_string delegate to it; the method must return a String.
func (i *Interpreter) stringifyValue(v runtime.Value) (string, error) {
	if inst, ok := v.(*runtime.InstanceValue); ok {
		if method, found := inst.Class.ResolveMethod("to_string"); found {
			result, err := i.applyCallable(runtime.BoundMethodValue{Receiver: inst, Method: method}, nil)
			if err != nil {
				return "", err
			}
			str, ok := result.(runtime.StringValue)
			if !ok {
				return "", i.raiseError("to_string must return a String, got %s", typeName(result))
			}
			return str.Val, nil
		}
	}
	return valueToString(v), nil
}

// Stringify renders a value the way print does, honoring to_string hooks.
// The REPL uses it to echo expression results.
func (i *Interpreter) Stringify(v runtime.Value) (string, error) {
	return i.stringifyValue(v)
}

// valueToString is the default rendering used when no to_string hook
// applies. Strings render raw, containers recurse, callables and other
// opaque values render as angle-bracketed descriptions.
func valueToString(v runtime.Value) string {
	switch val := v.(type) {
	case runtime.IntValue:
		return strconv.FormatInt(val.Val, 10)
	case runtime.FloatValue:
		return strconv.FormatFloat(val.Val, 'g', -1, 64)
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.StringValue:
		return val.Val
	case runtime.VoidValue:
		return "void"
	case *runtime.ListValue:
		return "[" + joinValues(val.Elements) + "]"
	case *runtime.TupleValue:
		return "(" + joinValues(val.Elements) + ")"
	case *runtime.SetValue:
		return "{" + joinValues(val.Elements) + "}"
	case *runtime.DictValue:
		return "{" + joinEntries(val.Entries) + "}"
	case *runtime.ListMutableValue:
		return "[" + joinValues(val.Snapshot()) + "]"
	case *runtime.TupleMutableValue:
		return "(" + joinValues(val.Snapshot()) + ")"
	case *runtime.SetMutableValue:
		return "{" + joinValues(val.Snapshot()) + "}"
	case *runtime.DictMutableValue:
		return "{" + joinEntries(val.Snapshot()) + "}"
	case *runtime.FunctionValue:
		if val.Decl.Name == "" {
			return "<function>"
		}
		return "<function " + val.Decl.Name + ">"
	case runtime.NativeFunctionValue:
		return "<native " + val.Name + ">"
	case runtime.BoundMethodValue:
		return "<bound method " + val.Method.Decl.Name + ">"
	case runtime.NativeBoundMethodValue:
		return "<native bound " + val.Method.Name + ">"
	case *runtime.ClassValue:
		return "<class " + val.Name + ">"
	case *runtime.InstanceValue:
		return instanceToString(val)
	case *runtime.RecordValue:
		return val.Name + "(" + joinValues(val.Values) + ")"
	case *runtime.RecordConstructorValue:
		return "<record " + val.Name + ">"
	case runtime.InterfaceDefinitionValue:
		return "<interface " + val.Decl.Name + ">"
	case runtime.NativeModuleValue:
		return "<module " + val.Name + ">"
	case *runtime.ChannelValue:
		return "<channel>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func instanceToString(inst *runtime.InstanceValue) string {
	fields := inst.FieldsSnapshot()
	if len(fields) == 0 {
		return inst.Class.Name + " {}"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + valueToString(fields[name])
	}
	return inst.Class.Name + " { " + strings.Join(parts, ", ") + " }"
}

func joinValues(elements []runtime.Value) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = valueToString(e)
	}
	return strings.Join(parts, ", ")
}

func joinEntries(entries []runtime.DictEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = valueToString(e.Key) + ": " + valueToString(e.Value)
	}
	return strings.Join(parts, ", ")
}
