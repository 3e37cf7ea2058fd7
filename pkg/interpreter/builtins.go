package interpreter

import (
	"fmt"
	"strings"

	"ember/interpreter-go/pkg/runtime"
)

// registerBuiltins installs the global native functions every script sees.
// Container converters take the immutable counterpart and copy its elements
// into a fresh shared container.
func (i *Interpreter) registerBuiltins() {
	define := func(name string, arity int, impl runtime.NativeFunc) {
		i.global.Define(name, runtime.NativeFunctionValue{Name: name, Arity: arity, Impl: impl})
	}

	define("print", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for idx, arg := range args {
			str, err := i.stringifyValue(arg)
			if err != nil {
				return nil, err
			}
			parts[idx] = str
		}
		fmt.Fprintln(i.stdout, strings.Join(parts, " "))
		return runtime.VoidValue{}, nil
	})

	define("range", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return i.rangeBuiltin(args)
	})

	define("len", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return i.lenBuiltin(args[0])
	})

	define("type", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue{Val: typeName(args[0])}, nil
	})

	define("str", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		str, err := i.stringifyValue(args[0])
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: str}, nil
	})

	define("chan", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) > 1 {
			return nil, i.raiseError("chan expects 0 or 1 arguments")
		}
		capacity := 0
		if len(args) == 1 {
			n, ok := args[0].(runtime.IntValue)
			if !ok {
				return nil, i.raiseError("chan capacity must be an integer")
			}
			if n.Val < 0 {
				return nil, i.raiseError("chan capacity cannot be negative")
			}
			capacity = int(n.Val)
		}
		return runtime.NewChannel(capacity), nil
	})

	define("ListMutable", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("ListMutable takes 1 argument")
		}
		list, ok := args[0].(*runtime.ListValue)
		if !ok {
			return nil, i.raiseError("ListMutable expects a List")
		}
		return runtime.NewListMutable(copyValues(list.Elements)), nil
	})

	define("TupleMutable", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("TupleMutable takes 1 argument")
		}
		tuple, ok := args[0].(*runtime.TupleValue)
		if !ok {
			return nil, i.raiseError("TupleMutable expects a Tuple")
		}
		return runtime.NewTupleMutable(copyValues(tuple.Elements)), nil
	})

	define("SetMutable", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("SetMutable takes 1 argument")
		}
		set, ok := args[0].(*runtime.SetValue)
		if !ok {
			return nil, i.raiseError("SetMutable expects a Set")
		}
		return runtime.NewSetMutable(copyValues(set.Elements)), nil
	})

	define("DictMutable", -1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("DictMutable takes 1 argument")
		}
		dict, ok := args[0].(*runtime.DictValue)
		if !ok {
			return nil, i.raiseError("DictMutable expects a Dict")
		}
		entries := make([]runtime.DictEntry, len(dict.Entries))
		copy(entries, dict.Entries)
		return runtime.NewDictMutable(entries), nil
	})
}

func (i *Interpreter) rangeBuiltin(args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, i.raiseError("range expects 1 to 3 arguments")
	}
	asInt := func(v runtime.Value, what string) (int64, error) {
		n, ok := v.(runtime.IntValue)
		if !ok {
			return 0, i.raiseError("range %s must be int", what)
		}
		return n.Val, nil
	}

	var start, end, step int64
	step = 1
	var err error
	if len(args) == 1 {
		if end, err = asInt(args[0], "end"); err != nil {
			return nil, err
		}
	} else {
		if start, err = asInt(args[0], "start"); err != nil {
			return nil, err
		}
		if end, err = asInt(args[1], "end"); err != nil {
			return nil, err
		}
		if len(args) == 3 {
			if step, err = asInt(args[2], "step"); err != nil {
				return nil, err
			}
		}
	}
	if step == 0 {
		return nil, i.raiseError("range step cannot be 0")
	}

	var elements []runtime.Value
	if step > 0 {
		for current := start; current < end; current += step {
			elements = append(elements, runtime.IntValue{Val: current})
		}
	} else {
		for current := start; current > end; current += step {
			elements = append(elements, runtime.IntValue{Val: current})
		}
	}
	return &runtime.ListValue{Elements: elements}, nil
}

func (i *Interpreter) lenBuiltin(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.StringValue:
		return runtime.IntValue{Val: int64(len(val.Val))}, nil
	case *runtime.ListValue:
		return runtime.IntValue{Val: int64(len(val.Elements))}, nil
	case *runtime.TupleValue:
		return runtime.IntValue{Val: int64(len(val.Elements))}, nil
	case *runtime.SetValue:
		return runtime.IntValue{Val: int64(len(val.Elements))}, nil
	case *runtime.DictValue:
		return runtime.IntValue{Val: int64(len(val.Entries))}, nil
	case *runtime.ListMutableValue:
		return runtime.IntValue{Val: int64(val.Len())}, nil
	case *runtime.TupleMutableValue:
		return runtime.IntValue{Val: int64(val.Len())}, nil
	case *runtime.SetMutableValue:
		return runtime.IntValue{Val: int64(val.Len())}, nil
	case *runtime.DictMutableValue:
		return runtime.IntValue{Val: int64(val.Len())}, nil
	case *runtime.ChannelValue:
		return runtime.IntValue{Val: int64(val.Len())}, nil
	default:
		return nil, i.raiseError("Cannot take len of %s", typeName(v))
	}
}

func copyValues(src []runtime.Value) []runtime.Value {
	out := make([]runtime.Value, len(src))
	copy(out, src)
	return out
}
