package interpreter

import (
	"strings"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

// memberAccess resolves `object.name`. Instances check fields before the
// class method chain; records check fields before their method table;
// containers, strings, and channels resolve against closed per-kind tables
// so an unknown member fails at access time.
func (i *Interpreter) memberAccess(object runtime.Value, name string) (runtime.Value, error) {
	switch v := object.(type) {
	case *runtime.InstanceValue:
		if val, ok := v.GetField(name); ok {
			return val, nil
		}
		if method, ok := v.Class.ResolveMethod(name); ok {
			return runtime.BoundMethodValue{Receiver: v, Method: method}, nil
		}
		return nil, i.raiseError("Method '%s' not found on %s", name, v.Class.Name)
	case *runtime.RecordValue:
		if val, ok := v.FieldValue(name); ok {
			return val, nil
		}
		if method, ok := v.Methods[name]; ok {
			return runtime.BoundMethodValue{Receiver: v, Method: method}, nil
		}
		return nil, i.raiseError("Method '%s' not found on %s", name, v.Name)
	case runtime.NativeModuleValue:
		if val, ok := v.Members[name]; ok {
			return val, nil
		}
		return nil, i.raiseError("Module '%s' has no member '%s'", v.Name, name)
	}

	if table, ok := builtinMethodTables[object.Kind()]; ok {
		if method, ok := table[name]; ok {
			return i.bindNative(object, name, method), nil
		}
		if object.Kind() == runtime.KindList && immutableListMutators[name] {
			return nil, i.raiseError("Cannot call '%s' on immutable List. Use ListMutable if modifications are needed.", name)
		}
		return nil, i.raiseError("Method '%s' not found on %s", name, object.Kind())
	}
	return nil, i.raiseError("Type does not support method '%s'", name)
}

func (i *Interpreter) executeSetMember(n *ast.SetMemberStatement, env *runtime.Environment) (runtime.Flow, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	val, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	switch v := object.(type) {
	case *runtime.InstanceValue:
		v.SetField(n.Name, val)
		return runtime.NormalFlow(), nil
	case *runtime.RecordValue:
		return runtime.NormalFlow(), i.raiseError("Cannot assign to field '%s' on immutable Record", n.Name)
	default:
		return runtime.NormalFlow(), i.raiseError("Cannot set property '%s' on %s", n.Name, typeName(object))
	}
}

func (i *Interpreter) executeSetIndex(n *ast.SetIndexStatement, env *runtime.Environment) (runtime.Flow, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	index, err := i.evaluateExpression(n.Index, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	val, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}

	switch v := object.(type) {
	case *runtime.ListMutableValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return runtime.NormalFlow(), i.raiseError("ListMutable index must be an integer")
		}
		if !v.SetAt(int(idx.Val), val) {
			return runtime.NormalFlow(), i.raiseError("Index out of bounds")
		}
		return runtime.NormalFlow(), nil
	case *runtime.TupleMutableValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return runtime.NormalFlow(), i.raiseError("TupleMutable index must be an integer")
		}
		if !v.SetAt(int(idx.Val), val) {
			return runtime.NormalFlow(), i.raiseError("Index out of bounds")
		}
		return runtime.NormalFlow(), nil
	case *runtime.DictMutableValue:
		v.Set(index, val)
		return runtime.NormalFlow(), nil
	case *runtime.ListValue:
		return runtime.NormalFlow(), i.raiseError("Cannot assign by index into immutable List. Use ListMutable if modifications are needed.")
	case *runtime.TupleValue:
		return runtime.NormalFlow(), i.raiseError("Cannot assign by index into immutable Tuple. Use TupleMutable if modifications are needed.")
	case *runtime.DictValue:
		return runtime.NormalFlow(), i.raiseError("Cannot assign by index into immutable Dict. Use DictMutable if modifications are needed.")
	case runtime.StringValue:
		return runtime.NormalFlow(), i.raiseError("Cannot assign by index into String")
	default:
		return runtime.NormalFlow(), i.raiseError("Cannot index %s", typeName(object))
	}
}

// memberImpl is one entry of a per-kind method table. Arity checks live in
// the implementations so their messages match the rest of the runtime.
type memberImpl func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error)

func (i *Interpreter) bindNative(recv runtime.Value, name string, impl memberImpl) runtime.NativeBoundMethodValue {
	return runtime.NativeBoundMethodValue{
		Receiver: recv,
		Method: runtime.NativeFunctionValue{
			Name:  name,
			Arity: -1,
			Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				return impl(i, recv, args)
			},
		},
	}
}

var immutableListMutators = map[string]bool{
	"push":    true,
	"pop":     true,
	"clear":   true,
	"insert":  true,
	"remove":  true,
	"reverse": true,
}

var builtinMethodTables = map[runtime.Kind]map[string]memberImpl{
	runtime.KindList:        listMethods,
	runtime.KindListMutable: listMutableMethods,
	runtime.KindSet:         setMethods,
	runtime.KindSetMutable:  setMutableMethods,
	runtime.KindDict:        dictMethods,
	runtime.KindDictMutable: dictMutableMethods,
	runtime.KindString:      stringMethods,
	runtime.KindChannel:     channelMethods,
}

var listMethods = map[string]memberImpl{
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(len(recv.(*runtime.ListValue).Elements))}, nil
	},
}

var listMutableMethods = map[string]memberImpl{
	"push": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("push expects 1 argument")
		}
		recv.(*runtime.ListMutableValue).Push(args[0])
		return runtime.VoidValue{}, nil
	},
	"pop": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 0 {
			return nil, i.raiseError("pop expects 0 arguments")
		}
		if val, ok := recv.(*runtime.ListMutableValue).Pop(); ok {
			return val, nil
		}
		return runtime.VoidValue{}, nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(recv.(*runtime.ListMutableValue).Len())}, nil
	},
	"clear": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		recv.(*runtime.ListMutableValue).Clear()
		return runtime.VoidValue{}, nil
	},
	"insert": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return nil, i.raiseError("insert expects 2 arguments: index, value")
		}
		idx, ok := args[0].(runtime.IntValue)
		if !ok {
			return nil, i.raiseError("insert index must be an integer")
		}
		if !recv.(*runtime.ListMutableValue).Insert(int(idx.Val), args[1]) {
			return nil, i.raiseError("Index out of bounds")
		}
		return runtime.VoidValue{}, nil
	},
	"remove": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("remove expects 1 argument")
		}
		recv.(*runtime.ListMutableValue).Remove(args[0])
		return runtime.VoidValue{}, nil
	},
	"reverse": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		recv.(*runtime.ListMutableValue).Reverse()
		return runtime.VoidValue{}, nil
	},
}

var setMethods = map[string]memberImpl{
	"contains": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("contains expects 1 argument")
		}
		return runtime.BoolValue{Val: recv.(*runtime.SetValue).Contains(args[0])}, nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(len(recv.(*runtime.SetValue).Elements))}, nil
	},
}

var setMutableMethods = map[string]memberImpl{
	"add": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("add expects 1 argument")
		}
		recv.(*runtime.SetMutableValue).Add(args[0])
		return runtime.VoidValue{}, nil
	},
	"remove": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("remove expects 1 argument")
		}
		recv.(*runtime.SetMutableValue).Remove(args[0])
		return runtime.VoidValue{}, nil
	},
	"contains": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("contains expects 1 argument")
		}
		return runtime.BoolValue{Val: recv.(*runtime.SetMutableValue).Contains(args[0])}, nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(recv.(*runtime.SetMutableValue).Len())}, nil
	},
}

var dictMethods = map[string]memberImpl{
	"keys": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictKeys(recv.(*runtime.DictValue).Entries), nil
	},
	"values": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictValues(recv.(*runtime.DictValue).Entries), nil
	},
	"items": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictItems(recv.(*runtime.DictValue).Entries), nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(len(recv.(*runtime.DictValue).Entries))}, nil
	},
	"get": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("get expects 1 argument (key)")
		}
		if val, ok := recv.(*runtime.DictValue).Lookup(args[0]); ok {
			return val, nil
		}
		return runtime.VoidValue{}, nil
	},
}

var dictMutableMethods = map[string]memberImpl{
	"keys": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictKeys(recv.(*runtime.DictMutableValue).Snapshot()), nil
	},
	"values": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictValues(recv.(*runtime.DictMutableValue).Snapshot()), nil
	},
	"items": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return dictItems(recv.(*runtime.DictMutableValue).Snapshot()), nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(recv.(*runtime.DictMutableValue).Len())}, nil
	},
	"clear": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		recv.(*runtime.DictMutableValue).Clear()
		return runtime.VoidValue{}, nil
	},
	"remove": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("remove expects 1 argument (key)")
		}
		recv.(*runtime.DictMutableValue).Remove(args[0])
		return runtime.VoidValue{}, nil
	},
	"get": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("get expects 1 argument (key)")
		}
		if val, ok := recv.(*runtime.DictMutableValue).Get(args[0]); ok {
			return val, nil
		}
		return runtime.VoidValue{}, nil
	},
}

var stringMethods = map[string]memberImpl{
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(len(recv.(runtime.StringValue).Val))}, nil
	},
	"upper": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue{Val: strings.ToUpper(recv.(runtime.StringValue).Val)}, nil
	},
	"lower": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.StringValue{Val: strings.ToLower(recv.(runtime.StringValue).Val)}, nil
	},
	"split": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("split expects 1 argument (delimiter)")
		}
		delim, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, i.raiseError("split expects a string delimiter")
		}
		parts := strings.Split(recv.(runtime.StringValue).Val, delim.Val)
		elements := make([]runtime.Value, len(parts))
		for idx, part := range parts {
			elements[idx] = runtime.StringValue{Val: part}
		}
		return &runtime.ListValue{Elements: elements}, nil
	},
	"contains": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("contains expects 1 argument")
		}
		sub, ok := args[0].(runtime.StringValue)
		if !ok {
			return nil, i.raiseError("contains argument must be a string")
		}
		return runtime.BoolValue{Val: strings.Contains(recv.(runtime.StringValue).Val, sub.Val)}, nil
	},
}

var channelMethods = map[string]memberImpl{
	"send": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, i.raiseError("send expects 1 argument")
		}
		if err := recv.(*runtime.ChannelValue).Send(args[0]); err != nil {
			return nil, i.raiseError("%s", err.Error())
		}
		return runtime.VoidValue{}, nil
	},
	"recv": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 0 {
			return nil, i.raiseError("recv expects 0 arguments")
		}
		val, _ := recv.(*runtime.ChannelValue).Recv()
		return val, nil
	},
	"close": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 0 {
			return nil, i.raiseError("close expects 0 arguments")
		}
		if err := recv.(*runtime.ChannelValue).Close(); err != nil {
			return nil, i.raiseError("%s", err.Error())
		}
		return runtime.VoidValue{}, nil
	},
	"len": func(i *Interpreter, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.IntValue{Val: int64(recv.(*runtime.ChannelValue).Len())}, nil
	},
}

func dictKeys(entries []runtime.DictEntry) *runtime.ListValue {
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return &runtime.ListValue{Elements: out}
}

func dictValues(entries []runtime.DictEntry) *runtime.ListValue {
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return &runtime.ListValue{Elements: out}
}

func dictItems(entries []runtime.DictEntry) *runtime.ListValue {
	out := make([]runtime.Value, len(entries))
	for i, e := range entries {
		out[i] = &runtime.TupleValue{Elements: []runtime.Value{e.Key, e.Value}}
	}
	return &runtime.ListValue{Elements: out}
}
