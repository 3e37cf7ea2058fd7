package interpreter

import (
	"ember/interpreter-go/pkg/runtime"
)

// applyCallable is the single entry point for calling any value. Functions,
// record constructors, and bound methods share the currying algorithm:
// accumulated partial arguments concatenate with the new ones, and the
// combined count decides between partial application, full application, and
// recursive over-application.
func (i *Interpreter) applyCallable(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.applyFunction(fn, args)
	case *runtime.RecordConstructorValue:
		return i.applyRecordConstructor(fn, args)
	case *runtime.ClassValue:
		return i.instantiateClass(fn, args)
	case runtime.BoundMethodValue:
		return i.applyBoundMethod(fn, args)
	case runtime.NativeFunctionValue:
		return i.applyNative(fn, args)
	case runtime.NativeBoundMethodValue:
		return i.applyNative(fn.Method, args)
	default:
		return nil, i.raiseError("Not callable: %s", typeName(callee))
	}
}

func (i *Interpreter) applyFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	combined := combineArgs(fn.PartialArgs, args)
	nparams := len(fn.Decl.Params)

	switch {
	case len(combined) < nparams:
		return &runtime.FunctionValue{Decl: fn.Decl, Closure: fn.Closure, PartialArgs: combined}, nil
	case len(combined) == nparams:
		return i.invokeFunction(fn, combined)
	default:
		result, err := i.invokeFunction(fn, combined[:nparams])
		if err != nil {
			return nil, err
		}
		return i.applyCallable(result, combined[nparams:])
	}
}

// invokeFunction binds parameters in a fresh frame under the closure and maps
// the body's flow to a value.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	callEnv := fn.Closure.Child()
	for idx, param := range fn.Decl.Params {
		callEnv.Define(param.Name, args[idx])
	}
	flow, err := i.executeBlock(fn.Decl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	switch flow.Kind {
	case runtime.FlowReturn:
		if flow.Value == nil {
			return runtime.VoidValue{}, nil
		}
		return flow.Value, nil
	case runtime.FlowBreak:
		return nil, i.raiseError("'break' outside loop")
	case runtime.FlowContinue:
		return nil, i.raiseError("'continue' outside loop")
	default:
		return runtime.VoidValue{}, nil
	}
}

func (i *Interpreter) applyRecordConstructor(ctor *runtime.RecordConstructorValue, args []runtime.Value) (runtime.Value, error) {
	combined := combineArgs(ctor.PartialArgs, args)
	nfields := len(ctor.Fields)

	switch {
	case len(combined) < nfields:
		return &runtime.RecordConstructorValue{
			Name:        ctor.Name,
			Generics:    ctor.Generics,
			Fields:      ctor.Fields,
			Methods:     ctor.Methods,
			PartialArgs: combined,
		}, nil
	case len(combined) == nfields:
		return &runtime.RecordValue{
			Name:    ctor.Name,
			Fields:  ctor.Fields,
			Values:  combined,
			Methods: ctor.Methods,
		}, nil
	default:
		result, err := i.applyRecordConstructor(&runtime.RecordConstructorValue{
			Name:     ctor.Name,
			Generics: ctor.Generics,
			Fields:   ctor.Fields,
			Methods:  ctor.Methods,
		}, combined[:nfields])
		if err != nil {
			return nil, err
		}
		return i.applyCallable(result, combined[nfields:])
	}
}

// instantiateClass creates an instance with an empty field table; __init__,
// resolved through the ancestor chain, runs with the instance prepended. The
// instance is the call's value regardless of what __init__ returns.
func (i *Interpreter) instantiateClass(cls *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	inst := runtime.NewInstance(cls)
	if init, ok := cls.ResolveMethod("__init__"); ok {
		initArgs := make([]runtime.Value, 0, len(args)+1)
		initArgs = append(initArgs, inst)
		initArgs = append(initArgs, args...)
		if _, err := i.applyCallable(init, initArgs); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// applyBoundMethod prepends the receiver as the implicit first argument,
// unless the method already carries partials or declares no parameters.
func (i *Interpreter) applyBoundMethod(bm runtime.BoundMethodValue, args []runtime.Value) (runtime.Value, error) {
	method := bm.Method
	if len(method.PartialArgs) == 0 && len(method.Decl.Params) > 0 {
		method = &runtime.FunctionValue{
			Decl:        method.Decl,
			Closure:     method.Closure,
			PartialArgs: []runtime.Value{bm.Receiver},
		}
	}
	return i.applyCallable(method, args)
}

// applyNative invokes the host function directly; natives never curry.
func (i *Interpreter) applyNative(fn runtime.NativeFunctionValue, args []runtime.Value) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, i.raiseError("%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	ctx := &runtime.NativeCallContext{Env: i.global}
	result, err := fn.Impl(ctx, args)
	if err != nil {
		if _, ok := err.(raiseSignal); ok {
			return nil, err
		}
		return nil, i.raiseError("%s", err.Error())
	}
	if result == nil {
		result = runtime.VoidValue{}
	}
	return result, nil
}

func combineArgs(partials, args []runtime.Value) []runtime.Value {
	combined := make([]runtime.Value, 0, len(partials)+len(args))
	combined = append(combined, partials...)
	combined = append(combined, args...)
	return combined
}
