package native

import (
	"errors"
	"math"

	"ember/interpreter-go/pkg/runtime"
)

// unaryMath adapts a float function; the argument may be Int or Float and
// the result is always Float.
func unaryMath(f func(float64) float64) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, errors.New("Expected 1 argument")
		}
		x, err := ToFloat(args[0])
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: f(x)}, nil
	}
}

func mathPow(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, errors.New("Expected 2 arguments")
	}
	base, err := ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	exp, err := ToFloat(args[1])
	if err != nil {
		return nil, err
	}
	return runtime.FloatValue{Val: math.Pow(base, exp)}, nil
}

func mathModule() runtime.NativeModuleValue {
	return module("math", map[string]runtime.NativeFunc{
		"sqrt":  unaryMath(math.Sqrt),
		"abs":   unaryMath(math.Abs),
		"ceil":  unaryMath(math.Ceil),
		"floor": unaryMath(math.Floor),
		"round": unaryMath(math.Round),
		"sin":   unaryMath(math.Sin),
		"cos":   unaryMath(math.Cos),
		"tan":   unaryMath(math.Tan),
		"pow":   mathPow,
	})
}
