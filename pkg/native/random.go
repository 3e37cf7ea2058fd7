package native

import (
	"errors"
	"math/rand/v2"

	"ember/interpreter-go/pkg/runtime"
)

func randomFloat(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return runtime.FloatValue{Val: rand.Float64()}, nil
}

// randomInt picks uniformly from [min, max], both ends included.
func randomInt(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, errors.New("Expected 2 arguments (min, max)")
	}
	min, err := ToInt(args[0])
	if err != nil {
		return nil, err
	}
	max, err := ToInt(args[1])
	if err != nil {
		return nil, err
	}
	if min > max {
		return nil, errors.New("randint min must not exceed max")
	}
	return runtime.IntValue{Val: min + rand.Int64N(max-min+1)}, nil
}

func randomModule() runtime.NativeModuleValue {
	return module("random", map[string]runtime.NativeFunc{
		"random":  randomFloat,
		"randint": randomInt,
	})
}
