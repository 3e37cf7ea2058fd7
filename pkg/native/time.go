package native

import (
	"errors"
	"time"

	"github.com/araddon/dateparse"

	"ember/interpreter-go/pkg/runtime"
)

func epochSeconds(t time.Time) runtime.FloatValue {
	return runtime.FloatValue{Val: float64(t.UnixNano()) / float64(time.Second)}
}

func timeNow(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return epochSeconds(time.Now()), nil
}

func timeMillis(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return runtime.IntValue{Val: time.Now().UnixMilli()}, nil
}

func timeSleep(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	seconds, err := ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return runtime.VoidValue{}, nil
}

// timeParse reads a timestamp in any common layout and reports it as epoch
// seconds, fractional part preserved.
func timeParse(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("Expected 1 argument")
	}
	text, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	t, err := dateparse.ParseAny(text)
	if err != nil {
		return nil, err
	}
	return epochSeconds(t), nil
}

func timeModule() runtime.NativeModuleValue {
	return module("time", map[string]runtime.NativeFunc{
		"now":    timeNow,
		"millis": timeMillis,
		"sleep":  timeSleep,
		"parse":  timeParse,
	})
}
