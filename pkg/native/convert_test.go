package native

import (
	"testing"

	"ember/interpreter-go/pkg/runtime"
)

func TestToFloatWidensInt(t *testing.T) {
	got, err := ToFloat(runtime.IntValue{Val: 3})
	if err != nil || got != 3 {
		t.Fatalf("ToFloat(Int 3) = %v, %v", got, err)
	}
	if _, err := ToFloat(str("x")); err == nil || err.Error() != "Expected Float or Int" {
		t.Fatalf("ToFloat(String) err = %v", err)
	}
}

func TestToIntRejectsFloat(t *testing.T) {
	if _, err := ToInt(runtime.FloatValue{Val: 3}); err == nil || err.Error() != "Expected Int" {
		t.Fatalf("ToInt(Float) err = %v", err)
	}
}

func TestToStringSlice(t *testing.T) {
	list := &runtime.ListValue{Elements: []runtime.Value{str("a"), str("b")}}
	got, err := ToStringSlice(list)
	if err != nil || len(got) != 2 || got[1] != "b" {
		t.Fatalf("ToStringSlice(list) = %v, %v", got, err)
	}

	mutable := runtime.NewListMutable([]runtime.Value{str("c")})
	got, err = ToStringSlice(mutable)
	if err != nil || len(got) != 1 || got[0] != "c" {
		t.Fatalf("ToStringSlice(mutable) = %v, %v", got, err)
	}

	if _, err := ToStringSlice(str("nope")); err == nil || err.Error() != "Expected List" {
		t.Fatalf("ToStringSlice(String) err = %v", err)
	}
	mixed := &runtime.ListValue{Elements: []runtime.Value{str("a"), runtime.IntValue{Val: 1}}}
	if _, err := ToStringSlice(mixed); err == nil || err.Error() != "Expected String" {
		t.Fatalf("ToStringSlice(mixed) err = %v", err)
	}
}
