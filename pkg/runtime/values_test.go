package runtime

import (
	"testing"
	"time"
)

func TestListMutablePushPop(t *testing.T) {
	list := NewListMutable(nil)
	list.Push(IntValue{Val: 1})
	list.Push(IntValue{Val: 2})

	if list.Len() != 2 {
		t.Fatalf("expected len 2, got %d", list.Len())
	}
	got, ok := list.Pop()
	if !ok {
		t.Fatalf("expected pop to succeed")
	}
	if iv := got.(IntValue); iv.Val != 2 {
		t.Fatalf("expected last element, got %#v", got)
	}
	list.Pop()
	if _, ok := list.Pop(); ok {
		t.Fatalf("expected pop on empty list to report failure")
	}
}

func TestListMutableAliasing(t *testing.T) {
	a := NewListMutable([]Value{IntValue{Val: 1}})
	b := a
	b.Push(IntValue{Val: 2})

	if a.Len() != 2 {
		t.Fatalf("expected aliased push to be visible, got len %d", a.Len())
	}
}

func TestListMutableInsertBounds(t *testing.T) {
	list := NewListMutable([]Value{IntValue{Val: 1}, IntValue{Val: 3}})
	if !list.Insert(1, IntValue{Val: 2}) {
		t.Fatalf("expected in-bounds insert to succeed")
	}
	snap := list.Snapshot()
	if len(snap) != 3 || snap[1].(IntValue).Val != 2 {
		t.Fatalf("unexpected contents after insert: %#v", snap)
	}
	if list.Insert(7, IntValue{Val: 9}) {
		t.Fatalf("expected out-of-bounds insert to fail")
	}
	if !list.Insert(3, IntValue{Val: 4}) {
		t.Fatalf("expected insert at len to append")
	}
}

func TestListMutableRemoveFirstStructuralMatch(t *testing.T) {
	list := NewListMutable([]Value{IntValue{Val: 1}, IntValue{Val: 2}, IntValue{Val: 1}})
	list.Remove(IntValue{Val: 1})
	snap := list.Snapshot()
	if len(snap) != 2 || snap[0].(IntValue).Val != 2 || snap[1].(IntValue).Val != 1 {
		t.Fatalf("unexpected contents after remove: %#v", snap)
	}
	list.Remove(IntValue{Val: 42})
	if list.Len() != 2 {
		t.Fatalf("expected remove of absent value to be a no-op")
	}
}

func TestListMutableReverseAndClear(t *testing.T) {
	list := NewListMutable([]Value{IntValue{Val: 1}, IntValue{Val: 2}, IntValue{Val: 3}})
	list.Reverse()
	snap := list.Snapshot()
	if snap[0].(IntValue).Val != 3 || snap[2].(IntValue).Val != 1 {
		t.Fatalf("unexpected contents after reverse: %#v", snap)
	}
	list.Clear()
	if list.Len() != 0 {
		t.Fatalf("expected clear to empty the list, got %d", list.Len())
	}
}

func TestSetValueDropsDuplicates(t *testing.T) {
	set := NewSetValue([]Value{IntValue{Val: 1}, IntValue{Val: 2}, IntValue{Val: 1}})
	if len(set.Elements) != 2 {
		t.Fatalf("expected duplicates dropped, got %#v", set.Elements)
	}
	if !set.Contains(IntValue{Val: 2}) {
		t.Fatalf("expected membership for 2")
	}
	if set.Contains(IntValue{Val: 3}) {
		t.Fatalf("unexpected membership for 3")
	}
}

func TestSetMutableAddIsIdempotent(t *testing.T) {
	set := NewSetMutable(nil)
	if !set.Add(IntValue{Val: 1}) {
		t.Fatalf("expected first add to insert")
	}
	if set.Add(IntValue{Val: 1}) {
		t.Fatalf("expected duplicate add to be rejected")
	}
	if set.Len() != 1 {
		t.Fatalf("expected len 1, got %d", set.Len())
	}
	set.Remove(IntValue{Val: 1})
	if set.Contains(IntValue{Val: 1}) {
		t.Fatalf("expected element removed")
	}
}

func TestDictMutableSetPreservesOrder(t *testing.T) {
	dict := NewDictMutable(nil)
	dict.Set(StringValue{Val: "a"}, IntValue{Val: 1})
	dict.Set(StringValue{Val: "b"}, IntValue{Val: 2})
	dict.Set(StringValue{Val: "a"}, IntValue{Val: 3})

	if dict.Len() != 2 {
		t.Fatalf("expected replace not append, got len %d", dict.Len())
	}
	entries := dict.Snapshot()
	if entries[0].Key.(StringValue).Val != "a" || entries[0].Value.(IntValue).Val != 3 {
		t.Fatalf("expected first entry updated in place, got %#v", entries[0])
	}
	if entries[1].Key.(StringValue).Val != "b" {
		t.Fatalf("expected insertion order preserved, got %#v", entries[1])
	}
}

func TestDictMutableGetAndRemove(t *testing.T) {
	dict := NewDictMutable([]DictEntry{
		{Key: IntValue{Val: 1}, Value: StringValue{Val: "one"}},
	})
	got, ok := dict.Get(IntValue{Val: 1})
	if !ok || got.(StringValue).Val != "one" {
		t.Fatalf("expected structural key lookup, got %#v", got)
	}
	if _, ok := dict.Get(IntValue{Val: 2}); ok {
		t.Fatalf("unexpected hit for absent key")
	}
	dict.Remove(IntValue{Val: 1})
	if dict.Len() != 0 {
		t.Fatalf("expected entry removed")
	}
}

func TestClassMethodResolutionWalksParents(t *testing.T) {
	speak := &FunctionValue{}
	base := &ClassValue{Name: "Animal", Methods: map[string]*FunctionValue{"speak": speak}}
	child := &ClassValue{Name: "Dog", Parent: base, Methods: map[string]*FunctionValue{}}

	got, ok := child.ResolveMethod("speak")
	if !ok || got != speak {
		t.Fatalf("expected inherited method, got %#v", got)
	}
	if _, ok := child.ResolveMethod("fly"); ok {
		t.Fatalf("unexpected resolution for unknown method")
	}

	override := &FunctionValue{}
	child.Methods["speak"] = override
	got, _ = child.ResolveMethod("speak")
	if got != override {
		t.Fatalf("expected nearest definition to win")
	}
}

func TestInstanceFields(t *testing.T) {
	cls := &ClassValue{Name: "C", Methods: map[string]*FunctionValue{}}
	inst := NewInstance(cls)
	inst.SetField("v", IntValue{Val: 5})

	got, ok := inst.GetField("v")
	if !ok || got.(IntValue).Val != 5 {
		t.Fatalf("expected field read-back, got %#v", got)
	}
	if _, ok := inst.GetField("missing"); ok {
		t.Fatalf("unexpected hit for absent field")
	}
}

func TestRecordFieldValue(t *testing.T) {
	rec := &RecordValue{
		Name:   "Point",
		Fields: []string{"x", "y"},
		Values: []Value{IntValue{Val: 1}, IntValue{Val: 2}},
	}
	got, ok := rec.FieldValue("x")
	if !ok || got.(IntValue).Val != 1 {
		t.Fatalf("expected x field, got %#v", got)
	}
	if _, ok := rec.FieldValue("z"); ok {
		t.Fatalf("unexpected hit for absent field")
	}
}

func TestChannelSendRecv(t *testing.T) {
	ch := NewChannel(1)
	if err := ch.Send(IntValue{Val: 42}); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if ch.Len() != 1 {
		t.Fatalf("expected one buffered value, got %d", ch.Len())
	}
	got, ok := ch.Recv()
	if !ok || got.(IntValue).Val != 42 {
		t.Fatalf("unexpected recv result: %#v", got)
	}
}

func TestChannelClose(t *testing.T) {
	ch := NewChannel(1)
	if err := ch.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := ch.Close(); err == nil {
		t.Fatalf("expected double close to fail")
	}
	if err := ch.Send(IntValue{Val: 1}); err == nil {
		t.Fatalf("expected send on closed channel to fail")
	}
	got, ok := ch.Recv()
	if ok {
		t.Fatalf("expected recv on closed channel to report closed")
	}
	if got.Kind() != KindVoid {
		t.Fatalf("expected Void from drained channel, got %#v", got)
	}
}

func TestChannelUnbuffered(t *testing.T) {
	ch := NewChannel(0)
	go func() {
		ch.Send(StringValue{Val: "hi"})
	}()
	got, ok := ch.Recv()
	if !ok || got.(StringValue).Val != "hi" {
		t.Fatalf("unexpected recv result: %#v", got)
	}
}

func TestTaskFinishOnce(t *testing.T) {
	task := NewTask(1, "worker")
	select {
	case <-task.Done():
		t.Fatalf("expected task to be pending")
	default:
	}

	task.Finish(nil)
	task.Finish(StringValue{Val: "late"})

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected done channel closed")
	}
	if task.Err() != nil {
		t.Fatalf("expected first finish to win, got %#v", task.Err())
	}
}

func TestTaskWaitReturnsFailure(t *testing.T) {
	task := NewTask(2, "worker")
	failure := StringValue{Val: "boom"}
	go func() {
		task.Finish(failure)
	}()
	got := task.Wait()
	if got == nil || got.(StringValue).Val != "boom" {
		t.Fatalf("expected failure value, got %#v", got)
	}
}

func TestKindNames(t *testing.T) {
	cases := map[Kind]string{
		KindInt:         "Int",
		KindListMutable: "ListMutable",
		KindRecord:      "Record",
		KindChannel:     "Channel",
		KindVoid:        "Void",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Fatalf("expected %q, got %q", want, kind.String())
		}
	}
}
