package runtime

import (
	"fmt"
	"sync"

	"ember/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindVoid
	KindList
	KindTuple
	KindSet
	KindDict
	KindListMutable
	KindTupleMutable
	KindSetMutable
	KindDictMutable
	KindFunction
	KindNativeFunction
	KindBoundMethod
	KindNativeBoundMethod
	KindClass
	KindInstance
	KindRecord
	KindRecordConstructor
	KindInterface
	KindModule
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindVoid:
		return "Void"
	case KindList:
		return "List"
	case KindTuple:
		return "Tuple"
	case KindSet:
		return "Set"
	case KindDict:
		return "Dict"
	case KindListMutable:
		return "ListMutable"
	case KindTupleMutable:
		return "TupleMutable"
	case KindSetMutable:
		return "SetMutable"
	case KindDictMutable:
		return "DictMutable"
	case KindFunction:
		return "Function"
	case KindNativeFunction:
		return "NativeFunction"
	case KindBoundMethod:
		return "BoundMethod"
	case KindNativeBoundMethod:
		return "NativeBoundMethod"
	case KindClass:
		return "Class"
	case KindInstance:
		return "Instance"
	case KindRecord:
		return "Record"
	case KindRecordConstructor:
		return "RecordConstructor"
	case KindInterface:
		return "Interface"
	case KindModule:
		return "NativeModule"
	case KindChannel:
		return "Channel"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

//-----------------------------------------------------------------------------
// Immutable collections
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

type TupleValue struct {
	Elements []Value
}

func (v *TupleValue) Kind() Kind { return KindTuple }

// SetValue keeps insertion order; NewSetValue drops structural duplicates.
type SetValue struct {
	Elements []Value
}

func NewSetValue(elements []Value) *SetValue {
	out := make([]Value, 0, len(elements))
	for _, el := range elements {
		dup := false
		for _, seen := range out {
			if ValuesEqual(seen, el) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, el)
		}
	}
	return &SetValue{Elements: out}
}

func (v *SetValue) Kind() Kind { return KindSet }

func (v *SetValue) Contains(x Value) bool {
	for _, el := range v.Elements {
		if ValuesEqual(el, x) {
			return true
		}
	}
	return false
}

// DictEntry is one ordered key/value pair.
type DictEntry struct {
	Key   Value
	Value Value
}

// DictValue keeps entries in insertion order and looks keys up structurally.
type DictValue struct {
	Entries []DictEntry
}

func (v *DictValue) Kind() Kind { return KindDict }

func (v *DictValue) Lookup(key Value) (Value, bool) {
	for _, e := range v.Entries {
		if ValuesEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

//-----------------------------------------------------------------------------
// Mutable collections
//
// Shared by pointer; the backing store is guarded by a read/write lock held
// for the duration of a single operation, so aliases observe each other's
// writes from any task.
//-----------------------------------------------------------------------------

type ListMutableValue struct {
	mu       sync.RWMutex
	elements []Value
}

func NewListMutable(elements []Value) *ListMutableValue {
	cp := make([]Value, len(elements))
	copy(cp, elements)
	return &ListMutableValue{elements: cp}
}

func (v *ListMutableValue) Kind() Kind { return KindListMutable }

func (v *ListMutableValue) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.elements)
}

func (v *ListMutableValue) At(i int) (Value, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if i < 0 || i >= len(v.elements) {
		return nil, false
	}
	return v.elements[i], true
}

func (v *ListMutableValue) SetAt(i int, x Value) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.elements) {
		return false
	}
	v.elements[i] = x
	return true
}

func (v *ListMutableValue) Push(x Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.elements = append(v.elements, x)
}

func (v *ListMutableValue) Pop() (Value, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.elements) == 0 {
		return nil, false
	}
	last := v.elements[len(v.elements)-1]
	v.elements = v.elements[:len(v.elements)-1]
	return last, true
}

func (v *ListMutableValue) Insert(i int, x Value) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i > len(v.elements) {
		return false
	}
	v.elements = append(v.elements, nil)
	copy(v.elements[i+1:], v.elements[i:])
	v.elements[i] = x
	return true
}

// Remove drops the first element structurally equal to x, if any.
func (v *ListMutableValue) Remove(x Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, el := range v.elements {
		if ValuesEqual(el, x) {
			v.elements = append(v.elements[:i], v.elements[i+1:]...)
			return
		}
	}
}

func (v *ListMutableValue) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.elements = v.elements[:0]
}

func (v *ListMutableValue) Reverse() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, j := 0, len(v.elements)-1; i < j; i, j = i+1, j-1 {
		v.elements[i], v.elements[j] = v.elements[j], v.elements[i]
	}
}

// Snapshot copies the current elements so iteration never holds the lock.
func (v *ListMutableValue) Snapshot() []Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cp := make([]Value, len(v.elements))
	copy(cp, v.elements)
	return cp
}

type TupleMutableValue struct {
	mu       sync.RWMutex
	elements []Value
}

func NewTupleMutable(elements []Value) *TupleMutableValue {
	cp := make([]Value, len(elements))
	copy(cp, elements)
	return &TupleMutableValue{elements: cp}
}

func (v *TupleMutableValue) Kind() Kind { return KindTupleMutable }

func (v *TupleMutableValue) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.elements)
}

func (v *TupleMutableValue) At(i int) (Value, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if i < 0 || i >= len(v.elements) {
		return nil, false
	}
	return v.elements[i], true
}

func (v *TupleMutableValue) SetAt(i int, x Value) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.elements) {
		return false
	}
	v.elements[i] = x
	return true
}

func (v *TupleMutableValue) Snapshot() []Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cp := make([]Value, len(v.elements))
	copy(cp, v.elements)
	return cp
}

type SetMutableValue struct {
	mu       sync.RWMutex
	elements []Value
}

func NewSetMutable(elements []Value) *SetMutableValue {
	set := &SetMutableValue{elements: make([]Value, 0, len(elements))}
	for _, el := range elements {
		set.Add(el)
	}
	return set
}

func (v *SetMutableValue) Kind() Kind { return KindSetMutable }

func (v *SetMutableValue) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.elements)
}

// Add appends x unless a structurally equal element is already present.
func (v *SetMutableValue) Add(x Value) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, el := range v.elements {
		if ValuesEqual(el, x) {
			return false
		}
	}
	v.elements = append(v.elements, x)
	return true
}

func (v *SetMutableValue) Remove(x Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, el := range v.elements {
		if ValuesEqual(el, x) {
			v.elements = append(v.elements[:i], v.elements[i+1:]...)
			return
		}
	}
}

func (v *SetMutableValue) Contains(x Value) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, el := range v.elements {
		if ValuesEqual(el, x) {
			return true
		}
	}
	return false
}

func (v *SetMutableValue) Snapshot() []Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cp := make([]Value, len(v.elements))
	copy(cp, v.elements)
	return cp
}

type DictMutableValue struct {
	mu      sync.RWMutex
	entries []DictEntry
}

func NewDictMutable(entries []DictEntry) *DictMutableValue {
	cp := make([]DictEntry, len(entries))
	copy(cp, entries)
	return &DictMutableValue{entries: cp}
}

func (v *DictMutableValue) Kind() Kind { return KindDictMutable }

func (v *DictMutableValue) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

func (v *DictMutableValue) Get(key Value) (Value, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, e := range v.entries {
		if ValuesEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the first structurally equal key, or appends a
// new entry preserving insertion order.
func (v *DictMutableValue) Set(key, val Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.entries {
		if ValuesEqual(v.entries[i].Key, key) {
			v.entries[i].Value = val
			return
		}
	}
	v.entries = append(v.entries, DictEntry{Key: key, Value: val})
}

func (v *DictMutableValue) Remove(key Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, e := range v.entries {
		if ValuesEqual(e.Key, key) {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			return
		}
	}
}

func (v *DictMutableValue) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = v.entries[:0]
}

func (v *DictMutableValue) Snapshot() []DictEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cp := make([]DictEntry, len(v.entries))
	copy(cp, v.entries)
	return cp
}

//-----------------------------------------------------------------------------
// Functions & bound methods
//-----------------------------------------------------------------------------

// FunctionValue pairs a declaration with its defining environment. Partial
// application never mutates in place: each application returns a fresh value
// sharing Decl and Closure with a longer PartialArgs list.
type FunctionValue struct {
	Decl        *ast.FunctionDeclaration
	Closure     *Environment
	PartialArgs []Value
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue wraps a host function. Arity < 0 means variadic.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// Bound methods capture the receiver and a callable.
type BoundMethodValue struct {
	Receiver Value
	Method   *FunctionValue
}

func (v BoundMethodValue) Kind() Kind { return KindBoundMethod }

type NativeBoundMethodValue struct {
	Receiver Value
	Method   NativeFunctionValue
}

func (v NativeBoundMethodValue) Kind() Kind { return KindNativeBoundMethod }

//-----------------------------------------------------------------------------
// Classes, records, interfaces
//-----------------------------------------------------------------------------

type ClassValue struct {
	Name    string
	Parent  *ClassValue
	Methods map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

// ResolveMethod walks the ancestor chain; the nearest definition wins.
func (v *ClassValue) ResolveMethod(name string) (*FunctionValue, bool) {
	for cls := v; cls != nil; cls = cls.Parent {
		if m, ok := cls.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

type InstanceValue struct {
	Class  *ClassValue
	mu     sync.RWMutex
	fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

func (v *InstanceValue) GetField(name string) (Value, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.fields[name]
	return val, ok
}

func (v *InstanceValue) SetField(name string, val Value) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fields[name] = val
}

// FieldsSnapshot copies the field table for equality checks and printing.
func (v *InstanceValue) FieldsSnapshot() map[string]Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]Value, len(v.fields))
	for k, val := range v.fields {
		out[k] = val
	}
	return out
}

// RecordConstructorValue is the callable produced by a record declaration.
// Fields play the role of parameters; full application yields a RecordValue.
type RecordConstructorValue struct {
	Name        string
	Generics    []string
	Fields      []string
	Methods     map[string]*FunctionValue
	PartialArgs []Value
}

func (v *RecordConstructorValue) Kind() Kind { return KindRecordConstructor }

// RecordValue is immutable once constructed; Fields and Methods are shared
// with the constructor.
type RecordValue struct {
	Name    string
	Fields  []string
	Values  []Value
	Methods map[string]*FunctionValue
}

func (v *RecordValue) Kind() Kind { return KindRecord }

func (v *RecordValue) FieldValue(name string) (Value, bool) {
	for i, f := range v.Fields {
		if f == name {
			return v.Values[i], true
		}
	}
	return nil, false
}

type InterfaceDefinitionValue struct {
	Decl *ast.InterfaceDeclaration
}

func (v InterfaceDefinitionValue) Kind() Kind { return KindInterface }

//-----------------------------------------------------------------------------
// Native modules
//-----------------------------------------------------------------------------

// NativeModuleValue is an immutable name -> Value namespace built by the host.
type NativeModuleValue struct {
	Name    string
	Members map[string]Value
}

func (v NativeModuleValue) Kind() Kind { return KindModule }

//-----------------------------------------------------------------------------
// Channels
//-----------------------------------------------------------------------------

// ChannelValue wraps a buffered Go channel for script-level message passing.
type ChannelValue struct {
	Capacity int
	ch       chan Value
	mu       sync.Mutex
	closed   bool
}

func NewChannel(capacity int) *ChannelValue {
	if capacity < 0 {
		capacity = 0
	}
	return &ChannelValue{Capacity: capacity, ch: make(chan Value, capacity)}
}

func (v *ChannelValue) Kind() Kind { return KindChannel }

// Send blocks until the value is accepted. Sending on a closed channel is
// reported as an error instead of a panic.
func (v *ChannelValue) Send(x Value) (err error) {
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("send on closed channel")
		}
	}()
	v.ch <- x
	return nil
}

// Recv blocks until a value arrives; ok is false once the channel is closed
// and drained.
func (v *ChannelValue) Recv() (Value, bool) {
	x, ok := <-v.ch
	if !ok {
		return VoidValue{}, false
	}
	return x, true
}

func (v *ChannelValue) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("close of closed channel")
	}
	v.closed = true
	close(v.ch)
	return nil
}

func (v *ChannelValue) Len() int {
	return len(v.ch)
}
