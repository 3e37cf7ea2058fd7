package runtime

// ValuesEqual reports structural equality between two runtime values.
//
// Containers compare deeply and in order (dicts and sets preserve insertion
// order, so {1, 2} and {2, 1} are distinct). Int and Float never compare
// equal across kinds. Functions compare by declaration identity plus partial
// arguments; captured environments are ignored. Channels compare by
// reference.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case IntValue:
		return av.Val == b.(IntValue).Val
	case FloatValue:
		return av.Val == b.(FloatValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case VoidValue:
		return true
	case *ListValue:
		return valueSlicesEqual(av.Elements, b.(*ListValue).Elements)
	case *TupleValue:
		return valueSlicesEqual(av.Elements, b.(*TupleValue).Elements)
	case *SetValue:
		return valueSlicesEqual(av.Elements, b.(*SetValue).Elements)
	case *DictValue:
		return dictEntriesEqual(av.Entries, b.(*DictValue).Entries)
	case *ListMutableValue:
		bv := b.(*ListMutableValue)
		if av == bv {
			return true
		}
		return valueSlicesEqual(av.Snapshot(), bv.Snapshot())
	case *TupleMutableValue:
		bv := b.(*TupleMutableValue)
		if av == bv {
			return true
		}
		return valueSlicesEqual(av.Snapshot(), bv.Snapshot())
	case *SetMutableValue:
		bv := b.(*SetMutableValue)
		if av == bv {
			return true
		}
		return valueSlicesEqual(av.Snapshot(), bv.Snapshot())
	case *DictMutableValue:
		bv := b.(*DictMutableValue)
		if av == bv {
			return true
		}
		return dictEntriesEqual(av.Snapshot(), bv.Snapshot())
	case *FunctionValue:
		bv := b.(*FunctionValue)
		return av.Decl == bv.Decl && valueSlicesEqual(av.PartialArgs, bv.PartialArgs)
	case NativeFunctionValue:
		return av.Name == b.(NativeFunctionValue).Name
	case BoundMethodValue:
		bv := b.(BoundMethodValue)
		return ValuesEqual(av.Receiver, bv.Receiver) && ValuesEqual(av.Method, bv.Method)
	case NativeBoundMethodValue:
		bv := b.(NativeBoundMethodValue)
		return av.Method.Name == bv.Method.Name && ValuesEqual(av.Receiver, bv.Receiver)
	case *ClassValue:
		bv := b.(*ClassValue)
		if av == bv {
			return true
		}
		return av.Name == bv.Name && methodTablesEqual(av.Methods, bv.Methods)
	case *InstanceValue:
		bv := b.(*InstanceValue)
		if av == bv {
			return true
		}
		if !ValuesEqual(av.Class, bv.Class) {
			return false
		}
		return fieldMapsEqual(av.FieldsSnapshot(), bv.FieldsSnapshot())
	case *RecordValue:
		bv := b.(*RecordValue)
		if av.Name != bv.Name || !stringSlicesEqual(av.Fields, bv.Fields) {
			return false
		}
		return valueSlicesEqual(av.Values, bv.Values)
	case *RecordConstructorValue:
		bv := b.(*RecordConstructorValue)
		if av.Name != bv.Name || !stringSlicesEqual(av.Fields, bv.Fields) {
			return false
		}
		return valueSlicesEqual(av.PartialArgs, bv.PartialArgs)
	case InterfaceDefinitionValue:
		return av.Decl == b.(InterfaceDefinitionValue).Decl
	case NativeModuleValue:
		return av.Name == b.(NativeModuleValue).Name
	case *ChannelValue:
		return av == b.(*ChannelValue)
	default:
		return a == b
	}
}

func valueSlicesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ValuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func dictEntriesEqual(a, b []DictEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ValuesEqual(a[i].Key, b[i].Key) || !ValuesEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func methodTablesEqual(a, b map[string]*FunctionValue) bool {
	if len(a) != len(b) {
		return false
	}
	for name, fn := range a {
		other, ok := b[name]
		if !ok || !ValuesEqual(fn, other) {
			return false
		}
	}
	return true
}

func fieldMapsEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for name, val := range a {
		other, ok := b[name]
		if !ok || !ValuesEqual(val, other) {
			return false
		}
	}
	return true
}
