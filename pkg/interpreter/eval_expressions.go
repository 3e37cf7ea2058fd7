package interpreter

import (
	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.BoolLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Identifier:
		val, err := env.Get(n.Name)
		if err != nil {
			return nil, i.raiseError("%s", err.Error())
		}
		return val, nil
	case *ast.ListLiteral:
		elements, err := i.evaluateExpressions(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &runtime.ListValue{Elements: elements}, nil
	case *ast.TupleLiteral:
		elements, err := i.evaluateExpressions(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return &runtime.TupleValue{Elements: elements}, nil
	case *ast.SetLiteral:
		elements, err := i.evaluateExpressions(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return runtime.NewSetValue(elements), nil
	case *ast.DictLiteral:
		entries := make([]runtime.DictEntry, 0, len(n.Entries))
		for _, entry := range n.Entries {
			key, err := i.evaluateExpression(entry.Key, env)
			if err != nil {
				return nil, err
			}
			val, err := i.evaluateExpression(entry.Value, env)
			if err != nil {
				return nil, err
			}
			entries = append(entries, runtime.DictEntry{Key: key, Value: val})
		}
		return &runtime.DictValue{Entries: entries}, nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	case *ast.MemberExpression:
		object, err := i.evaluateExpression(n.Object, env)
		if err != nil {
			return nil, err
		}
		return i.memberAccess(object, n.Name)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	default:
		return nil, i.raiseError("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateExpressions(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (i *Interpreter) evaluateUnaryExpression(n *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch v := operand.(type) {
	case runtime.IntValue:
		return runtime.IntValue{Val: -v.Val}, nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: -v.Val}, nil
	default:
		return nil, i.raiseError("Cannot negate %s", typeName(operand))
	}
}

func (i *Interpreter) evaluateBinaryExpression(n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return runtime.BoolValue{Val: runtime.ValuesEqual(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.ValuesEqual(left, right)}, nil
	}

	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			switch n.Op {
			case "+":
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			case "<":
				return runtime.BoolValue{Val: ls.Val < rs.Val}, nil
			case "<=":
				return runtime.BoolValue{Val: ls.Val <= rs.Val}, nil
			case ">":
				return runtime.BoolValue{Val: ls.Val > rs.Val}, nil
			case ">=":
				return runtime.BoolValue{Val: ls.Val >= rs.Val}, nil
			}
		}
	}

	if li, lok := left.(runtime.IntValue); lok {
		if ri, rok := right.(runtime.IntValue); rok {
			return i.intBinary(n.Op, li.Val, ri.Val, left, right)
		}
	}
	if lf, rf, ok := numericPair(left, right); ok {
		return i.floatBinary(n.Op, lf, rf, left, right)
	}

	return nil, i.raiseError("Unsupported operation '%s' for %s and %s", n.Op, typeName(left), typeName(right))
}

func (i *Interpreter) intBinary(op string, a, b int64, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntValue{Val: a + b}, nil
	case "-":
		return runtime.IntValue{Val: a - b}, nil
	case "*":
		return runtime.IntValue{Val: a * b}, nil
	case "/":
		if b == 0 {
			return nil, i.raiseError("Division by zero")
		}
		return runtime.IntValue{Val: a / b}, nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	default:
		return nil, i.raiseError("Unsupported operation '%s' for %s and %s", op, typeName(left), typeName(right))
	}
}

func (i *Interpreter) floatBinary(op string, a, b float64, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: a + b}, nil
	case "-":
		return runtime.FloatValue{Val: a - b}, nil
	case "*":
		return runtime.FloatValue{Val: a * b}, nil
	case "/":
		return runtime.FloatValue{Val: a / b}, nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	default:
		return nil, i.raiseError("Unsupported operation '%s' for %s and %s", op, typeName(left), typeName(right))
	}
}

// numericPair promotes mixed Int/Float operands to floats. Pure Int pairs are
// handled before this so integer arithmetic stays exact.
func numericPair(left, right runtime.Value) (float64, float64, bool) {
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	return lf, rf, lok && rok
}

func asFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.IntValue:
		return float64(n.Val), true
	case runtime.FloatValue:
		return n.Val, true
	default:
		return 0, false
	}
}

func (i *Interpreter) evaluateCallExpression(n *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateExpressions(n.Args, env)
	if err != nil {
		return nil, err
	}
	return i.applyCallable(callee, args)
}

func (i *Interpreter) evaluateIndexExpression(n *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(n.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(n.Index, env)
	if err != nil {
		return nil, err
	}
	return i.indexValue(object, index)
}

func (i *Interpreter) indexValue(object, index runtime.Value) (runtime.Value, error) {
	switch v := object.(type) {
	case *runtime.ListValue:
		return i.elementAt(v.Elements, index, object)
	case *runtime.TupleValue:
		return i.elementAt(v.Elements, index, object)
	case *runtime.ListMutableValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return nil, i.raiseError("%s index must be an integer", typeName(object))
		}
		val, ok := v.At(int(idx.Val))
		if !ok {
			return nil, i.raiseError("Index out of bounds")
		}
		return val, nil
	case *runtime.TupleMutableValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return nil, i.raiseError("%s index must be an integer", typeName(object))
		}
		val, ok := v.At(int(idx.Val))
		if !ok {
			return nil, i.raiseError("Index out of bounds")
		}
		return val, nil
	case *runtime.DictValue:
		if val, ok := v.Lookup(index); ok {
			return val, nil
		}
		return runtime.VoidValue{}, nil
	case *runtime.DictMutableValue:
		if val, ok := v.Get(index); ok {
			return val, nil
		}
		return runtime.VoidValue{}, nil
	case runtime.StringValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return nil, i.raiseError("String index must be an integer")
		}
		runes := []rune(v.Val)
		if idx.Val < 0 || idx.Val >= int64(len(runes)) {
			return nil, i.raiseError("Index out of bounds")
		}
		return runtime.StringValue{Val: string(runes[idx.Val])}, nil
	default:
		return nil, i.raiseError("Cannot index %s", typeName(object))
	}
}

func (i *Interpreter) elementAt(elements []runtime.Value, index runtime.Value, object runtime.Value) (runtime.Value, error) {
	idx, ok := index.(runtime.IntValue)
	if !ok {
		return nil, i.raiseError("%s index must be an integer", typeName(object))
	}
	if idx.Val < 0 || idx.Val >= int64(len(elements)) {
		return nil, i.raiseError("Index out of bounds")
	}
	return elements[idx.Val], nil
}
