package interpreter

import (
	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement, env *runtime.Environment) (runtime.Flow, error) {
	switch n := node.(type) {
	case *ast.VarDecl:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		env.Define(n.Name, val)
		return runtime.NormalFlow(), nil
	case *ast.AssignStatement:
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		if err := env.Assign(n.Name, val); err != nil {
			return runtime.NormalFlow(), i.raiseError("%s", err.Error())
		}
		return runtime.NormalFlow(), nil
	case *ast.SetMemberStatement:
		return i.executeSetMember(n, env)
	case *ast.SetIndexStatement:
		return i.executeSetIndex(n, env)
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expr, env)
		return runtime.NormalFlow(), err
	case *ast.FunctionDeclaration:
		env.Define(n.Name, &runtime.FunctionValue{Decl: n, Closure: env})
		return runtime.NormalFlow(), nil
	case *ast.ReturnStatement:
		if n.Value == nil {
			return runtime.ReturnFlow(runtime.VoidValue{}), nil
		}
		val, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		return runtime.ReturnFlow(val), nil
	case *ast.IfStatement:
		return i.executeIf(n, env)
	case *ast.WhileStatement:
		return i.executeWhile(n, env)
	case *ast.ForStatement:
		return i.executeFor(n, env)
	case *ast.BreakStatement:
		return runtime.BreakFlow(), nil
	case *ast.ContinueStatement:
		return runtime.ContinueFlow(), nil
	case *ast.ImportStatement:
		return runtime.NormalFlow(), i.executeImport(n, env)
	case *ast.RecordDeclaration:
		return i.executeRecordDeclaration(n, env)
	case *ast.ClassDeclaration:
		return i.executeClassDeclaration(n, env)
	case *ast.InterfaceDeclaration:
		env.Define(n.Name, runtime.InterfaceDefinitionValue{Decl: n})
		return runtime.NormalFlow(), nil
	case *ast.TypeAliasDeclaration:
		// Annotations are never checked; the alias has no runtime effect.
		return runtime.NormalFlow(), nil
	case *ast.TryStatement:
		return i.executeTry(n, env)
	case *ast.RaiseStatement:
		return i.executeRaise(n, env)
	case *ast.GoStatement:
		return runtime.NormalFlow(), i.executeGo(n, env)
	default:
		return runtime.NormalFlow(), i.raiseError("unsupported statement type: %s", node.NodeType())
	}
}

func (i *Interpreter) executeIf(n *ast.IfStatement, env *runtime.Environment) (runtime.Flow, error) {
	cond, err := i.evaluateExpression(n.Cond, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return runtime.NormalFlow(), i.raiseError("Condition must be boolean")
	}
	if b.Val {
		return i.executeBlock(n.Then, env.Child())
	}
	if n.Else != nil {
		return i.executeBlock(n.Else, env.Child())
	}
	return runtime.NormalFlow(), nil
}

func (i *Interpreter) executeWhile(n *ast.WhileStatement, env *runtime.Environment) (runtime.Flow, error) {
	for {
		cond, err := i.evaluateExpression(n.Cond, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		b, ok := cond.(runtime.BoolValue)
		if !ok {
			return runtime.NormalFlow(), i.raiseError("Condition must be boolean")
		}
		if !b.Val {
			return runtime.NormalFlow(), nil
		}
		flow, err := i.executeBlock(n.Body, env.Child())
		if err != nil {
			return runtime.NormalFlow(), err
		}
		switch flow.Kind {
		case runtime.FlowBreak:
			return runtime.NormalFlow(), nil
		case runtime.FlowReturn:
			return flow, nil
		}
	}
}

func (i *Interpreter) executeFor(n *ast.ForStatement, env *runtime.Environment) (runtime.Flow, error) {
	iterable, err := i.evaluateExpression(n.Iterable, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	items, err := i.iterableElements(iterable)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	for _, item := range items {
		iterEnv := env.Child()
		iterEnv.Define(n.Var, item)
		flow, err := i.executeBlock(n.Body, iterEnv)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		switch flow.Kind {
		case runtime.FlowBreak:
			return runtime.NormalFlow(), nil
		case runtime.FlowReturn:
			return flow, nil
		}
	}
	return runtime.NormalFlow(), nil
}

// iterableElements snapshots the iteration source so mutation during the
// loop cannot tear it.
func (i *Interpreter) iterableElements(val runtime.Value) ([]runtime.Value, error) {
	switch v := val.(type) {
	case *runtime.ListValue:
		return v.Elements, nil
	case *runtime.TupleValue:
		return v.Elements, nil
	case *runtime.SetValue:
		return v.Elements, nil
	case *runtime.ListMutableValue:
		return v.Snapshot(), nil
	case *runtime.TupleMutableValue:
		return v.Snapshot(), nil
	case *runtime.SetMutableValue:
		return v.Snapshot(), nil
	default:
		return nil, i.raiseError("Cannot iterate over %s", typeName(val))
	}
}

func (i *Interpreter) executeRecordDeclaration(n *ast.RecordDeclaration, env *runtime.Environment) (runtime.Flow, error) {
	fields := make([]string, len(n.Fields))
	for idx, f := range n.Fields {
		fields[idx] = f.Name
	}
	methods := make(map[string]*runtime.FunctionValue, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name] = &runtime.FunctionValue{Decl: m, Closure: env}
	}
	env.Define(n.Name, &runtime.RecordConstructorValue{
		Name:     n.Name,
		Generics: n.Generics,
		Fields:   fields,
		Methods:  methods,
	})
	return runtime.NormalFlow(), nil
}

func (i *Interpreter) executeClassDeclaration(n *ast.ClassDeclaration, env *runtime.Environment) (runtime.Flow, error) {
	var parent *runtime.ClassValue
	if n.Parent != "" {
		parentVal, err := env.Get(n.Parent)
		if err != nil {
			return runtime.NormalFlow(), i.raiseError("%s", err.Error())
		}
		cls, ok := parentVal.(*runtime.ClassValue)
		if !ok {
			return runtime.NormalFlow(), i.raiseError("'%s' is not a class", n.Parent)
		}
		parent = cls
	}
	methods := make(map[string]*runtime.FunctionValue, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name] = &runtime.FunctionValue{Decl: m, Closure: env}
	}
	env.Define(n.Name, &runtime.ClassValue{Name: n.Name, Parent: parent, Methods: methods})
	return runtime.NormalFlow(), nil
}

// executeTry implements the handling state machine: run the body; a raised
// error reaches the except clause if present; finally always runs exactly
// once and its non-normal outcome overrides whatever was pending.
func (i *Interpreter) executeTry(n *ast.TryStatement, env *runtime.Environment) (runtime.Flow, error) {
	flow, err := i.executeBlock(n.Body, env.Child())

	if err != nil && n.Catch != nil {
		if raised, ok := RaisedValue(err); ok {
			catchEnv := env.Child()
			if n.Catch.Var != "" {
				catchEnv.Define(n.Catch.Var, raised)
			}
			flow, err = i.executeBlock(n.Catch.Body, catchEnv)
		}
	}

	if n.Finally != nil {
		finallyFlow, finallyErr := i.executeBlock(n.Finally, env.Child())
		if finallyErr != nil {
			return runtime.NormalFlow(), finallyErr
		}
		if !finallyFlow.IsNormal() {
			return finallyFlow, nil
		}
	}
	return flow, err
}

func (i *Interpreter) executeRaise(n *ast.RaiseStatement, env *runtime.Environment) (runtime.Flow, error) {
	errVal, err := i.evaluateExpression(n.Error, env)
	if err != nil {
		return runtime.NormalFlow(), err
	}
	if n.Cause != nil {
		causeVal, err := i.evaluateExpression(n.Cause, env)
		if err != nil {
			return runtime.NormalFlow(), err
		}
		inst, ok := errVal.(*runtime.InstanceValue)
		if !ok {
			return runtime.NormalFlow(), i.raiseError("Cannot attach cause to %s", typeName(errVal))
		}
		inst.SetField("cause", causeVal)
	}
	return runtime.NormalFlow(), i.raiseValue(errVal)
}
