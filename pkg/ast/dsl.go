package ast

// Shorthand constructors. Tests assemble programs from these instead of the
// long-form New* functions.

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntLiteral {
	return NewIntLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BoolLiteral {
	return NewBoolLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Tup(elements ...Expression) *TupleLiteral {
	return NewTupleLiteral(elements)
}

func SetL(elements ...Expression) *SetLiteral {
	return NewSetLiteral(elements)
}

func Entry(key, value Expression) *DictEntry {
	return NewDictEntry(key, value)
}

func Dict(entries ...*DictEntry) *DictLiteral {
	return NewDictLiteral(entries)
}

// Operator and postfix helpers.

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression("-", operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args, nil)
}

func Member(object Expression, name string) *MemberExpression {
	return NewMemberExpression(object, name)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

// Statement helpers.

func Prog(statements ...Statement) *Program {
	return NewProgram(statements)
}

func Block(statements ...Statement) []Statement {
	return statements
}

func Let(name string, value Expression) *VarDecl {
	return NewVarDecl(name, value, false, nil)
}

func Mut(name string, value Expression) *VarDecl {
	return NewVarDecl(name, value, true, nil)
}

func Assign(name string, value Expression) *AssignStatement {
	return NewAssignStatement(name, value)
}

func SetMem(object Expression, name string, value Expression) *SetMemberStatement {
	return NewSetMemberStatement(object, name, value)
}

func SetIdx(object, index, value Expression) *SetIndexStatement {
	return NewSetIndexStatement(object, index, value)
}

func ExprS(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Param(name string) *Parameter {
	return NewParameter(name, nil)
}

func Params(names ...string) []*Parameter {
	out := make([]*Parameter, len(names))
	for i, name := range names {
		out[i] = NewParameter(name, nil)
	}
	return out
}

func Def(name string, params []*Parameter, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(name, params, body, nil, nil)
}

func Ret(value ...Expression) *ReturnStatement {
	if len(value) == 0 {
		return NewReturnStatement(nil)
	}
	return NewReturnStatement(value[0])
}

func If(cond Expression, then, els []Statement) *IfStatement {
	return NewIfStatement(cond, then, els)
}

func While(cond Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(cond, body)
}

func For(variable string, iterable Expression, body ...Statement) *ForStatement {
	return NewForStatement(variable, iterable, body)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Imp(path string) *ImportStatement {
	return NewImportStatement(path, false)
}

func ImpQ(path string) *ImportStatement {
	return NewImportStatement(path, true)
}

func Field(name string, fieldType TypeExpression) *FieldDefinition {
	return NewFieldDefinition(name, fieldType)
}

func Rec(name string, fields []*FieldDefinition, methods ...*FunctionDeclaration) *RecordDeclaration {
	return NewRecordDeclaration(name, fields, methods, nil)
}

func Cls(name, parent string, methods ...*FunctionDeclaration) *ClassDeclaration {
	return NewClassDeclaration(name, parent, methods)
}

func Catch(variable string, body ...Statement) *CatchClause {
	return NewCatchClause(variable, body)
}

func Try(body []Statement, catch *CatchClause, finally []Statement) *TryStatement {
	return NewTryStatement(body, catch, finally)
}

func Raise(errExpr Expression) *RaiseStatement {
	return NewRaiseStatement(errExpr, nil)
}

func RaiseFrom(errExpr, cause Expression) *RaiseStatement {
	return NewRaiseStatement(errExpr, cause)
}

func Go(call *CallExpression) *GoStatement {
	return NewGoStatement(call)
}

// Type expression helpers.

func Ty(name string, args ...TypeExpression) *SimpleType {
	return NewSimpleType(name, args)
}

func UnionT(variants ...TypeExpression) *UnionType {
	return NewUnionType(variants)
}
