package ast

// Program root

type Program struct {
	nodeImpl

	Statements []Statement `json:"statements"`
}

func NewProgram(statements []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Statements: statements}
}

// Bindings and assignment

type VarDecl struct {
	nodeImpl
	statementMarker

	Name     string         `json:"name"`
	Mutable  bool           `json:"mutable"`
	DeclType TypeExpression `json:"declType,omitempty"`
	Value    Expression     `json:"value"`
}

func NewVarDecl(name string, value Expression, mutable bool, declType TypeExpression) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl), Name: name, Value: value, Mutable: mutable, DeclType: declType}
}

type AssignStatement struct {
	nodeImpl
	statementMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignStatement(name string, value Expression) *AssignStatement {
	return &AssignStatement{nodeImpl: newNodeImpl(NodeAssignStatement), Name: name, Value: value}
}

type SetMemberStatement struct {
	nodeImpl
	statementMarker

	Object Expression `json:"object"`
	Name   string     `json:"name"`
	Value  Expression `json:"value"`
}

func NewSetMemberStatement(object Expression, name string, value Expression) *SetMemberStatement {
	return &SetMemberStatement{nodeImpl: newNodeImpl(NodeSetMemberStatement), Object: object, Name: name, Value: value}
}

type SetIndexStatement struct {
	nodeImpl
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
	Value  Expression `json:"value"`
}

func NewSetIndexStatement(object, index, value Expression) *SetIndexStatement {
	return &SetIndexStatement{nodeImpl: newNodeImpl(NodeSetIndexStatement), Object: object, Index: index, Value: value}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expr Expression `json:"expr"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expr: expr}
}

// Functions

type Parameter struct {
	nodeImpl

	Name      string         `json:"name"`
	ParamType TypeExpression `json:"paramType,omitempty"`
}

func NewParameter(name string, paramType TypeExpression) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, ParamType: paramType}
}

// FunctionDeclaration doubles as the method form inside record and class
// bodies. Body is the canonical statement slice shared by every closure and
// partial application built from this declaration.
type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name       string         `json:"name"`
	Generics   []string       `json:"generics,omitempty"`
	Params     []*Parameter   `json:"params"`
	ReturnType TypeExpression `json:"returnType,omitempty"`
	Body       []Statement    `json:"body"`
}

func NewFunctionDeclaration(name string, params []*Parameter, body []Statement, returnType TypeExpression, generics []string) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Params: params, Body: body, ReturnType: returnType, Generics: generics}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

// Control flow

type IfStatement struct {
	nodeImpl
	statementMarker

	Cond Expression  `json:"cond"`
	Then []Statement `json:"then"`
	Else []Statement `json:"else,omitempty"`
}

func NewIfStatement(cond Expression, then, els []Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Cond: cond, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Cond Expression  `json:"cond"`
	Body []Statement `json:"body"`
}

func NewWhileStatement(cond Expression, body []Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Cond: cond, Body: body}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	Var      string      `json:"var"`
	Iterable Expression  `json:"iterable"`
	Body     []Statement `json:"body"`
}

func NewForStatement(variable string, iterable Expression, body []Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Var: variable, Iterable: iterable, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

// Imports. Path is the dotted form ("std.math", "utils.strings") or, when
// Quoted, the raw relative path exactly as written in the source.

type ImportStatement struct {
	nodeImpl
	statementMarker

	Path   string `json:"path"`
	Quoted bool   `json:"quoted,omitempty"`
}

func NewImportStatement(path string, quoted bool) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Path: path, Quoted: quoted}
}

// Type declarations

type FieldDefinition struct {
	nodeImpl

	Name      string         `json:"name"`
	FieldType TypeExpression `json:"fieldType"`
}

func NewFieldDefinition(name string, fieldType TypeExpression) *FieldDefinition {
	return &FieldDefinition{nodeImpl: newNodeImpl(NodeFieldDefinition), Name: name, FieldType: fieldType}
}

type RecordDeclaration struct {
	nodeImpl
	statementMarker

	Name     string                 `json:"name"`
	Generics []string               `json:"generics,omitempty"`
	Fields   []*FieldDefinition     `json:"fields"`
	Methods  []*FunctionDeclaration `json:"methods,omitempty"`
}

func NewRecordDeclaration(name string, fields []*FieldDefinition, methods []*FunctionDeclaration, generics []string) *RecordDeclaration {
	return &RecordDeclaration{nodeImpl: newNodeImpl(NodeRecordDeclaration), Name: name, Fields: fields, Methods: methods, Generics: generics}
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker

	Name    string                 `json:"name"`
	Parent  string                 `json:"parent,omitempty"`
	Methods []*FunctionDeclaration `json:"methods"`
}

func NewClassDeclaration(name, parent string, methods []*FunctionDeclaration) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: newNodeImpl(NodeClassDeclaration), Name: name, Parent: parent, Methods: methods}
}

type MethodSignature struct {
	nodeImpl

	Name       string         `json:"name"`
	Generics   []string       `json:"generics,omitempty"`
	Params     []*Parameter   `json:"params"`
	ReturnType TypeExpression `json:"returnType,omitempty"`
}

func NewMethodSignature(name string, params []*Parameter, returnType TypeExpression, generics []string) *MethodSignature {
	return &MethodSignature{nodeImpl: newNodeImpl(NodeMethodSignature), Name: name, Params: params, ReturnType: returnType, Generics: generics}
}

type InterfaceDeclaration struct {
	nodeImpl
	statementMarker

	Name       string             `json:"name"`
	Generics   []string           `json:"generics,omitempty"`
	Signatures []*MethodSignature `json:"signatures"`
}

func NewInterfaceDeclaration(name string, signatures []*MethodSignature, generics []string) *InterfaceDeclaration {
	return &InterfaceDeclaration{nodeImpl: newNodeImpl(NodeInterfaceDecl), Name: name, Signatures: signatures, Generics: generics}
}

type TypeAliasDeclaration struct {
	nodeImpl
	statementMarker

	Name    string         `json:"name"`
	Aliased TypeExpression `json:"aliased"`
}

func NewTypeAliasDeclaration(name string, aliased TypeExpression) *TypeAliasDeclaration {
	return &TypeAliasDeclaration{nodeImpl: newNodeImpl(NodeTypeAliasDecl), Name: name, Aliased: aliased}
}

// Exceptions

type CatchClause struct {
	nodeImpl

	Var  string      `json:"var"`
	Body []Statement `json:"body"`
}

func NewCatchClause(variable string, body []Statement) *CatchClause {
	return &CatchClause{nodeImpl: newNodeImpl(NodeCatchClause), Var: variable, Body: body}
}

type TryStatement struct {
	nodeImpl
	statementMarker

	Body    []Statement  `json:"body"`
	Catch   *CatchClause `json:"catch,omitempty"`
	Finally []Statement  `json:"finally,omitempty"`
}

func NewTryStatement(body []Statement, catch *CatchClause, finally []Statement) *TryStatement {
	return &TryStatement{nodeImpl: newNodeImpl(NodeTryStatement), Body: body, Catch: catch, Finally: finally}
}

type RaiseStatement struct {
	nodeImpl
	statementMarker

	Error Expression `json:"error"`
	Cause Expression `json:"cause,omitempty"`
}

func NewRaiseStatement(errExpr, cause Expression) *RaiseStatement {
	return &RaiseStatement{nodeImpl: newNodeImpl(NodeRaiseStatement), Error: errExpr, Cause: cause}
}

// Concurrency

type GoStatement struct {
	nodeImpl
	statementMarker

	Call *CallExpression `json:"call"`
}

func NewGoStatement(call *CallExpression) *GoStatement {
	return &GoStatement{nodeImpl: newNodeImpl(NodeGoStatement), Call: call}
}

// Type expressions. Annotations are carried through the pipeline but never
// enforced.

type SimpleType struct {
	nodeImpl
	typeExpressionMarker

	Name string           `json:"name"`
	Args []TypeExpression `json:"args,omitempty"`
}

func NewSimpleType(name string, args []TypeExpression) *SimpleType {
	return &SimpleType{nodeImpl: newNodeImpl(NodeSimpleType), Name: name, Args: args}
}

type UnionType struct {
	nodeImpl
	typeExpressionMarker

	Variants []TypeExpression `json:"variants"`
}

func NewUnionType(variants []TypeExpression) *UnionType {
	return &UnionType{nodeImpl: newNodeImpl(NodeUnionType), Variants: variants}
}
