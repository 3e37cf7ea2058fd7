package ast

type NodeType string

const (
	NodeIdentifier       NodeType = "Identifier"
	NodeIntLiteral       NodeType = "IntLiteral"
	NodeFloatLiteral     NodeType = "FloatLiteral"
	NodeBoolLiteral      NodeType = "BoolLiteral"
	NodeStringLiteral    NodeType = "StringLiteral"
	NodeListLiteral      NodeType = "ListLiteral"
	NodeTupleLiteral     NodeType = "TupleLiteral"
	NodeSetLiteral       NodeType = "SetLiteral"
	NodeDictEntry        NodeType = "DictEntry"
	NodeDictLiteral      NodeType = "DictLiteral"
	NodeUnaryExpression  NodeType = "UnaryExpression"
	NodeBinaryExpression NodeType = "BinaryExpression"
	NodeCallExpression   NodeType = "CallExpression"
	NodeMemberExpression NodeType = "MemberExpression"
	NodeIndexExpression  NodeType = "IndexExpression"

	NodeProgram             NodeType = "Program"
	NodeVarDecl             NodeType = "VarDecl"
	NodeAssignStatement     NodeType = "AssignStatement"
	NodeSetMemberStatement  NodeType = "SetMemberStatement"
	NodeSetIndexStatement   NodeType = "SetIndexStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeParameter           NodeType = "Parameter"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeForStatement        NodeType = "ForStatement"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeContinueStatement   NodeType = "ContinueStatement"
	NodeImportStatement     NodeType = "ImportStatement"
	NodeFieldDefinition     NodeType = "FieldDefinition"
	NodeRecordDeclaration   NodeType = "RecordDeclaration"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeMethodSignature     NodeType = "MethodSignature"
	NodeInterfaceDecl       NodeType = "InterfaceDeclaration"
	NodeTypeAliasDecl       NodeType = "TypeAliasDeclaration"
	NodeCatchClause         NodeType = "CatchClause"
	NodeTryStatement        NodeType = "TryStatement"
	NodeRaiseStatement      NodeType = "RaiseStatement"
	NodeGoStatement         NodeType = "GoStatement"

	NodeSimpleType NodeType = "SimpleType"
	NodeUnionType  NodeType = "UnionType"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntLiteral(value int64) *IntLiteral {
	return &IntLiteral{nodeImpl: newNodeImpl(NodeIntLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BoolLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBoolLiteral(value bool) *BoolLiteral {
	return &BoolLiteral{nodeImpl: newNodeImpl(NodeBoolLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Container literals. Dict entries keep source order; the runtime preserves it.

type ListLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type TupleLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewTupleLiteral(elements []Expression) *TupleLiteral {
	return &TupleLiteral{nodeImpl: newNodeImpl(NodeTupleLiteral), Elements: elements}
}

type SetLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewSetLiteral(elements []Expression) *SetLiteral {
	return &SetLiteral{nodeImpl: newNodeImpl(NodeSetLiteral), Elements: elements}
}

type DictEntry struct {
	nodeImpl

	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

func NewDictEntry(key, value Expression) *DictEntry {
	return &DictEntry{nodeImpl: newNodeImpl(NodeDictEntry), Key: key, Value: value}
}

type DictLiteral struct {
	nodeImpl
	expressionMarker

	Entries []*DictEntry `json:"entries"`
}

func NewDictLiteral(entries []*DictEntry) *DictLiteral {
	return &DictLiteral{nodeImpl: newNodeImpl(NodeDictLiteral), Entries: entries}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Op      string     `json:"op"`
	Operand Expression `json:"operand"`
}

func NewUnaryExpression(op string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Op: op, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Op    string     `json:"op"`
	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewBinaryExpression(op string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Op: op, Left: left, Right: right}
}

// Postfix

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee      Expression       `json:"callee"`
	GenericArgs []TypeExpression `json:"genericArgs,omitempty"`
	Args        []Expression     `json:"args"`
}

func NewCallExpression(callee Expression, args []Expression, genericArgs []TypeExpression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Args: args, GenericArgs: genericArgs}
}

type MemberExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Name   string     `json:"name"`
}

func NewMemberExpression(object Expression, name string) *MemberExpression {
	return &MemberExpression{nodeImpl: newNodeImpl(NodeMemberExpression), Object: object, Name: name}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}
