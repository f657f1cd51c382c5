package ast

import "fmt"

type NodeType string

const (
	NodeProgram             NodeType = "Program"
	NodeVarDeclaration      NodeType = "VarDeclaration"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeAssignmentExpr      NodeType = "AssignmentExpr"
	NodeMemberExpr          NodeType = "MemberExpr"
	NodeCallExpr            NodeType = "CallExpr"
	NodeProperty            NodeType = "Property"
	NodeObjectLiteral       NodeType = "ObjectLiteral"
	NodeNumericLiteral      NodeType = "NumericLiteral"
	NodeIdentifier          NodeType = "Identifier"
	NodeBinaryExpr          NodeType = "BinaryExpr"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Span) String() string {
	if s.Start.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Program

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	if body == nil {
		body = make([]Statement, 0)
	}
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Declarations

type VarDeclaration struct {
	nodeImpl
	statementMarker

	Constant   bool       `json:"constant"`
	Identifier string     `json:"identifier"`
	Value      Expression `json:"value,omitempty"`
}

func NewVarDeclaration(constant bool, identifier string, value Expression) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), Constant: constant, Identifier: identifier, Value: value}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	Name       string      `json:"name"`
	Parameters []string    `json:"parameters"`
	Body       []Statement `json:"body"`
}

func NewFunctionDeclaration(name string, params []string, body []Statement) *FunctionDeclaration {
	if params == nil {
		params = make([]string, 0)
	}
	if body == nil {
		body = make([]Statement, 0)
	}
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Parameters: params, Body: body}
}

// Expressions

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Symbol string `json:"symbol"`
}

func NewIdentifier(symbol string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Symbol: symbol}
}

type NumericLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value float64 `json:"value"`
}

func NewNumericLiteral(value float64) *NumericLiteral {
	return &NumericLiteral{nodeImpl: newNodeImpl(NodeNumericLiteral), Value: value}
}

type BinaryExpr struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpr(operator string, left, right Expression) *BinaryExpr {
	return &BinaryExpr{nodeImpl: newNodeImpl(NodeBinaryExpr), Operator: operator, Left: left, Right: right}
}

// AssignmentExpr keeps whatever expression appeared left of '='; only
// identifiers are assignable when evaluated.
type AssignmentExpr struct {
	nodeImpl
	expressionMarker
	statementMarker

	Assignee Expression `json:"assignee"`
	Value    Expression `json:"value"`
}

func NewAssignmentExpr(assignee Expression, value Expression) *AssignmentExpr {
	return &AssignmentExpr{nodeImpl: newNodeImpl(NodeAssignmentExpr), Assignee: assignee, Value: value}
}

// MemberExpr covers both `object.property` and `object[property]`.
type MemberExpr struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
}

func NewMemberExpr(object, property Expression, computed bool) *MemberExpr {
	return &MemberExpr{nodeImpl: newNodeImpl(NodeMemberExpr), Object: object, Property: property, Computed: computed}
}

type CallExpr struct {
	nodeImpl
	expressionMarker
	statementMarker

	Caller    Expression   `json:"caller"`
	Arguments []Expression `json:"args"`
}

func NewCallExpr(caller Expression, args []Expression) *CallExpr {
	if args == nil {
		args = make([]Expression, 0)
	}
	return &CallExpr{nodeImpl: newNodeImpl(NodeCallExpr), Caller: caller, Arguments: args}
}

// Property is one `key: value` entry of an object literal. A nil Value marks
// the shorthand form `{ key }`.
type Property struct {
	nodeImpl

	Key   string     `json:"key"`
	Value Expression `json:"value,omitempty"`
}

func NewProperty(key string, value Expression) *Property {
	return &Property{nodeImpl: newNodeImpl(NodeProperty), Key: key, Value: value}
}

type ObjectLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Properties []*Property `json:"properties"`
}

func NewObjectLiteral(properties []*Property) *ObjectLiteral {
	if properties == nil {
		properties = make([]*Property, 0)
	}
	return &ObjectLiteral{nodeImpl: newNodeImpl(NodeObjectLiteral), Properties: properties}
}
