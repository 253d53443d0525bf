// Package ast defines the Abstract Syntax Tree node types produced by the
// COOL frontend and consumed by the semantic analysis and code generation
// passes in internal/semantic and internal/codegen.
//
// Nodes are immutable after parsing with one exception: every Expr carries
// a settable Type field filled in by the TypeCheck pass. A tagged-union
// style (one concrete struct per node kind, dispatched with a Go type
// switch) is used throughout instead of the visitor double-dispatch the
// original C++ implementation used — see DESIGN.md.
package ast

// Position locates a token or node in the original source text.
type Position struct {
	Line   int
	Column int
}

// ExprType is the type of a typed expression or declared symbol: either a
// concrete class name, or SELF_TYPE bound to the class lexically enclosing
// the expression that carries it.
type ExprType struct {
	ClassName string
	IsSelf    bool
}

// SelfType builds the SELF_TYPE marker for the given enclosing class.
func SelfType(enclosingClass string) ExprType {
	return ExprType{ClassName: enclosingClass, IsSelf: true}
}

// ConcreteType builds a plain (non-SELF_TYPE) expression type.
func ConcreteType(className string) ExprType {
	return ExprType{ClassName: className}
}

// Equals reports component-wise equality, matching spec.md §3.
func (t ExprType) Equals(other ExprType) bool {
	return t.ClassName == other.ClassName && t.IsSelf == other.IsSelf
}

func (t ExprType) String() string {
	if t.IsSelf {
		return "SELF_TYPE"
	}
	return t.ClassName
}

// Node is implemented by every AST node, expression or declaration.
type Node interface {
	Pos() Position
}

// Expr is implemented by every expression node. Type is nil until the
// TypeCheck pass annotates it.
type Expr interface {
	Node
	exprNode()
	GetType() *ExprType
	SetType(ExprType)
}

// ExprBase is embedded by every concrete expression to share the position
// and type-annotation bookkeeping. Construct it with NewExprBase.
type ExprBase struct {
	Loc  Position
	Type *ExprType
}

// NewExprBase builds an ExprBase positioned at pos, with no type annotation.
func NewExprBase(pos Position) ExprBase { return ExprBase{Loc: pos} }

func (e *ExprBase) exprNode()          {}
func (e *ExprBase) Pos() Position      { return e.Loc }
func (e *ExprBase) GetType() *ExprType { return e.Type }
func (e *ExprBase) SetType(t ExprType) { e.Type = &t }

// Program is the root of the AST: the full translation unit.
type Program struct {
	Classes []*Class
}

func (p *Program) Pos() Position {
	if len(p.Classes) > 0 {
		return p.Classes[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}

// Class declares a class, its parent and its features.
type Class struct {
	Name       string
	Parent     string // "" means no explicit parent (defaults to Object)
	Attributes []*Attribute
	Methods    []*Method
	BuiltIn    bool
	Loc        Position
}

func (c *Class) Pos() Position { return c.Loc }

// HasParent reports whether the class named an explicit parent.
func (c *Class) HasParent() bool { return c.Parent != "" }

// Attribute declares a class field, with an optional initializer.
type Attribute struct {
	InitExpr Expr // nil if absent
	ID       string
	TypeName string
	Loc      Position
}

func (a *Attribute) Pos() Position { return a.Loc }

// Method declares a class method, with a body (nil for built-in methods
// whose implementation is an external runtime routine).
type Method struct {
	Body           Expr
	ID             string
	ReturnTypeName string
	Formals        []*Formal
	Loc            Position
}

func (m *Method) Pos() Position { return m.Loc }

// Formal declares one method parameter.
type Formal struct {
	ID       string
	TypeName string
	Loc      Position
}

func (f *Formal) Pos() Position { return f.Loc }
