package ast

// Arithmetic and comparison operators used by BinaryArith / BinaryCmp.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int32
}

// StringLit is a string literal (already unescaped by the lexer).
type StringLit struct {
	ExprBase
	Value string
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase
	Value bool
}

// Id is an identifier reference: an attribute, a local, or self.
type Id struct {
	ExprBase
	Name string
}

// Unary covers COOL's three prefix operators: "not", "~", "isvoid".
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryIsVoid
)

type Unary struct {
	ExprBase
	E  Expr
	Op UnaryOp
}

// BinaryArith covers +, -, *, /.
type BinaryArith struct {
	ExprBase
	L, R Expr
	Op   ArithOp
}

// BinaryCmp covers <, <=, and =.
// Equality reuses this node with Op == OpEq.
type CmpKind int

const (
	OpEq CmpKind = iota
	OpLess
	OpLessEq
)

type BinaryCmp struct {
	ExprBase
	L, R Expr
	Op   CmpKind
}

// If is the conditional expression.
type If struct {
	ExprBase
	Cond, Then, Else Expr
}

// While is the loop expression; it always has type Object.
type While struct {
	ExprBase
	Cond, Body Expr
}

// Assign evaluates E and stores it into the variable named ID.
type Assign struct {
	ExprBase
	E    Expr
	ID   string
}

// Block evaluates each expression in order; its type is that of the last.
type Block struct {
	ExprBase
	Exprs []Expr
}

// New constructs a new instance of TypeName (or of the dynamic self type
// when TypeName == "SELF_TYPE").
type New struct {
	ExprBase
	TypeName string
}

// LetBinding is one "id : typeName [<- init]" clause of a Let expression.
type LetBinding struct {
	Init     Expr // nil if absent
	ID       string
	TypeName string
	Loc      Position
}

func (b *LetBinding) Pos() Position { return b.Loc }

// Let introduces one or more local bindings in scope for Body.
type Let struct {
	ExprBase
	Bindings []*LetBinding
	Body     Expr
}

// CaseBranch is one "id : typeName => body" arm of a Case expression.
type CaseBranch struct {
	Body     Expr
	ID       string
	TypeName string
	Loc      Position
}

func (b *CaseBranch) Pos() Position { return b.Loc }

// Case evaluates Scrutinee, then dispatches to the branch whose declared
// type is the closest ancestor of the scrutinee's dynamic type.
type Case struct {
	ExprBase
	Scrutinee Expr
	Branches  []*CaseBranch
}

// Dispatch is a (possibly implicit-receiver) method call: receiver.method(args).
// Receiver is nil when the call is written as a bare "method(args)" (implicit self).
type Dispatch struct {
	ExprBase
	Receiver Expr
	Method   string
	Args     []Expr
}

// StaticDispatch is a "receiver@TargetClass.method(args)" call: the method
// table of TargetClass is used regardless of the receiver's dynamic type.
type StaticDispatch struct {
	ExprBase
	Receiver    Expr
	TargetClass string
	Method      string
	Args        []Expr
}
