package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/registry"
)

// genExpr lowers one expression into MIPS assembly, leaving its result
// object pointer in $a0. It is shared by CodegenObjectsInitPass (for
// attribute initializers) and CodegenCodePass (for method bodies), both
// of which set ctx.CurrentClass and ctx.Locals before calling it
// (spec.md §4.4, grounded in the original implementation's
// codegen_code_base.cpp expression lowering, the only complete pass in
// that pack).
func genExpr(ctx *Context, w io.Writer, e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntLit:
		label, _ := ctx.IntLabel(n.Value)
		EmitLa(w, "$a0", label)
	case *ast.StringLit:
		label, _ := ctx.StringLabel(n.Value)
		EmitLa(w, "$a0", label)
	case *ast.BoolLit:
		EmitLa(w, "$a0", boolLabel(n.Value))
	case *ast.Id:
		genId(ctx, w, n)
	case *ast.Assign:
		genAssign(ctx, w, n)
	case *ast.New:
		createDefaultObject(ctx, w, n.TypeName)
	case *ast.Block:
		for _, sub := range n.Exprs {
			genExpr(ctx, w, sub)
		}
	case *ast.If:
		genIf(ctx, w, n)
	case *ast.While:
		genWhile(ctx, w, n)
	case *ast.Let:
		genLet(ctx, w, n)
	case *ast.Case:
		genCase(ctx, w, n)
	case *ast.Unary:
		genUnary(ctx, w, n)
	case *ast.BinaryArith:
		genArith(ctx, w, n)
	case *ast.BinaryCmp:
		genCmp(ctx, w, n)
	case *ast.Dispatch:
		genDispatch(ctx, w, n)
	case *ast.StaticDispatch:
		genStaticDispatch(ctx, w, n)
	}
}

func boolLabel(v bool) string {
	if v {
		return "Bool_const1"
	}
	return "Bool_const0"
}

func genId(ctx *Context, w io.Writer, n *ast.Id) {
	if n.Name == "self" {
		EmitLw(w, "$a0", "$fp", 0)
		return
	}
	info, ok := ctx.Locals().Lookup(n.Name)
	if !ok {
		return
	}
	if info.IsAttribute {
		EmitLw(w, "$a0", "$fp", 0)
		EmitLw(w, "$a0", "$a0", ObjectContentOffset+info.Position*WordSize)
		return
	}
	EmitLw(w, "$a0", "$fp", info.Position*WordSize)
}

func genAssign(ctx *Context, w io.Writer, n *ast.Assign) {
	genExpr(ctx, w, n.E)
	info, ok := ctx.Locals().Lookup(n.ID)
	if !ok {
		return
	}
	if info.IsAttribute {
		EmitLw(w, "$t0", "$fp", 0)
		EmitSw(w, "$a0", "$t0", ObjectContentOffset+info.Position*WordSize)
		return
	}
	EmitSw(w, "$a0", "$fp", info.Position*WordSize)
}

func genIf(ctx *Context, w io.Writer, n *ast.If) {
	elseLabel := ctx.FreshLabel("ElseBranch")
	endLabel := ctx.FreshLabel("EndIf")

	genExpr(ctx, w, n.Cond)
	EmitLw(w, "$a0", "$a0", ObjectContentOffset)
	EmitBeqz(w, "$a0", elseLabel)
	genExpr(ctx, w, n.Then)
	EmitJump(w, endLabel)
	EmitLabel(w, elseLabel)
	genExpr(ctx, w, n.Else)
	EmitLabel(w, endLabel)
}

func genWhile(ctx *Context, w io.Writer, n *ast.While) {
	beginLabel := ctx.FreshLabel("LoopBegin")
	endLabel := ctx.FreshLabel("LoopEnd")

	EmitLabel(w, beginLabel)
	genExpr(ctx, w, n.Cond)
	EmitLw(w, "$t0", "$a0", ObjectContentOffset)
	EmitBeqz(w, "$t0", endLabel)
	genExpr(ctx, w, n.Body)
	EmitJump(w, beginLabel)
	EmitLabel(w, endLabel)
	EmitMove(w, "$a0", "$zero")
}

// createDefaultObject constructs a fully initialized instance of
// typeName, resolving SELF_TYPE through the dynamic class-id table
// rather than a fixed prototype label. Used by both New and a Let
// binding with no initializer, matching the original implementation's
// single CreateDefaultObject entry point for both sites.
func createDefaultObject(ctx *Context, w io.Writer, typeName string) {
	if typeName == registry.SelfType {
		createObjectForSelfType(ctx, w)
		return
	}
	createObjectFromProto(ctx, w, typeName)
}

func createObjectFromProto(ctx *Context, w io.Writer, class string) {
	EmitLa(w, "$a0", class+"_protObj")
	EmitJal(w, "Object.copy")
	EmitJal(w, class+"_init")
}

// createObjectForSelfType builds a new instance of the class self
// currently is, by indexing class_objTab (two words per class: its
// prototype, then its _init label) with self's own class id times 8.
func createObjectForSelfType(ctx *Context, w io.Writer) {
	EmitLw(w, "$a0", "$fp", 0)
	EmitLw(w, "$a0", "$a0", ClassIDOffset)
	EmitSll(w, "$s0", "$a0", 3)

	EmitLa(w, "$t0", "class_objTab")
	EmitThreeRegisters(w, "addu", "$t0", "$t0", "$s0")
	EmitLw(w, "$a0", "$t0", 0)
	EmitJal(w, "Object.copy")

	EmitLa(w, "$t0", "class_objTab")
	EmitThreeRegisters(w, "addu", "$t0", "$t0", "$s0")
	EmitLw(w, "$t0", "$t0", WordSize)
	EmitJalr(w, "$t0")
}

func genUnary(ctx *Context, w io.Writer, n *ast.Unary) {
	switch n.Op {
	case ast.UnaryNot:
		genExpr(ctx, w, n.E)
		EmitLw(w, "$a0", "$a0", ObjectContentOffset)
		genBoolFromZeroFlag(ctx, w)
	case ast.UnaryIsVoid:
		genExpr(ctx, w, n.E)
		genBoolFromZeroFlag(ctx, w)
	case ast.UnaryNeg:
		genExpr(ctx, w, n.E)
		EmitLw(w, "$a0", "$a0", ObjectContentOffset)
		EmitNeg(w, "$a0", "$a0")
		PushAccumulatorToStack(w)
		ctx.StackPos--
		createObjectFromProto(ctx, w, registry.Int)
		EmitLw(w, "$t0", "$sp", 0)
		EmitSw(w, "$t0", "$a0", ObjectContentOffset)
		PopStack(w, 1)
		ctx.StackPos++
	}
}

// genBoolFromZeroFlag turns "is $a0 zero" into a Bool object: the
// shared tail of "not" (operating on an already-unboxed value) and
// "isvoid" (operating on a raw pointer, zero meaning void).
func genBoolFromZeroFlag(ctx *Context, w io.Writer) {
	trueLabel := ctx.FreshLabel("BoolTrue")
	endLabel := ctx.FreshLabel("BoolEnd")
	EmitBeqz(w, "$a0", trueLabel)
	EmitLa(w, "$a0", "Bool_const0")
	EmitJump(w, endLabel)
	EmitLabel(w, trueLabel)
	EmitLa(w, "$a0", "Bool_const1")
	EmitLabel(w, endLabel)
}

func arithMnemonic(op ast.ArithOp) string {
	switch op {
	case ast.OpAdd:
		return "add"
	case ast.OpSub:
		return "sub"
	case ast.OpMul:
		return "mul"
	case ast.OpDiv:
		return "div"
	}
	return "add"
}

func genArith(ctx *Context, w io.Writer, n *ast.BinaryArith) {
	genExpr(ctx, w, n.L)
	PushAccumulatorToStack(w)
	ctx.StackPos--
	genExpr(ctx, w, n.R)

	EmitLw(w, "$t0", "$sp", 0)
	EmitLw(w, "$t0", "$t0", ObjectContentOffset)
	EmitLw(w, "$a0", "$a0", ObjectContentOffset)
	EmitThreeRegisters(w, arithMnemonic(n.Op), "$a0", "$t0", "$a0")

	PushAccumulatorToStack(w)
	ctx.StackPos--
	createObjectFromProto(ctx, w, registry.Int)
	EmitLw(w, "$t0", "$sp", 0)
	EmitSw(w, "$t0", "$a0", ObjectContentOffset)
	PopStack(w, 2)
	ctx.StackPos += 2
}

func genCmp(ctx *Context, w io.Writer, n *ast.BinaryCmp) {
	if n.Op == ast.OpEq {
		genEquality(ctx, w, n)
		return
	}
	genInequality(ctx, w, n)
}

func genInequality(ctx *Context, w io.Writer, n *ast.BinaryCmp) {
	genExpr(ctx, w, n.L)
	PushAccumulatorToStack(w)
	ctx.StackPos--
	genExpr(ctx, w, n.R)

	EmitLw(w, "$t0", "$sp", 0)
	EmitLw(w, "$t0", "$t0", ObjectContentOffset)
	EmitLw(w, "$t1", "$a0", ObjectContentOffset)

	trueLabel := ctx.FreshLabel("CompTrue")
	endLabel := ctx.FreshLabel("CompEnd")
	if n.Op == ast.OpLessEq {
		EmitBle(w, "$t0", "$t1", trueLabel)
	} else {
		EmitBlt(w, "$t0", "$t1", trueLabel)
	}
	EmitLa(w, "$a0", "Bool_const0")
	EmitJump(w, endLabel)
	EmitLabel(w, trueLabel)
	EmitLa(w, "$a0", "Bool_const1")
	EmitLabel(w, endLabel)

	PopStack(w, 1)
	ctx.StackPos++
}

func genEquality(ctx *Context, w io.Writer, n *ast.BinaryCmp) {
	genExpr(ctx, w, n.L)
	PushAccumulatorToStack(w)
	ctx.StackPos--
	genExpr(ctx, w, n.R)

	switch staticTypeName(ctx, n.L) {
	case registry.Int, registry.Bool:
		compareUnboxed(ctx, w)
	case registry.String:
		compareStrings(ctx, w)
	default:
		comparePointers(ctx, w)
	}

	PopStack(w, 1)
	ctx.StackPos++
}

func staticTypeName(ctx *Context, e ast.Expr) string {
	t := e.GetType()
	if t == nil {
		return ""
	}
	if t.IsSelf {
		return ctx.CurrentClass
	}
	return t.ClassName
}

// compareUnboxed compares two already-boxed Int or Bool objects by
// their unboxed payload. Entry: lhs pointer at 0($sp), rhs pointer in
// $a0.
func compareUnboxed(ctx *Context, w io.Writer) {
	EmitLw(w, "$t0", "$sp", 0)
	EmitLw(w, "$t0", "$t0", ObjectContentOffset)
	EmitLw(w, "$t1", "$a0", ObjectContentOffset)
	genBoolFromEquality(ctx, w, "$t0", "$t1")
}

// comparePointers compares two objects by identity: entry as above.
func comparePointers(ctx *Context, w io.Writer) {
	EmitLw(w, "$t0", "$sp", 0)
	genBoolFromEquality(ctx, w, "$t0", "$a0")
}

func genBoolFromEquality(ctx *Context, w io.Writer, lhs, rhs string) {
	sameLabel := ctx.FreshLabel("EqSame")
	endLabel := ctx.FreshLabel("EqEnd")
	EmitBeq(w, lhs, rhs, sameLabel)
	EmitLa(w, "$a0", "Bool_const0")
	EmitJump(w, endLabel)
	EmitLabel(w, sameLabel)
	EmitLa(w, "$a0", "Bool_const1")
	EmitLabel(w, endLabel)
}

// compareStrings compares two String objects byte-by-byte. Entry: lhs
// pointer at 0($sp), rhs pointer in $a0. This is a from-scratch,
// internally-consistent replacement for the original implementation's
// CompareStringObjects, whose stack-offset arithmetic could not be
// followed faithfully (see DESIGN.md).
func compareStrings(ctx *Context, w io.Writer) {
	PushAccumulatorToStack(w) // rhs@0($sp), lhs@4($sp)

	EmitLw(w, "$a0", "$sp", 0)
	EmitLw(w, "$t0", "$a0", StringLengthPtrOffset)
	EmitLw(w, "$t2", "$t0", ObjectContentOffset) // rhs length

	EmitLw(w, "$a0", "$sp", WordSize)
	EmitLw(w, "$t0", "$a0", StringLengthPtrOffset)
	EmitLw(w, "$t3", "$t0", ObjectContentOffset) // lhs length

	falseLabel := ctx.FreshLabel("StrEqFalse")
	trueLabel := ctx.FreshLabel("StrEqTrue")
	endLabel := ctx.FreshLabel("StrEqEnd")
	loopLabel := ctx.FreshLabel("StrEqLoop")

	EmitBeq(w, "$t2", "$t3", loopLabel)
	EmitJump(w, falseLabel)

	EmitLabel(w, loopLabel)
	EmitLw(w, "$t0", "$sp", 0)
	EmitAddiu(w, "$t0", "$t0", StringBytesOffset)
	EmitLw(w, "$t1", "$sp", WordSize)
	EmitAddiu(w, "$t1", "$t1", StringBytesOffset)
	EmitThreeRegisters(w, "addu", "$t2", "$t1", "$t2") // end address = lhsBytes + length

	byteLoop := ctx.FreshLabel("StrEqByteLoop")
	EmitLabel(w, byteLoop)
	EmitBeq(w, "$t1", "$t2", trueLabel)
	EmitLb(w, "$t3", "$t0", 0)
	EmitLb(w, "$t4", "$t1", 0)
	EmitAddiu(w, "$t0", "$t0", 1)
	EmitAddiu(w, "$t1", "$t1", 1)
	EmitBeq(w, "$t3", "$t4", byteLoop)
	EmitJump(w, falseLabel)

	EmitLabel(w, trueLabel)
	EmitLa(w, "$a0", "Bool_const1")
	EmitJump(w, endLabel)
	EmitLabel(w, falseLabel)
	EmitLa(w, "$a0", "Bool_const0")
	EmitLabel(w, endLabel)

	PopStack(w, 1) // leaves the original lhs push for the caller to pop
}
