package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
)

// genLet evaluates each binding's initializer (or the declared type's
// default object when absent), pushes it, and binds the name at that
// stack slot for the remaining bindings and the body. Slots pushed
// during a method body sit below the frame pointer, so their offsets
// are negative, unlike a formal argument's positive offset above it.
func genLet(ctx *Context, w io.Writer, n *ast.Let) {
	for _, b := range n.Bindings {
		if b.Init != nil {
			genExpr(ctx, w, b.Init)
		} else {
			createDefaultObject(ctx, w, b.TypeName)
		}
		PushAccumulatorToStack(w)
		ctx.StackPos--
		ctx.Locals().PushFrame()
		ctx.Locals().Define(b.ID, IdentInfo{Position: ctx.StackPos})
	}

	genExpr(ctx, w, n.Body)

	count := int32(len(n.Bindings))
	for i := int32(0); i < count; i++ {
		ctx.Locals().PopFrame()
	}
	PopStack(w, count)
	ctx.StackPos += count
}

// genCase evaluates the scrutinee, and for each branch walks the
// scrutinee's dynamic class id up class_parentTab to measure how far
// that branch's declared type is, then jumps to the closest branch. A
// void scrutinee aborts through _case_abort2; no branch matching
// aborts through _case_abort (spec.md §4.4, §9 — the INT_MAX sentinel
// for "no match yet" and the -1 sentinel for "reached Object's parent"
// are preserved from the original implementation's SelectCaseStatement).
func genCase(ctx *Context, w io.Writer, n *ast.Case) {
	genExpr(ctx, w, n.Scrutinee)
	PushAccumulatorToStack(w)
	ctx.StackPos--
	scrutineePos := ctx.StackPos

	notVoidLabel := ctx.FreshLabel("CaseNotVoid")
	EmitBgtz(w, "$a0", notVoidLabel)
	EmitJump(w, "_case_abort2") // bare jump, see genDispatch
	EmitLabel(w, notVoidLabel)

	EmitLw(w, "$t0", "$a0", ClassIDOffset)
	EmitMove(w, "$a0", "$zero")
	EmitLi(w, "$t4", 2147483647) // INT_MAX: no branch matched yet

	branchLabels := make([]string, len(n.Branches))
	for i := range n.Branches {
		branchLabels[i] = ctx.FreshLabel("CaseBranch")
	}
	for i, branch := range n.Branches {
		genCaseProbe(ctx, w, branch, branchLabels[i])
	}

	matchedLabel := ctx.FreshLabel("CaseMatched")
	EmitBgtz(w, "$a0", matchedLabel)
	EmitJump(w, "_case_abort") // bare jump, see genDispatch
	EmitLabel(w, matchedLabel)
	EmitMove(w, "$t0", "$a0")
	EmitJr(w, "$t0")

	endLabel := ctx.FreshLabel("CaseEnd")
	for i, branch := range n.Branches {
		EmitLabel(w, branchLabels[i])
		ctx.Locals().PushFrame()
		ctx.Locals().Define(branch.ID, IdentInfo{Position: scrutineePos})
		genExpr(ctx, w, branch.Body)
		ctx.Locals().PopFrame()
		EmitJump(w, endLabel)
	}
	EmitLabel(w, endLabel)

	PopStack(w, 1)
	ctx.StackPos++
}

// genCaseProbe walks $t0's class id (left unmodified) up
// class_parentTab, counting the number of steps to reach branch's
// declared type. If found, and closer than any earlier probe (tracked
// in $t4), it records branchLabel's address in $a0 and the new best
// distance in $t4.
func genCaseProbe(ctx *Context, w io.Writer, branch *ast.CaseBranch, branchLabel string) {
	walkLabel := ctx.FreshLabel("CaseProbeWalk")
	notFoundLabel := ctx.FreshLabel("CaseProbeNotFound")
	foundLabel := ctx.FreshLabel("CaseProbeFound")
	doneLabel := ctx.FreshLabel("CaseProbeDone")

	classID, _ := ctx.Sem.Registry.IDOf(branch.TypeName)
	EmitMove(w, "$t1", "$t0")
	EmitLi(w, "$t2", int32(classID))
	EmitLi(w, "$t3", 0)

	EmitLabel(w, walkLabel)
	EmitBltz(w, "$t1", notFoundLabel)
	EmitBeq(w, "$t1", "$t2", foundLabel)
	EmitAddiu(w, "$t3", "$t3", 1)
	EmitSll(w, "$t5", "$t1", 2)
	EmitLa(w, "$t6", "class_parentTab")
	EmitThreeRegisters(w, "addu", "$t5", "$t5", "$t6")
	EmitLw(w, "$t1", "$t5", 0)
	EmitJump(w, walkLabel)

	EmitLabel(w, foundLabel)
	EmitBle(w, "$t4", "$t3", doneLabel) // current best is at least as close: keep it
	EmitMove(w, "$t4", "$t3")
	EmitLa(w, "$a0", branchLabel)
	EmitJump(w, doneLabel)

	EmitLabel(w, notFoundLabel)
	EmitLabel(w, doneLabel)
}
