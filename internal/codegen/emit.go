// Package codegen implements the five code-generation passes (prepare,
// constants, tables, objects-init, code) and the low-level MIPS
// assembly emission helpers they share (spec.md §4.4, §4.5).
//
// Grounded in the original implementation's codegen_helpers.cpp (fixed
// left-justified mnemonic/register columns, one instruction per line,
// pure formatting with no hidden state) translated from an
// ostream-pointer API to an io.Writer-based one, and in the teacher's
// preference for small, single-purpose files per concern.
package codegen

import (
	"fmt"
	"io"
)

const indent = "    "

func emitLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// EmitLabel writes "label:".
func EmitLabel(w io.Writer, label string) {
	emitLine(w, "%s:", label)
}

// EmitDirective writes an assembler directive, e.g. ".data" or ".text".
func EmitDirective(w io.Writer, directive string) {
	emitLine(w, "%s", directive)
}

// EmitGlobl writes a ".globl <label>" declaration.
func EmitGlobl(w io.Writer, label string) {
	emitLine(w, "%s.globl\t%s", indent, label)
}

// EmitWord writes a ".word <value>" directive; value may be an int or
// a label name.
func EmitWord(w io.Writer, value any) {
	emitLine(w, "%s.word\t%v", indent, value)
}

// EmitByte writes a ".byte <value>" directive.
func EmitByte(w io.Writer, value int) {
	emitLine(w, "%s.byte\t%d", indent, value)
}

// EmitAscii writes a ".ascii "literal"" directive. The raw literal is
// quoted and escaped here with Go's %q syntax.
func EmitAscii(w io.Writer, literal string) {
	emitLine(w, "%s.ascii\t%q", indent, literal)
}

// EmitAlign writes a ".align <n>" directive.
func EmitAlign(w io.Writer, n int) {
	emitLine(w, "%s.align\t%d", indent, n)
}

// EmitComment writes a "# text" comment line.
func EmitComment(w io.Writer, format string, args ...any) {
	emitLine(w, "%s# "+format, append([]any{indent}, args...)...)
}

func reg3(w io.Writer, mnemonic, dst, a, b string) {
	emitLine(w, "%s%-6s%-6s%-6s%s", indent, mnemonic, dst, a, b)
}

// EmitThreeRegisters emits a 3-operand arithmetic instruction, e.g.
// "add $a0, $t0, $a0".
func EmitThreeRegisters(w io.Writer, mnemonic, dst, a, b string) {
	reg3(w, mnemonic, dst, a, b)
}

func regOffset(w io.Writer, mnemonic, dst, base string, offset int32) {
	emitLine(w, "%s%-6s%-6s%d(%s)", indent, mnemonic, dst, offset, base)
}

// EmitLw emits "lw dst, offset(base)".
func EmitLw(w io.Writer, dst, base string, offset int32) { regOffset(w, "lw", dst, base, offset) }

// EmitSw emits "sw src, offset(base)".
func EmitSw(w io.Writer, src, base string, offset int32) { regOffset(w, "sw", src, base, offset) }

// EmitLb emits "lb dst, offset(base)".
func EmitLb(w io.Writer, dst, base string, offset int32) { regOffset(w, "lb", dst, base, offset) }

// EmitAddiu emits "addiu dst, src, value".
func EmitAddiu(w io.Writer, dst, src string, value int32) {
	emitLine(w, "%s%-6s%-6s%-6s%d", indent, "addiu", dst, src, value)
}

// EmitLa emits "la dst, label".
func EmitLa(w io.Writer, dst, label string) {
	emitLine(w, "%s%-6s%-6s%s", indent, "la", dst, label)
}

// EmitLi emits "li dst, value".
func EmitLi(w io.Writer, dst string, value int32) {
	emitLine(w, "%s%-6s%-6s%d", indent, "li", dst, value)
}

// EmitMove emits "move dst, src".
func EmitMove(w io.Writer, dst, src string) {
	emitLine(w, "%s%-6s%-6s%s", indent, "move", dst, src)
}

func branch(w io.Writer, mnemonic, reg, label string) {
	emitLine(w, "%s%-6s%-6s%s", indent, mnemonic, reg, label)
}

// EmitBeqz emits "beqz reg, label".
func EmitBeqz(w io.Writer, reg, label string) { branch(w, "beqz", reg, label) }

// EmitBgtz emits "bgtz reg, label".
func EmitBgtz(w io.Writer, reg, label string) { branch(w, "bgtz", reg, label) }

// EmitBlez emits "blez reg, label".
func EmitBlez(w io.Writer, reg, label string) { branch(w, "blez", reg, label) }

// EmitBltz emits "bltz reg, label".
func EmitBltz(w io.Writer, reg, label string) { branch(w, "bltz", reg, label) }

// EmitBeq emits "beq lhs, rhs, label".
func EmitBeq(w io.Writer, lhs, rhs, label string) {
	emitLine(w, "%s%-6s%-6s%-6s%s", indent, "beq", lhs, rhs, label)
}

// EmitBlt emits "blt lhs, rhs, label".
func EmitBlt(w io.Writer, lhs, rhs, label string) {
	emitLine(w, "%s%-6s%-6s%-6s%s", indent, "blt", lhs, rhs, label)
}

// EmitBle emits "ble lhs, rhs, label".
func EmitBle(w io.Writer, lhs, rhs, label string) {
	emitLine(w, "%s%-6s%-6s%-6s%s", indent, "ble", lhs, rhs, label)
}

// EmitJump emits "j label".
func EmitJump(w io.Writer, label string) {
	emitLine(w, "%s%-6s%s", indent, "j", label)
}

// EmitJr emits "jr reg".
func EmitJr(w io.Writer, reg string) {
	emitLine(w, "%s%-6s%s", indent, "jr", reg)
}

// EmitJal emits "jal label".
func EmitJal(w io.Writer, label string) {
	emitLine(w, "%s%-6s%s", indent, "jal", label)
}

// EmitJalr emits "jalr reg".
func EmitJalr(w io.Writer, reg string) {
	emitLine(w, "%s%-6s%s", indent, "jalr", reg)
}

// EmitNeg emits "neg dst, src".
func EmitNeg(w io.Writer, dst, src string) {
	emitLine(w, "%s%-6s%-6s%s", indent, "neg", dst, src)
}

// EmitSll emits "sll dst, src, shift".
func EmitSll(w io.Writer, dst, src string, shift int32) {
	emitLine(w, "%s%-6s%-6s%-6s%d", indent, "sll", dst, src, shift)
}

// PushAccumulatorToStack pushes $a0 onto the runtime stack: decrement
// $sp by one word, store $a0 at 0($sp).
func PushAccumulatorToStack(w io.Writer) {
	EmitAddiu(w, "$sp", "$sp", -WordSize)
	EmitSw(w, "$a0", "$sp", 0)
}

// PopStack discards n words from the top of the runtime stack, e.g.
// working-stack operands already consumed by an arithmetic or
// comparison lowering.
func PopStack(w io.Writer, n int32) {
	EmitAddiu(w, "$sp", "$sp", n*WordSize)
}

// PushStackFrame saves the caller's $fp, $s0 and $ra and establishes a
// new frame pointer (spec.md §4.4). Callers that need a self pointer
// accessible at 0($fp) push it (via PushAccumulatorToStack, with self
// already in $a0) immediately before calling PushStackFrame, so that
// self's slot sits directly below the three saved registers and
// $fp ends up pointing at it.
func PushStackFrame(w io.Writer) {
	EmitAddiu(w, "$sp", "$sp", -3*WordSize)
	EmitSw(w, "$fp", "$sp", 2*WordSize)
	EmitSw(w, "$s0", "$sp", 1*WordSize)
	EmitSw(w, "$ra", "$sp", 0)
	EmitAddiu(w, "$fp", "$sp", 3*WordSize)
}

// PopStackFrame restores $ra, $s0 and $fp and discards extraWords
// additional words below them (the self pointer and argument words a
// method's caller is relying on the callee to reclaim).
func PopStackFrame(w io.Writer, extraWords int32) {
	EmitLw(w, "$ra", "$sp", 0)
	EmitLw(w, "$s0", "$sp", 1*WordSize)
	EmitLw(w, "$fp", "$sp", 2*WordSize)
	EmitAddiu(w, "$sp", "$sp", 3*WordSize+extraWords*WordSize)
}
