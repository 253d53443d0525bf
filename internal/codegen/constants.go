package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/registry"
)

// globalDataLabels are declared .globl at the top of the .data section
// so the runtime library and other compilation units can reference them
// (spec.md §6, grounded in the original implementation's
// codegen_constants.cpp GLOBAL_LABELS list).
var globalDataLabels = []string{
	"Main_protObj", "Int_protObj", "String_protObj", "_int_tag",
	"_bool_tag", "_string_tag", "Bool_const0", "Bool_const1",
	"_MemMgr_INITIALIZER", "_MemMgr_COLLECTOR", "_MemMgr_TEST", "heap_start",
}

// CodegenConstantsPass emits the .data section header, GC sentinels,
// per-primitive-type class-id tags, the Object/IO/Int/String/Bool
// prototype objects, and a prototype object for every distinct integer
// and string literal (including each class's own name string) found
// anywhere in the program (spec.md §4.4).
type CodegenConstantsPass struct{}

func (CodegenConstantsPass) Name() string { return "CodegenConstants" }

func (p CodegenConstantsPass) Run(program *ast.Program, ctx *Context, w io.Writer) error {
	EmitDirective(w, ".data")
	for _, label := range globalDataLabels {
		EmitGlobl(w, label)
	}

	EmitLabel(w, "_MemMgr_INITIALIZER")
	EmitWord(w, "_NoGC_Init")
	EmitLabel(w, "_MemMgr_COLLECTOR")
	EmitWord(w, "_NoGC_Collect")
	EmitLabel(w, "_MemMgr_TEST")
	EmitWord(w, 0)

	for _, tag := range []string{registry.Int, registry.Bool, registry.String} {
		classID, _ := ctx.Sem.Registry.IDOf(tag)
		EmitLabel(w, "_"+lowerFirstWord(tag)+"_tag")
		EmitWord(w, classID)
	}

	p.emitBuiltInPrototype(ctx, w, registry.Object)
	p.emitBuiltInPrototype(ctx, w, registry.IO)

	p.emitIntegerLiteralAt(w, "Int_protObj", registry.Int, ctx, 0)
	p.emitStringLiteralAt(ctx, w, "String_protObj", "")
	p.emitIntegerLiteralAt(w, "Bool_protObj", registry.Bool, ctx, 0)
	p.emitIntegerLiteralAt(w, "Bool_const0", registry.Bool, ctx, 0)
	p.emitIntegerLiteralAt(w, "Bool_const1", registry.Bool, ctx, 1)

	for _, name := range ctx.ClassesByID() {
		if label, isNew := ctx.StringLabel(name); isNew {
			p.emitStringLiteralAt(ctx, w, label, name)
		}
	}

	for _, class := range program.Classes {
		for _, attr := range class.Attributes {
			p.scanExpr(ctx, w, attr.InitExpr)
		}
		for _, method := range class.Methods {
			p.scanExpr(ctx, w, method.Body)
		}
	}
	return nil
}

func (p CodegenConstantsPass) scanExpr(ctx *Context, w io.Writer, e ast.Expr) {
	walkExpr(e, func(node ast.Expr) {
		switch n := node.(type) {
		case *ast.IntLit:
			label, isNew := ctx.IntLabel(n.Value)
			if isNew {
				p.emitIntegerLiteralAt(w, label, registry.Int, ctx, n.Value)
			}
		case *ast.StringLit:
			label, isNew := ctx.StringLabel(n.Value)
			if isNew {
				p.emitStringLiteralAt(ctx, w, label, n.Value)
			}
		}
	})
}

func (p CodegenConstantsPass) emitBuiltInPrototype(ctx *Context, w io.Writer, class string) {
	classID, _ := ctx.Sem.Registry.IDOf(class)
	EmitLabel(w, class+"_protObj")
	EmitWord(w, classID)
	EmitWord(w, 3)
	EmitWord(w, class+"_dispTab")
}

func (p CodegenConstantsPass) emitIntegerLiteralAt(w io.Writer, label, intType string, ctx *Context, value int32) {
	classID, _ := ctx.Sem.Registry.IDOf(intType)
	EmitLabel(w, label)
	EmitWord(w, classID)
	EmitWord(w, 4)
	EmitWord(w, intType+"_dispTab")
	EmitWord(w, value)
}

// emitStringLiteralAt emits a String prototype at label for literal,
// first interning (and, if new, emitting) the Int literal for its
// length, per spec.md §4.4: payload is a pointer to that Int object,
// then the raw bytes, NUL-terminated and padded to a word boundary.
// size = 5 + ceil(len/4), not the floor division the original used.
func (p CodegenConstantsPass) emitStringLiteralAt(ctx *Context, w io.Writer, label, literal string) {
	length := int32(len(literal))
	lengthLabel, isNew := ctx.IntLabel(length)
	if isNew {
		p.emitIntegerLiteralAt(w, lengthLabel, registry.Int, ctx, length)
	}

	classID, _ := ctx.Sem.Registry.IDOf(registry.String)
	EmitLabel(w, label)
	EmitWord(w, classID)
	EmitWord(w, 5+ceilDiv4(int(length)))
	EmitWord(w, registry.String+"_dispTab")
	EmitWord(w, lengthLabel)
	EmitAscii(w, literal)
	EmitByte(w, 0)
	EmitAlign(w, 2)
}

func ceilDiv4(n int) int {
	return (n + 3) / 4
}

// lowerFirstWord lowercases an ASCII class name for the "_<tag>_tag"
// label convention (e.g. "Int" -> "int").
func lowerFirstWord(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
