package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/semantic"
)

// CodegenObjectsInitPass emits the .text section header and every
// class's <Class>_init routine: it calls its parent's init first, then
// runs each of its own attributes' initializer expressions in
// declaration order (spec.md §4.4). An attribute without an explicit
// initializer needs nothing further here: its default value is already
// the value CodegenTablesPass baked into the class's prototype object,
// which Object.copy carried over.
//
// Grounded in the original implementation's codegen_code.cpp
// CodegenObjectsInitPass::codegen(ClassNode*)/(AttributeNode*), the
// only parts of that file not left as an unfinished skeleton.
type CodegenObjectsInitPass struct{}

func (CodegenObjectsInitPass) Name() string { return "CodegenObjectsInit" }

func (p CodegenObjectsInitPass) Run(program *ast.Program, ctx *Context, w io.Writer) error {
	EmitLabel(w, "heap_start")
	EmitWord(w, 0)
	EmitDirective(w, ".text")
	for _, label := range []string{
		"Main_init", "Main.main", "Int_init", "String_init",
		"Object.copy", "Object.abort", "Object.type_name",
	} {
		EmitGlobl(w, label)
	}

	for _, name := range ctx.ClassesByID() {
		p.emitClassInit(ctx, w, name)
	}
	return nil
}

func (p CodegenObjectsInitPass) emitClassInit(ctx *Context, w io.Writer, class string) {
	ctx.CurrentClass = class
	// See CodegenCodePass.emitMethod: PushStackFrame below saves three
	// words under $fp, so locals pushed after it start three words
	// lower than a bare StackPos of 0 would place them.
	ctx.StackPos = -3
	ctx.SetLocals(p.attrScope(ctx, class))

	EmitLabel(w, class+"_init")
	PushAccumulatorToStack(w)
	PushStackFrame(w)

	if parent := ctx.Sem.Registry.Parent(class); parent != "" {
		EmitLw(w, "$a0", "$fp", 0)
		EmitJal(w, parent+"_init")
	}

	decl, ok := ctx.ClassesByName[class]
	if ok {
		for _, attr := range decl.Attributes {
			if attr.InitExpr == nil {
				continue
			}
			genExpr(ctx, w, attr.InitExpr)
			pos, _ := ctx.AttrPosition(class, attr.ID)
			EmitLw(w, "$t0", "$fp", 0)
			EmitSw(w, "$a0", "$t0", ObjectContentOffset+pos*WordSize)
		}
	}

	EmitLw(w, "$a0", "$fp", 0)
	PopStackFrame(w, 1)
	EmitJr(w, "$ra")
}

// attrScope builds the identifier table an init routine's attribute
// initializer expressions resolve names against: every attribute slot
// of class (inherited and own), no locals yet.
func (p CodegenObjectsInitPass) attrScope(ctx *Context, class string) *semantic.SymbolTable[string, IdentInfo] {
	t := semantic.NewSymbolTable[string, IdentInfo](nil)
	for _, a := range ctx.Attrs(class) {
		pos, _ := ctx.AttrPosition(class, a.Name)
		t.DefineInClassScope(a.Name, IdentInfo{IsAttribute: true, Position: pos})
	}
	return t
}
