package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/semantic"
)

// CodegenCodePass emits every user-defined method body as
// "<Class>.<method>": a prologue that pushes self and a stack frame,
// formal arguments bound at positive offsets above the frame pointer,
// the body lowered through genExpr, and an epilogue that pops the
// frame and the caller's self-plus-argument words before returning
// (spec.md §4.4, grounded in the original implementation's
// codegen_code_base.cpp MethodNode lowering).
type CodegenCodePass struct{}

func (CodegenCodePass) Name() string { return "CodegenCode" }

func (p CodegenCodePass) Run(program *ast.Program, ctx *Context, w io.Writer) error {
	for _, class := range program.Classes {
		for _, method := range class.Methods {
			if method.Body == nil {
				continue // built-in method: implemented by the runtime library
			}
			p.emitMethod(ctx, w, class, method)
		}
	}
	return nil
}

func (p CodegenCodePass) emitMethod(ctx *Context, w io.Writer, class *ast.Class, method *ast.Method) {
	ctx.CurrentClass = class.Name
	// PushStackFrame below saves $ra/$s0/$fp in the three words directly
	// under $fp; the first let/case local therefore starts three words
	// further down than a bare "no locals pushed yet" StackPos of 0.
	ctx.StackPos = -3
	ctx.SetLocals(p.methodScope(ctx, class.Name, method))

	EmitLabel(w, class.Name+"."+method.ID)
	PushAccumulatorToStack(w)
	PushStackFrame(w)

	genExpr(ctx, w, method.Body)

	nArgs := int32(len(method.Formals))
	PopStackFrame(w, 1+nArgs)
	EmitJr(w, "$ra")
}

// methodScope builds the identifier table a method body resolves names
// against: the class's attribute scope as Parent, with each formal
// bound in the permanent class-scope frame at its positive offset
// above $fp (formal i of n, 1-indexed in source order, sits at
// (n-i+1)*WordSize($fp), since arguments are pushed in source order
// and self is pushed last, directly below them).
func (p CodegenCodePass) methodScope(ctx *Context, class string, method *ast.Method) *semantic.SymbolTable[string, IdentInfo] {
	attrs := semantic.NewSymbolTable[string, IdentInfo](nil)
	for _, a := range ctx.Attrs(class) {
		pos, _ := ctx.AttrPosition(class, a.Name)
		attrs.DefineInClassScope(a.Name, IdentInfo{IsAttribute: true, Position: pos})
	}

	t := semantic.NewSymbolTable[string, IdentInfo](attrs)
	n := int32(len(method.Formals))
	for i, f := range method.Formals {
		position := n - int32(i)
		t.DefineInClassScope(f.ID, IdentInfo{Position: position})
	}
	return t
}
