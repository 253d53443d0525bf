package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/registry"
)

// CodegenTablesPass emits, for every class, its dispatch table and
// prototype object, then the three program-level id-indexed tables
// used by dynamic dispatch and case-selection (spec.md §4.4, grounded
// in the original implementation's codegen_tables.cpp).
type CodegenTablesPass struct{}

func (CodegenTablesPass) Name() string { return "CodegenTables" }

func (p CodegenTablesPass) Run(program *ast.Program, ctx *Context, w io.Writer) error {
	classes := ctx.ClassesByID()

	for _, name := range classes {
		p.emitDispatchTable(ctx, w, name)
	}
	for _, name := range classes {
		p.emitPrototypeObject(ctx, w, name)
	}

	p.emitClassNameTable(ctx, w, classes)
	p.emitClassObjTable(ctx, w, classes)
	p.emitClassParentTable(ctx, w, classes)
	return nil
}

func (p CodegenTablesPass) emitDispatchTable(ctx *Context, w io.Writer, class string) {
	EmitLabel(w, class+"_dispTab")
	for _, e := range ctx.DispatchTable(class) {
		EmitWord(w, e.OwningClass+"."+e.Method)
	}
}

func (p CodegenTablesPass) emitPrototypeObject(ctx *Context, w io.Writer, class string) {
	classID, _ := ctx.Sem.Registry.IDOf(class)
	attrs := ctx.Attrs(class)

	EmitLabel(w, class+"_protObj")
	EmitWord(w, classID)
	EmitWord(w, 3+len(attrs))
	EmitWord(w, class+"_dispTab")
	for _, a := range attrs {
		EmitWord(w, p.defaultAttributeValue(a.TypeName))
	}
}

// defaultAttributeValue returns the label (or literal 0) a freshly
// copied prototype object uses for an attribute of the given declared
// type before its init expression (if any) runs.
func (p CodegenTablesPass) defaultAttributeValue(typeName string) string {
	switch typeName {
	case registry.Int:
		return "Int_protObj"
	case registry.String:
		return "String_protObj"
	case registry.Bool:
		return "Bool_const0"
	default:
		return "0"
	}
}

func (p CodegenTablesPass) emitClassNameTable(ctx *Context, w io.Writer, classes []string) {
	EmitLabel(w, "class_nameTab")
	for _, name := range classes {
		label, _ := ctx.StringLabel(name)
		EmitWord(w, label)
	}
}

func (p CodegenTablesPass) emitClassObjTable(ctx *Context, w io.Writer, classes []string) {
	EmitLabel(w, "class_objTab")
	for _, name := range classes {
		EmitWord(w, name+"_protObj")
		EmitWord(w, name+"_init")
	}
}

func (p CodegenTablesPass) emitClassParentTable(ctx *Context, w io.Writer, classes []string) {
	EmitLabel(w, "class_parentTab")
	for _, name := range classes {
		if name == registry.Object {
			EmitWord(w, -1)
			continue
		}
		parentID, _ := ctx.Sem.Registry.IDOf(ctx.Sem.Registry.Parent(name))
		EmitWord(w, parentID)
	}
}
