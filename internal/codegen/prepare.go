package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
)

// CodegenPreparePass walks every class in parent-before-child order and
// computes the two layout tables the remaining codegen passes depend
// on: each class's dispatch table (method name -> owning class, by
// slot) and its attribute table (name, declared type, owning class, by
// slot). Both tables are append-only extensions of the parent's table:
// an overriding method keeps its ancestor's slot, and attributes are
// always laid out ancestor-first (spec.md §4.4, grounded in the
// original implementation's codegen_prepare.cpp / codegen_tables.cpp
// slot-reuse logic).
//
// This pass writes nothing to w; it only populates ctx.
type CodegenPreparePass struct{}

func (CodegenPreparePass) Name() string { return "CodegenPrepare" }

func (p CodegenPreparePass) Run(program *ast.Program, ctx *Context, w io.Writer) error {
	for _, name := range ctx.Sem.Registry.TopologicalOrder() {
		class, ok := ctx.ClassesByName[name]
		if !ok {
			class, ok = ctx.Sem.Registry.Lookup(name)
			if !ok {
				continue
			}
		}
		p.assignDispatchSlots(class, ctx)
		p.assignAttrLayout(class, ctx)
	}
	return nil
}

func (p CodegenPreparePass) assignDispatchSlots(class *ast.Class, ctx *Context) {
	parent := ctx.Sem.Registry.Parent(class.Name)
	var entries []DispatchEntry
	if parent != "" {
		entries = append(entries, ctx.DispatchTable(parent)...)
	}

	methods := ctx.Sem.MethodTable(class.Name)
	for _, m := range class.Methods {
		record, ok := methods.LookupLocal(m.ID)
		if !ok {
			continue // a prior pass already reported an error for this method
		}

		slot := -1
		for i, e := range entries {
			if e.Method == m.ID {
				slot = i
				break
			}
		}
		if slot == -1 {
			slot = len(entries)
			entries = append(entries, DispatchEntry{Method: m.ID, OwningClass: class.Name})
		} else {
			entries[slot] = DispatchEntry{Method: m.ID, OwningClass: class.Name}
		}
		record.DispatchSlot = slot
	}

	ctx.SetDispatchTable(class.Name, entries)
}

func (p CodegenPreparePass) assignAttrLayout(class *ast.Class, ctx *Context) {
	parent := ctx.Sem.Registry.Parent(class.Name)
	var entries []AttrEntry
	if parent != "" {
		entries = append(entries, ctx.Attrs(parent)...)
	}
	for _, a := range class.Attributes {
		entries = append(entries, AttrEntry{Name: a.ID, TypeName: a.TypeName, OwningClass: class.Name})
	}
	ctx.SetAttrLayout(class.Name, entries)
}
