package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/registry"
)

// ClassImplementationPass walks the program's classes in topological
// (parent-before-child) order, installing `self` and every attribute
// into each class's identifier table and every method into its method
// table (spec.md §4.3). Unlike ClassDefinitionPass it accumulates all
// errors found across every class before the pipeline halts.
type ClassImplementationPass struct{}

func (ClassImplementationPass) Name() string { return "ClassImplementation" }

func (p ClassImplementationPass) Run(program *ast.Program, ctx *Context) error {
	byName := make(map[string]*ast.Class, len(program.Classes))
	for _, c := range program.Classes {
		byName[c.Name] = c
	}

	for _, name := range ctx.Registry.TopologicalOrder() {
		class, ok := byName[name]
		if !ok {
			// Not a user class: a built-in (Object, IO, Int, String,
			// Bool). Its methods still need method-table entries so
			// dispatch can find them, even though they have no body
			// to type-check.
			class, ok = ctx.Registry.Lookup(name)
			if !ok {
				continue
			}
		}
		p.runClass(class, ctx)
	}
	return nil
}

func (p ClassImplementationPass) runClass(class *ast.Class, ctx *Context) {
	ctx.CurrentClass = class.Name
	idents := ctx.IdentTable(class.Name)
	methods := ctx.MethodTable(class.Name)

	idents.DefineInClassScope("self", ast.SelfType(class.Name))

	for _, attr := range class.Attributes {
		p.checkAttribute(attr, class, ctx, idents)
	}
	for _, method := range class.Methods {
		p.checkMethod(method, class, ctx, methods)
	}
}

func (p ClassImplementationPass) checkAttribute(attr *ast.Attribute, class *ast.Class, ctx *Context, idents *SymbolTable[string, ast.ExprType]) {
	if attr.ID == "self" {
		ctx.AddDiagnostic(errors.KindImplementation, attr.Pos(), "'self' cannot be the name of an attribute in class %s", class.Name)
		return
	}
	if _, exists := idents.Lookup(attr.ID); exists {
		ctx.AddDiagnostic(errors.KindImplementation, attr.Pos(),
			"attribute %s is an attribute of an inherited class in class %s", attr.ID, class.Name)
		return
	}
	if attr.TypeName != registry.SelfType && !ctx.Registry.IsRegistered(attr.TypeName) {
		ctx.AddDiagnostic(errors.KindImplementation, attr.Pos(),
			"class %s of attribute %s is undefined", attr.TypeName, attr.ID)
		return
	}
	idents.DefineInClassScope(attr.ID, ResolveIdentType(attr.TypeName, class.Name))
}

func (p ClassImplementationPass) checkMethod(method *ast.Method, class *ast.Class, ctx *Context, methods *SymbolTable[string, *MethodRecord]) {
	if methods.ExistsInClassScope(method.ID) {
		ctx.AddDiagnostic(errors.KindImplementation, method.Pos(),
			"method %s is multiply defined in class %s", method.ID, class.Name)
		return
	}

	seen := make(map[string]bool, len(method.Formals))
	formalTypes := make([]ast.ExprType, 0, len(method.Formals))
	formalNames := make([]string, 0, len(method.Formals))
	ok := true
	for _, f := range method.Formals {
		if f.ID == "self" {
			ctx.AddDiagnostic(errors.KindImplementation, f.Pos(), "'self' cannot be the name of a formal parameter")
			ok = false
			continue
		}
		if seen[f.ID] {
			ctx.AddDiagnostic(errors.KindImplementation, f.Pos(), "formal parameter %s is multiply defined", f.ID)
			ok = false
			continue
		}
		seen[f.ID] = true
		if f.TypeName == registry.SelfType || !ctx.Registry.IsRegistered(f.TypeName) {
			ctx.AddDiagnostic(errors.KindImplementation, f.Pos(), "class %s of formal parameter %s is undefined", f.TypeName, f.ID)
			ok = false
			continue
		}
		formalNames = append(formalNames, f.ID)
		formalTypes = append(formalTypes, ast.ConcreteType(f.TypeName))
	}

	if method.ReturnTypeName != registry.SelfType && !ctx.Registry.IsRegistered(method.ReturnTypeName) {
		ctx.AddDiagnostic(errors.KindImplementation, method.Pos(), "undefined return type %s in method %s", method.ReturnTypeName, method.ID)
		ok = false
	}
	if !ok {
		return
	}

	record := &MethodRecord{
		OwningClass:  class.Name,
		FormalNames:  formalNames,
		Formals:      formalTypes,
		ReturnType:   ResolveIdentType(method.ReturnTypeName, class.Name),
		DispatchSlot: -1,
	}

	if methods.Parent != nil {
		if inherited, exists := methods.Parent.Lookup(method.ID); exists {
			if !p.checkOverrideSignature(method, record, inherited, ctx) {
				return
			}
		}
	}

	methods.DefineInClassScope(method.ID, record)
}

// checkOverrideSignature reports a diagnostic and returns false for the
// first mismatch between an overriding method and its ancestor's
// signature, matching the exact wording spec.md §8 scenario 4 expects
// for a formal-type mismatch.
func (p ClassImplementationPass) checkOverrideSignature(method *ast.Method, child, parent *MethodRecord, ctx *Context) bool {
	if len(child.Formals) != len(parent.Formals) {
		ctx.AddDiagnostic(errors.KindImplementation, method.Pos(),
			"incompatible number of formal parameters in redefined method %s", method.ID)
		return false
	}
	for i, f := range method.Formals {
		if !child.Formals[i].Equals(parent.Formals[i]) {
			ctx.AddDiagnostic(errors.KindImplementation, f.Pos(),
				"Type of argument %s in method %s differs from parent method. Expected %s, actual %s",
				f.ID, method.ID, parent.Formals[i].String(), child.Formals[i].String())
			return false
		}
	}
	if !child.ReturnType.Equals(parent.ReturnType) {
		ctx.AddDiagnostic(errors.KindImplementation, method.Pos(),
			"In redefined method %s, return type %s is different from original return type %s",
			method.ID, child.ReturnType.String(), parent.ReturnType.String())
		return false
	}
	return true
}
