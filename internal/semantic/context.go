// Package semantic implements the three semantic-analysis passes
// (spec.md §4.3) and the nested identifier/method environment (§4.2)
// they share through a threaded Context.
//
// Grounded in the teacher's internal/semantic package: the Pass /
// PassManager split (pass.go), the PassContext threaded-state idea
// (pass_context.go) cut down from DWScript's scope-stack-of-everything
// to the two per-class tables spec.md actually calls for, and the
// lowercase-normalizing SymbolTable (symbol_table.go) generalized into
// the package-level generic SymbolTable in symtab.go.
package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/registry"
)

// MethodRecord is the per-method entry in a class's method table:
// spec.md §3's MethodCodegenInfo folded together with the signature
// information TypeCheck needs to validate calls and overrides.
type MethodRecord struct {
	OwningClass string
	FormalNames []string
	Formals     []ast.ExprType
	ReturnType  ast.ExprType
	// DispatchSlot is assigned by CodegenPreparePass; -1 until then.
	DispatchSlot int
}

// Context is threaded through every semantic pass (spec.md §4.2): the
// shared registry, the class currently being processed, and that
// class's lazily-materialized identifier and method tables.
type Context struct {
	Registry     *registry.Registry
	CurrentClass string
	Diagnostics  []*errors.Diagnostic
	Source       string
	File         string

	identTables  map[string]*SymbolTable[string, ast.ExprType]
	methodTables map[string]*SymbolTable[string, *MethodRecord]
}

// NewContext creates a Context over an already-populated registry.
func NewContext(reg *registry.Registry, source, file string) *Context {
	return &Context{
		Registry:     reg,
		Source:       source,
		File:         file,
		identTables:  make(map[string]*SymbolTable[string, ast.ExprType]),
		methodTables: make(map[string]*SymbolTable[string, *MethodRecord]),
	}
}

// initializeTables lazily builds the identifier and method tables for
// className, chaining them to its parent's tables. Idempotent: called
// once per class by ClassImplementationPass and again, harmlessly, by
// CodegenPreparePass (spec.md §4.2).
func (ctx *Context) initializeTables(className string) {
	if _, ok := ctx.identTables[className]; ok {
		return
	}
	parent := ctx.Registry.Parent(className)
	var parentIdents *SymbolTable[string, ast.ExprType]
	var parentMethods *SymbolTable[string, *MethodRecord]
	if parent != "" {
		ctx.initializeTables(parent)
		parentIdents = ctx.identTables[parent]
		parentMethods = ctx.methodTables[parent]
	}
	ctx.identTables[className] = NewSymbolTable(parentIdents)
	ctx.methodTables[className] = NewSymbolTable(parentMethods)
}

// IdentTable returns the identifier table for className, initializing
// it (and its ancestors) on first use.
func (ctx *Context) IdentTable(className string) *SymbolTable[string, ast.ExprType] {
	ctx.initializeTables(className)
	return ctx.identTables[className]
}

// MethodTable returns the method table for className, initializing it
// (and its ancestors) on first use.
func (ctx *Context) MethodTable(className string) *SymbolTable[string, *MethodRecord] {
	ctx.initializeTables(className)
	return ctx.methodTables[className]
}

// AddDiagnostic records one structured compiler diagnostic.
func (ctx *Context) AddDiagnostic(kind errors.Kind, pos ast.Position, format string, args ...any) {
	d := errors.New(kind, pos, format, args...).WithSource(ctx.Source, ctx.File)
	ctx.Diagnostics = append(ctx.Diagnostics, d)
}

// HasErrors reports whether any diagnostic has been recorded.
func (ctx *Context) HasErrors() bool { return len(ctx.Diagnostics) > 0 }

// ResolveIdentType resolves a declared type name to an ast.ExprType,
// tagging SELF_TYPE against the given enclosing class.
func ResolveIdentType(typeName, enclosingClass string) ast.ExprType {
	if typeName == registry.SelfType {
		return ast.SelfType(enclosingClass)
	}
	return ast.ConcreteType(typeName)
}
