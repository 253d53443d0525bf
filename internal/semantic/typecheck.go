package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/registry"
)

// objectType is the best-effort placeholder used for an expression
// whose real type could not be determined, so downstream sibling
// expressions still get a type and typing can surface every error in
// one pass instead of stopping at the first (spec.md §7 rule 4).
var objectType = ast.ConcreteType(registry.Object)

// TypeCheckPass assigns a type to every expression in the program,
// per the typing table in spec.md §4.3.
type TypeCheckPass struct{}

func (TypeCheckPass) Name() string { return "TypeCheck" }

func (p TypeCheckPass) Run(program *ast.Program, ctx *Context) error {
	for _, class := range program.Classes {
		p.checkClass(class, ctx)
	}
	return nil
}

func (p TypeCheckPass) checkClass(class *ast.Class, ctx *Context) {
	ctx.CurrentClass = class.Name
	idents := ctx.IdentTable(class.Name)

	for _, attr := range class.Attributes {
		if attr.InitExpr == nil {
			continue
		}
		declared := ResolveIdentType(attr.TypeName, class.Name)
		got := p.typeOf(attr.InitExpr, class.Name, ctx, idents)
		if !ctx.Registry.ConformTo(got, declared) {
			ctx.AddDiagnostic(errors.KindType, attr.InitExpr.Pos(),
				"inferred type %s of initialization of attribute %s does not conform to declared type %s",
				got.String(), attr.ID, declared.String())
		}
	}

	for _, method := range class.Methods {
		if method.Body == nil {
			continue // built-in method, implemented externally
		}
		methods := ctx.MethodTable(class.Name)
		record, _ := methods.LookupLocal(method.ID)
		idents.PushFrame()
		if record != nil {
			for i, name := range record.FormalNames {
				idents.Define(name, record.Formals[i])
			}
		}
		bodyType := p.typeOf(method.Body, class.Name, ctx, idents)
		idents.PopFrame()
		if record != nil && !ctx.Registry.ConformTo(bodyType, record.ReturnType) {
			ctx.AddDiagnostic(errors.KindType, method.Body.Pos(),
				"inferred return type %s of method %s does not conform to declared return type %s",
				bodyType.String(), method.ID, record.ReturnType.String())
		}
	}
}

// typeOf type-checks e in the scope of enclosingClass using idents,
// sets e's Type annotation, and returns the resulting ast.ExprType.
func (p TypeCheckPass) typeOf(e ast.Expr, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	var t ast.ExprType
	switch n := e.(type) {
	case *ast.IntLit:
		t = ast.ConcreteType(registry.Int)
	case *ast.StringLit:
		t = ast.ConcreteType(registry.String)
	case *ast.BoolLit:
		t = ast.ConcreteType(registry.Bool)
	case *ast.Id:
		t = p.typeID(n, enclosingClass, ctx, idents)
	case *ast.Assign:
		t = p.typeAssign(n, enclosingClass, ctx, idents)
	case *ast.New:
		t = p.typeNew(n, enclosingClass)
	case *ast.Block:
		t = p.typeBlock(n, enclosingClass, ctx, idents)
	case *ast.If:
		t = p.typeIf(n, enclosingClass, ctx, idents)
	case *ast.While:
		t = p.typeWhile(n, enclosingClass, ctx, idents)
	case *ast.Let:
		t = p.typeLet(n, enclosingClass, ctx, idents)
	case *ast.Case:
		t = p.typeCase(n, enclosingClass, ctx, idents)
	case *ast.Unary:
		t = p.typeUnary(n, enclosingClass, ctx, idents)
	case *ast.BinaryArith:
		t = p.typeBinaryArith(n, enclosingClass, ctx, idents)
	case *ast.BinaryCmp:
		t = p.typeBinaryCmp(n, enclosingClass, ctx, idents)
	case *ast.Dispatch:
		t = p.typeDispatch(n, enclosingClass, ctx, idents)
	case *ast.StaticDispatch:
		t = p.typeStaticDispatch(n, enclosingClass, ctx, idents)
	default:
		t = objectType
	}
	e.SetType(t)
	return t
}

func (p TypeCheckPass) typeID(n *ast.Id, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	if n.Name == "self" {
		return ast.SelfType(enclosingClass)
	}
	if t, ok := idents.Lookup(n.Name); ok {
		return t
	}
	ctx.AddDiagnostic(errors.KindType, n.Pos(), "undeclared identifier %s", n.Name)
	return objectType
}

func (p TypeCheckPass) typeAssign(n *ast.Assign, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	valueType := p.typeOf(n.E, enclosingClass, ctx, idents)
	if n.ID == "self" {
		ctx.AddDiagnostic(errors.KindType, n.Pos(), "cannot assign to self")
		return valueType
	}
	declared, ok := idents.Lookup(n.ID)
	if !ok {
		ctx.AddDiagnostic(errors.KindType, n.Pos(), "undeclared identifier %s in assignment", n.ID)
		return valueType
	}
	if !ctx.Registry.ConformTo(valueType, declared) {
		ctx.AddDiagnostic(errors.KindType, n.Pos(),
			"type %s of assigned expression does not conform to declared type %s of identifier %s",
			valueType.String(), declared.String(), n.ID)
	}
	return valueType
}

func (p TypeCheckPass) typeNew(n *ast.New, enclosingClass string) ast.ExprType {
	return ResolveIdentType(n.TypeName, enclosingClass)
}

func (p TypeCheckPass) typeBlock(n *ast.Block, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	result := objectType
	for _, e := range n.Exprs {
		result = p.typeOf(e, enclosingClass, ctx, idents)
	}
	return result
}

func (p TypeCheckPass) typeIf(n *ast.If, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	cond := p.typeOf(n.Cond, enclosingClass, ctx, idents)
	if cond.ClassName != registry.Bool || cond.IsSelf {
		ctx.AddDiagnostic(errors.KindType, n.Cond.Pos(), "if condition must be Bool, got %s", cond.String())
	}
	thenType := p.typeOf(n.Then, enclosingClass, ctx, idents)
	elseType := p.typeOf(n.Else, enclosingClass, ctx, idents)
	return ctx.Registry.LeastCommonAncestor(thenType, elseType)
}

func (p TypeCheckPass) typeWhile(n *ast.While, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	cond := p.typeOf(n.Cond, enclosingClass, ctx, idents)
	if cond.ClassName != registry.Bool || cond.IsSelf {
		ctx.AddDiagnostic(errors.KindType, n.Cond.Pos(), "while condition must be Bool, got %s", cond.String())
	}
	p.typeOf(n.Body, enclosingClass, ctx, idents)
	return ast.ConcreteType(registry.Object)
}

func (p TypeCheckPass) typeLet(n *ast.Let, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	idents.PushFrame()
	defer idents.PopFrame()
	for _, b := range n.Bindings {
		declared := ResolveIdentType(b.TypeName, enclosingClass)
		if b.Init != nil {
			got := p.typeOf(b.Init, enclosingClass, ctx, idents)
			if !ctx.Registry.ConformTo(got, declared) {
				ctx.AddDiagnostic(errors.KindType, b.Init.Pos(),
					"inferred type %s of initialization of %s does not conform to declared type %s",
					got.String(), b.ID, declared.String())
			}
		}
		idents.Define(b.ID, declared)
	}
	return p.typeOf(n.Body, enclosingClass, ctx, idents)
}

func (p TypeCheckPass) typeCase(n *ast.Case, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	p.typeOf(n.Scrutinee, enclosingClass, ctx, idents)

	seen := make(map[string]bool, len(n.Branches))
	result := objectType
	first := true
	for _, b := range n.Branches {
		if b.TypeName == registry.SelfType {
			ctx.AddDiagnostic(errors.KindType, b.Pos(), "case branch type may not be SELF_TYPE")
			continue
		}
		if !ctx.Registry.IsRegistered(b.TypeName) {
			ctx.AddDiagnostic(errors.KindType, b.Pos(), "class %s of case branch is undefined", b.TypeName)
			continue
		}
		if seen[b.TypeName] {
			ctx.AddDiagnostic(errors.KindType, b.Pos(), "duplicate branch %s in case statement", b.TypeName)
			continue
		}
		seen[b.TypeName] = true

		idents.PushFrame()
		idents.Define(b.ID, ast.ConcreteType(b.TypeName))
		branchType := p.typeOf(b.Body, enclosingClass, ctx, idents)
		idents.PopFrame()

		if first {
			result = branchType
			first = false
		} else {
			result = ctx.Registry.LeastCommonAncestor(result, branchType)
		}
	}
	return result
}

func (p TypeCheckPass) typeUnary(n *ast.Unary, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	operand := p.typeOf(n.E, enclosingClass, ctx, idents)
	switch n.Op {
	case ast.UnaryNot:
		if operand.ClassName != registry.Bool || operand.IsSelf {
			ctx.AddDiagnostic(errors.KindType, n.Pos(), "not operand must be Bool, got %s", operand.String())
		}
		return ast.ConcreteType(registry.Bool)
	case ast.UnaryNeg:
		if operand.ClassName != registry.Int || operand.IsSelf {
			ctx.AddDiagnostic(errors.KindType, n.Pos(), "~ operand must be Int, got %s", operand.String())
		}
		return ast.ConcreteType(registry.Int)
	default: // ast.UnaryIsVoid
		return ast.ConcreteType(registry.Bool)
	}
}

func (p TypeCheckPass) typeBinaryArith(n *ast.BinaryArith, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	l := p.typeOf(n.L, enclosingClass, ctx, idents)
	r := p.typeOf(n.R, enclosingClass, ctx, idents)
	if l.ClassName != registry.Int || l.IsSelf {
		ctx.AddDiagnostic(errors.KindType, n.L.Pos(), "arithmetic operand must be Int, got %s", l.String())
	}
	if r.ClassName != registry.Int || r.IsSelf {
		ctx.AddDiagnostic(errors.KindType, n.R.Pos(), "arithmetic operand must be Int, got %s", r.String())
	}
	return ast.ConcreteType(registry.Int)
}

func (p TypeCheckPass) typeBinaryCmp(n *ast.BinaryCmp, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	l := p.typeOf(n.L, enclosingClass, ctx, idents)
	r := p.typeOf(n.R, enclosingClass, ctx, idents)

	if n.Op == ast.OpLess || n.Op == ast.OpLessEq {
		if l.ClassName != registry.Int || l.IsSelf {
			ctx.AddDiagnostic(errors.KindType, n.L.Pos(), "comparison operand must be Int, got %s", l.String())
		}
		if r.ClassName != registry.Int || r.IsSelf {
			ctx.AddDiagnostic(errors.KindType, n.R.Pos(), "comparison operand must be Int, got %s", r.String())
		}
		return ast.ConcreteType(registry.Bool)
	}

	// Equality: if either side is a primitive (Int/String/Bool), the
	// other side must be the identical primitive type.
	if isPrimitive(l) || isPrimitive(r) {
		if !l.Equals(r) {
			ctx.AddDiagnostic(errors.KindType, n.Pos(),
				"cannot compare %s with %s", l.String(), r.String())
		}
	}
	return ast.ConcreteType(registry.Bool)
}

func isPrimitive(t ast.ExprType) bool {
	return !t.IsSelf && (t.ClassName == registry.Int || t.ClassName == registry.String || t.ClassName == registry.Bool)
}

func (p TypeCheckPass) typeDispatch(n *ast.Dispatch, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	var receiverType ast.ExprType
	if n.Receiver == nil {
		receiverType = ast.SelfType(enclosingClass)
	} else {
		receiverType = p.typeOf(n.Receiver, enclosingClass, ctx, idents)
	}

	lookupClass := receiverType.ClassName
	if receiverType.IsSelf {
		lookupClass = enclosingClass
	}
	return p.checkCall(n.Method, lookupClass, receiverType, n.Args, n.Pos(), enclosingClass, ctx, idents)
}

func (p TypeCheckPass) typeStaticDispatch(n *ast.StaticDispatch, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	receiverType := p.typeOf(n.Receiver, enclosingClass, ctx, idents)
	target := ast.ConcreteType(n.TargetClass)
	if !ctx.Registry.ConformTo(receiverType, target) {
		ctx.AddDiagnostic(errors.KindType, n.Pos(),
			"expression type %s does not conform to declared static dispatch type %s",
			receiverType.String(), n.TargetClass)
	}
	return p.checkCall(n.Method, n.TargetClass, receiverType, n.Args, n.Pos(), enclosingClass, ctx, idents)
}

// checkCall resolves method in the method table of lookupClass,
// checks argument count and conformance, and resolves a SELF_TYPE
// return type to receiverType (spec.md §4.3 Dispatch/StaticDispatch
// rows).
func (p TypeCheckPass) checkCall(method, lookupClass string, receiverType ast.ExprType, args []ast.Expr, pos ast.Position, enclosingClass string, ctx *Context, idents *SymbolTable[string, ast.ExprType]) ast.ExprType {
	argTypes := make([]ast.ExprType, len(args))
	for i, a := range args {
		argTypes[i] = p.typeOf(a, enclosingClass, ctx, idents)
	}

	record, ok := ctx.MethodTable(lookupClass).Lookup(method)
	if !ok {
		ctx.AddDiagnostic(errors.KindType, pos, "undefined method %s in class %s", method, lookupClass)
		return objectType
	}
	if len(args) != len(record.Formals) {
		ctx.AddDiagnostic(errors.KindType, pos, "method %s called with wrong number of arguments", method)
		return objectType
	}
	for i, formal := range record.Formals {
		if !ctx.Registry.ConformTo(argTypes[i], formal) {
			ctx.AddDiagnostic(errors.KindType, args[i].Pos(),
				"argument %d type %s does not conform to formal type %s in call to %s",
				i+1, argTypes[i].String(), formal.String(), method)
		}
	}

	if record.ReturnType.IsSelf {
		return receiverType
	}
	return record.ReturnType
}
