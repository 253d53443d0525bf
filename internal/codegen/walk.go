package codegen

import "github.com/cwbudde/coolc/internal/ast"

// walkExpr calls visit on e and every expression nested inside it, in
// source order. Used by CodegenConstantsPass to discover every integer
// and string literal appearing anywhere in the program.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ast.Unary:
		walkExpr(n.E, visit)
	case *ast.BinaryArith:
		walkExpr(n.L, visit)
		walkExpr(n.R, visit)
	case *ast.BinaryCmp:
		walkExpr(n.L, visit)
		walkExpr(n.R, visit)
	case *ast.If:
		walkExpr(n.Cond, visit)
		walkExpr(n.Then, visit)
		walkExpr(n.Else, visit)
	case *ast.While:
		walkExpr(n.Cond, visit)
		walkExpr(n.Body, visit)
	case *ast.Assign:
		walkExpr(n.E, visit)
	case *ast.Block:
		for _, sub := range n.Exprs {
			walkExpr(sub, visit)
		}
	case *ast.Let:
		for _, b := range n.Bindings {
			walkExpr(b.Init, visit)
		}
		walkExpr(n.Body, visit)
	case *ast.Case:
		walkExpr(n.Scrutinee, visit)
		for _, b := range n.Branches {
			walkExpr(b.Body, visit)
		}
	case *ast.Dispatch:
		walkExpr(n.Receiver, visit)
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.StaticDispatch:
		walkExpr(n.Receiver, visit)
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	}
}
