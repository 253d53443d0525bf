package parser

import "github.com/cwbudde/coolc/internal/ast"

// ParseError is one frontend diagnostic raised while parsing.
type ParseError struct {
	Message string
	Pos     ast.Position
}

func (e ParseError) Error() string { return e.Message }
