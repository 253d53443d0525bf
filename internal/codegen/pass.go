package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
)

// Pass is one stage of code generation, writing its output to w in
// strict emission order (spec.md §5: output order is meaningful, the
// downstream assembler resolves labels positionally).
type Pass interface {
	Name() string
	Run(program *ast.Program, ctx *Context, w io.Writer) error
}

// RunAll runs every pass over program in order, in a single output
// stream.
func RunAll(program *ast.Program, ctx *Context, w io.Writer, passes ...Pass) error {
	for _, pass := range passes {
		if err := pass.Run(program, ctx, w); err != nil {
			return err
		}
	}
	return nil
}
