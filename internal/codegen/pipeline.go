package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/semantic"
)

// Compile runs the full code-generation pipeline over an
// already type-checked program, writing MIPS assembly to w (spec.md
// §4.4): layout first (writes nothing), then data, then tables, then
// the two code-emitting passes, in this fixed order since later passes
// depend on labels and slots the earlier ones establish.
func Compile(program *ast.Program, sem *semantic.Context, w io.Writer) error {
	ctx := NewContext(program, sem)
	return RunAll(program, ctx, w,
		CodegenPreparePass{},
		CodegenConstantsPass{},
		CodegenTablesPass{},
		CodegenObjectsInitPass{},
		CodegenCodePass{},
	)
}
