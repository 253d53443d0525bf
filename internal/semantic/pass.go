package semantic

import "github.com/cwbudde/coolc/internal/ast"

// Pass represents a single semantic analysis pass over the whole
// program. internal/codegen declares its own Pass interface for the
// code generation passes.
type Pass interface {
	// Name returns the pass name, for logging.
	Name() string

	// Run executes this pass over program, reading and writing ctx.
	// Semantic errors are recorded on ctx.Diagnostics, not returned;
	// a returned error indicates a fatal internal failure.
	Run(program *ast.Program, ctx *Context) error
}

// PassManager runs a fixed sequence of passes, stopping as soon as one
// of them records a diagnostic (spec.md §2: any non-Ok pass terminates
// the pipeline).
type PassManager struct {
	passes []Pass
}

// NewPassManager creates a manager running passes in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// RunAll runs every pass in order until one fails (returns an error)
// or records a diagnostic on ctx.
func (pm *PassManager) RunAll(program *ast.Program, ctx *Context) error {
	for _, pass := range pm.passes {
		if err := pass.Run(program, ctx); err != nil {
			return err
		}
		if ctx.HasErrors() {
			break
		}
	}
	return nil
}
