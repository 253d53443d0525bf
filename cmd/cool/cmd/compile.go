package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/coolc/internal/codegen"
	"github.com/cwbudde/coolc/internal/errors"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/registry"
	"github.com/cwbudde/coolc/internal/semantic"
)

// compileFile runs the full pipeline — lex, parse, the three semantic
// passes, then the five codegen passes — over filename, writing
// assembly to stdout and any diagnostics to stderr. It returns the
// exit code spec.md §6 assigns to whichever stage first fails.
func compileFile(filename string, stdout, stderr io.Writer) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(stderr, "cool: cannot read %s: %v\n", filename, err)
		return ExitFileMissing
	}
	source := string(content)

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(l.Errors()) > 0 || len(p.Errors()) > 0 {
		for _, e := range l.Errors() {
			fmt.Fprintln(stderr, errors.New(errors.KindFrontend, e.Pos, "%s", e.Message).WithSource(source, filename).Error())
		}
		for _, e := range p.Errors() {
			fmt.Fprintln(stderr, errors.New(errors.KindFrontend, e.Pos, "%s", e.Message).WithSource(source, filename).Error())
		}
		return ExitParserError
	}

	reg := registry.New()
	ctx := semantic.NewContext(reg, source, filename)
	pm := semantic.NewPassManager(
		semantic.ClassDefinitionPass{},
		semantic.ClassImplementationPass{},
		semantic.TypeCheckPass{},
	)
	if err := pm.RunAll(program, ctx); err != nil {
		fmt.Fprintf(stderr, "cool: internal error: %v\n", err)
		return ExitSemanticError
	}
	if ctx.HasErrors() {
		fmt.Fprintln(stderr, errors.FormatAll(ctx.Diagnostics, false))
		return ExitSemanticError
	}

	if err := codegen.Compile(program, ctx, stdout); err != nil {
		fmt.Fprintf(stderr, "cool: code generation failed: %v\n", err)
		return ExitSemanticError
	}
	return 0
}
