package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/errors"
)

// ClassDefinitionPass validates global class structure and populates
// ctx.Registry (spec.md §4.3). It fails fast: the first rule violated
// halts the pass with a single diagnostic, matching the "Definition
// errors ... each fails fast with a single message" contract of §7.
type ClassDefinitionPass struct{}

func (ClassDefinitionPass) Name() string { return "ClassDefinition" }

func (p ClassDefinitionPass) Run(program *ast.Program, ctx *Context) error {
	for _, class := range program.Classes {
		if err := ctx.Registry.AddClass(class); err != nil {
			ctx.AddDiagnostic(errors.KindDefinition, class.Pos(), "%s", err.Error())
			return nil
		}
	}

	if err := ctx.Registry.CheckInheritance(); err != nil {
		ctx.AddDiagnostic(errors.KindDefinition, program.Pos(), "%s", err.Error())
		return nil
	}

	var mainClass *ast.Class
	for _, class := range program.Classes {
		if class.Name == "Main" {
			mainClass = class
			break
		}
	}
	if mainClass == nil {
		ctx.AddDiagnostic(errors.KindDefinition, program.Pos(), "class Main is not defined")
		return nil
	}

	hasMain := false
	for _, m := range mainClass.Methods {
		if m.ID == "main" {
			hasMain = true
			break
		}
	}
	if !hasMain {
		ctx.AddDiagnostic(errors.KindDefinition, mainClass.Pos(), "class Main has no method main")
	}
	return nil
}
