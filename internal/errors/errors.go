// Package errors formats COOL compiler diagnostics with source context,
// line/column information and a caret pointing at the offending column.
// Adapted from the teacher's internal/errors package (CompilerError),
// generalized from a single lexer.Position type to internal/ast.Position
// and from free-form messages to the four structured error Kinds of
// spec.md §7.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/coolc/internal/ast"
)

// Kind identifies which of the four compiler error categories in
// spec.md §7 a Diagnostic belongs to.
type Kind int

const (
	// KindFrontend covers scanner/parser errors (unterminated string or
	// comment, invalid character, string too long, string contains a NUL
	// or newline, invalid/unsupported feature).
	KindFrontend Kind = iota
	// KindDefinition covers ClassDefinitionPass errors (redefinition,
	// forbidden name, missing/invalid parent, inheritance cycle).
	KindDefinition
	// KindImplementation covers ClassImplementationPass errors (duplicate
	// attribute, self as attribute/parameter, duplicate parameter name,
	// unknown type, signature mismatch with parent).
	KindImplementation
	// KindType covers TypeCheckPass errors (non-conformance, undefined
	// identifier, arity mismatch, non-Bool condition, non-Int arithmetic
	// operand, illegal equality).
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindFrontend:
		return "frontend"
	case KindDefinition:
		return "definition"
	case KindImplementation:
		return "implementation"
	case KindType:
		return "type"
	default:
		return "error"
	}
}

// Diagnostic is a single compiler error with position and source context.
type Diagnostic struct {
	Message string
	Source  string
	File    string
	Pos     ast.Position
	Kind    Kind
}

// New builds a Diagnostic. Source and File may be filled in later via
// WithSource if they aren't known at the error site.
func New(kind Kind, pos ast.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithSource returns a copy of the Diagnostic with Source/File attached,
// used once the originating pass doesn't have them to hand at creation time.
func (d *Diagnostic) WithSource(source, file string) *Diagnostic {
	clone := *d
	clone.Source = source
	clone.File = file
	return &clone
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with the offending source line and a
// caret under the reported column. If color is true, ANSI codes highlight
// the caret and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", d.File, d.Pos.Line, d.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", d.Pos.Line, d.Pos.Column))
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(fmt.Sprintf("[%s] %s", d.Kind, d.Message))
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a sequence of diagnostics, each with its own source
// context, separated by a blank line and an "[Error i of n]" header once
// there's more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
