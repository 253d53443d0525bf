// Package cmd implements the cool command-line tool: a single cobra
// command that compiles one COOL source file to MIPS assembly,
// mapping every failure mode to the fixed exit codes spec.md §6
// requires. Grounded in the teacher's cmd/dwscript/cmd package
// structure (a cobra root command plus one file per subcommand), cut
// down to the single-command, single-file-argument CLI this spec
// calls for.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes (spec.md §6). 0 is success.
const (
	ExitWrongArgCount = -1
	ExitFileMissing   = -2
	ExitParserError   = -3
	ExitSemanticError = -4
)

// Run executes the cool CLI over args (excluding the program name),
// writing assembly to stdout and diagnostics to stderr, and returns the
// process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	exitCode := 0

	root := &cobra.Command{
		Use:           "cool <source-file>",
		Short:         "Compile a COOL source file to MIPS assembly",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(stderr, "usage: cool <source-file>")
				exitCode = ExitWrongArgCount
				return errSilent
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = compileFile(args[0], stdout, stderr)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil && err != errSilent {
		return ExitWrongArgCount
	}
	return exitCode
}

// errSilent signals a condition whose exit code has already been set
// and whose message (if any) has already been written, so cobra's own
// error printing should stay out of the way.
var errSilent = errArgCount{}

type errArgCount struct{}

func (errArgCount) Error() string { return "wrong argument count" }
