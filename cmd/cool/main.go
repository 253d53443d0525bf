// Command cool compiles a single COOL source file to MIPS assembly,
// written to standard output (spec.md §6).
package main

import (
	"os"

	"github.com/cwbudde/coolc/cmd/cool/cmd"
)

func main() {
	os.Exit(cmd.Run(os.Args[1:], os.Stdout, os.Stderr))
}
