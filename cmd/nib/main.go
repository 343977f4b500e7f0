// Command nib is the CLI entry point: run a script file, start the
// interactive REPL, or serve REPL sessions over TCP. Grounded on the
// teacher's main/main.go (panic-recovery around execution, fatih/color
// diagnostics) restructured onto CWBudde-go-dws's cobra command tree,
// since spec section 6 names an explicit flag/subcommand surface the
// teacher's raw os.Args switch does not provide directly.
package main

import (
	"fmt"
	"os"

	"github.com/nib-lang/nib/cmd/nib/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "nib: panic: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
