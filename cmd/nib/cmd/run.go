package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nib-lang/nib/env"
	"github.com/nib-lang/nib/eval"
	"github.com/nib-lang/nib/parser"
	"github.com/nib-lang/nib/repl"
)

// runFile reads, parses, lowers, and evaluates the script at path,
// grounded on the teacher's main.executeFileWithRecovery. Each error is
// printed to stderr via exitWithError and also returned, so that
// cmd/nib/main.go (which owns the recover-and-exit wrapping) exits
// non-zero.
func runFile(path string, flags *pflag.FlagSet) error {
	src, err := os.ReadFile(path)
	if err != nil {
		exitWithError(err)
		return err
	}

	p := parser.New(string(src))
	prog, err := p.Parse()
	if err != nil {
		exitWithError(err)
		return err
	}

	if dump, _ := flags.GetBool("dump-ast"); dump {
		fmt.Print(parser.DumpProgram(prog))
		return nil
	}

	e := env.New()
	e.Finalize(prog.Interner.Len())
	ev := eval.New(e, prog.Pool, prog.Interner, os.Stdout)

	if err := ev.Run(prog.Stmts); err != nil {
		exitWithError(err)
		return err
	}
	return nil
}

// runRepl starts the interactive session, grounded on the teacher's
// default (no-argument) main.go branch.
func runRepl() error {
	r := repl.NewRepl("Nib", nibVersion, nibAuthor, "----------------------------------------", "MIT", "nib> ")
	r.Start(os.Stdin, os.Stdout)
	return nil
}
