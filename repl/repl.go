// Package repl implements the interactive line-at-a-time front end,
// grounded on the teacher's repl.Repl (banner/prompt fields, readline
// history, per-line recover-from-panic execution via executeWithRecovery),
// adapted to parse each line against one persistent env.Environment
// rather than the teacher's map-scope evaluator.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/nib-lang/nib/env"
	"github.com/nib-lang/nib/eval"
	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the banner copy and the one Environment shared across every
// line of an interactive session. The interner is shared right along
// with it: handles are minted once per distinct name across the whole
// session, never reset per line, so they keep indexing the same slots
// in env across every Parse call.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string

	env      *env.Environment
	interner *ident.Interner
}

// NewRepl creates a Repl ready to Start.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt, env: env.New(), interner: ident.NewInterner()}
}

// PrintBannerInfo writes the colored startup banner.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to Nib!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the read-eval-print loop until '.exit' or EOF.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		rl.SaveHistory(line)
		r.executeWithRecovery(writer, line)
	}
}

func (r *Repl) executeWithRecovery(writer io.Writer, line string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	p := parser.NewWith(line, r.interner)
	prog, err := p.Parse()
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	r.env.Finalize(r.interner.Len())
	ev := eval.New(r.env, prog.Pool, prog.Interner, writer)
	if err := ev.Run(prog.Stmts); err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}
}
