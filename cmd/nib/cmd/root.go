// Package cmd wires the cobra command tree, grounded on
// CWBudde-go-dws/cmd/dwscript/cmd/root.go (rootCmd construction, version
// template, exitWithError helper).
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	redColor = color.New(color.FgRed)
)

const (
	nibVersion = "0.1.0"
	nibAuthor  = "the Nib project"
)

var rootCmd = &cobra.Command{
	Use:     "nib [script]",
	Short:   "Nib — a small imperative scripting language",
	Long:    "Nib runs .nib scripts, or starts an interactive REPL when no script is given.",
	Version: nibVersion,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		file, err := c.Flags().GetString("file")
		if err != nil {
			return err
		}
		if file == "" && len(args) == 1 {
			file = args[0]
		}
		if file == "" {
			return runRepl()
		}
		return runFile(file, c.Flags())
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("nib %s — %s\n", nibVersion, nibAuthor))
	rootCmd.PersistentFlags().StringP("file", "f", "", "script file to run")
	rootCmd.Flags().Bool("dump-ast", false, "print the lowered statement tree instead of running it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command; errors are already printed to stderr by
// cobra/exitWithError before returning.
func Execute() error {
	return rootCmd.Execute()
}

func exitWithError(err error) {
	redColor.Fprintf(os.Stderr, "nib: %s\n", err)
}
