package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd supplements cobra's built-in --version flag, grounded on
// CWBudde-go-dws/cmd/dwscript/cmd/version.go.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(c *cobra.Command, args []string) {
		fmt.Printf("nib %s — %s\n", nibVersion, nibAuthor)
	},
}
