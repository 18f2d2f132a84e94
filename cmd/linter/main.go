// Command linter validates everest manifest, interface, and data-type
// YAML documents, and (via its generate subcommand) emits the Go
// service interfaces and dispatch glue for a module's provided slots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linter",
	Short: "linter validates everest schema documents",
	Long: `linter parses manifest, interface, and data-type YAML documents in
order and stops at the first one that fails, reporting its first schema
violation — an unknown field, a malformed type, or a structurally wrong
document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(manifestCmd, interfaceCmd, typesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
