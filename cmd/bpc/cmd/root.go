// Package cmd implements bpc's cobra command tree. Grounded on the
// teacher's cmd/dwscript command layout: one root command carrying shared
// persistent flags, one file per subcommand, each subcommand thin enough
// that all real work stays in the internal packages it calls into.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bpc",
	Short: "bpc compiles BP source to a WebAssembly module",
	Long: `bpc is the reference compiler for BP, a small statically-typed
imperative language whose only compiler backend emits binary WebAssembly
1.0 modules.`,
	SilenceUsage: true,
}

// Execute runs the root command, returning the first error a subcommand
// reports.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)
}
