package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at link time via -ldflags in real release builds; left as
// "dev" otherwise.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print bpc's version",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		fmt.Fprintln(c.OutOrStdout(), version)
		return nil
	},
}
