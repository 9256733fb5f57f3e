package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.bp>",
	Short: "Parse a BP source file and report success or the first syntax error",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(c *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bpc: %w", err)
	}
	prog, derr := parser.Parse(src)
	if derr != nil {
		fmt.Fprint(os.Stderr, diag.Format(derr, src, path, !noColor))
		return derr
	}
	fmt.Fprintf(c.OutOrStdout(), "ok: %d item(s)\n", len(prog.Items))
	return nil
}
