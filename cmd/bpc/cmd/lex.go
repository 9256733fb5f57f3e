package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file.bp>",
	Short: "Print the token stream for a BP source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func runLex(c *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bpc: %w", err)
	}
	toks, derr := lexer.Lex(src)
	if derr != nil {
		fmt.Fprint(os.Stderr, diag.Format(derr, src, path, !noColor))
		return derr
	}
	for _, t := range toks {
		fmt.Fprintf(c.OutOrStdout(), "%-12s %q\n", t.Kind, t.Literal)
	}
	return nil
}
