package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpc-lang/bpc/internal/check"
	"github.com/bpc-lang/bpc/internal/compiler"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/parser"
	"github.com/bpc-lang/bpc/internal/simplify"
	"github.com/bpc-lang/bpc/internal/wasm"
)

var (
	outPath  string
	emitWat  bool
	noColor  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <file.bp>",
	Short: "Compile a BP source file to a Wasm module",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&outPath, "output", "o", "", "output path (default: input file with .wasm)")
	compileCmd.Flags().BoolVar(&emitWat, "emit-wat", false, "also print a WAT-style disassembly of the compiled module to stderr")
	compileCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors in diagnostic output")
}

func runCompile(c *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bpc: %w", err)
	}

	if emitWat {
		if derr := printWat(c, src, path); derr != nil {
			return derr
		}
	}

	out, derr := compiler.Compile(src)
	if derr != nil {
		fmt.Fprint(os.Stderr, diag.Format(derr, src, path, !noColor))
		return derr
	}

	dest := outPath
	if dest == "" {
		dest = strings.TrimSuffix(path, ".bp") + ".wasm"
	}
	if werr := os.WriteFile(dest, out, 0o644); werr != nil {
		return fmt.Errorf("bpc: %w", werr)
	}
	fmt.Fprintf(c.OutOrStdout(), "wrote %s (%d bytes)\n", dest, len(out))
	return nil
}

// printWat runs the pipeline up to simplification a second time (Compile
// doesn't expose its intermediate HIR) purely to drive the disassembler;
// a compile error here is reported the same way the real compile below
// would report it, just earlier.
func printWat(c *cobra.Command, src []byte, path string) error {
	prog, derr := parser.Parse(src)
	if derr != nil {
		fmt.Fprint(os.Stderr, diag.Format(derr, src, path, !noColor))
		return derr
	}
	hirProg, derr := check.Check(prog)
	if derr != nil {
		fmt.Fprint(os.Stderr, diag.Format(derr, src, path, !noColor))
		return derr
	}
	hirProg = simplify.Program(hirProg)
	return wasm.NewDisassembler(os.Stderr).Disassemble(hirProg)
}
